package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type JWTServiceInterface interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (string, error)
}

type UserServiceInterface interface {
	GetUserProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateUserProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetLeaderboard(limit int, userID string) (*dto.LeaderboardResponse, error)
	AdminGetUsers(page, limit int, search string) (*dto.AdminUserListResponse, error)
	AdminUpdateUser(userID string, req dto.AdminUpdateUserRequest) (*dto.AdminUserInfo, error)
	AdminDeleteUser(userID string) error
}

type ContentServiceInterface interface {
	GetCourses(includeUnpublished bool) (*dto.CourseCollectionResponse, error)
	GetCourseDetail(courseID, userID string, includeUnpublished bool) (*dto.CourseDetailResponse, error)
	GetLessonContent(lessonID string, includeUnpublished bool) (*dto.LessonResponse, error)
	CreateCourse(req dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(courseID string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	CreateLesson(req dto.CreateLessonRequest) (*dto.LessonResponse, error)
	UpdateLesson(lessonID string, req dto.UpdateLessonRequest) (*dto.LessonResponse, error)
}

type PlayerServiceInterface interface {
	StartAttempt(userID, lessonID string) (*dto.PlayerStateResponse, error)
	GetState(userID, lessonID string) (*dto.PlayerStateResponse, error)
	Next(userID, lessonID string) (*dto.PlayerStateResponse, error)
	Previous(userID, lessonID string) (*dto.PlayerStateResponse, error)
	SubmitAnswer(userID string, req dto.SubmitAnswerRequest) (*dto.PlayerStateResponse, error)
	Complete(userID, lessonID string) (*dto.CompleteLessonResponse, error)
	Abandon(userID, lessonID string)
}

type ProgressServiceInterface interface {
	CompleteLesson(userID, lessonID string, choices []int) (*dto.CompleteLessonResponse, error)
	GetLessonProgress(userID, lessonID string) (*dto.UserProgressResponse, error)
	ListProgress(userID string) ([]dto.UserProgressResponse, error)
	GetUserAchievements(userID string) ([]dto.AchievementResponse, error)
}

type CommunityServiceInterface interface {
	GetPosts(kind string, includeUnpublished bool) (*dto.BlogPostCollectionResponse, error)
	GetPost(postID string, includeUnpublished bool) (*dto.BlogPostResponse, error)
	CreatePost(authorID string, req dto.CreateBlogPostRequest) (*dto.BlogPostResponse, error)
	UpdatePost(postID string, req dto.UpdateBlogPostRequest) (*dto.BlogPostResponse, error)
	DeletePost(postID string) error
	CreateTicket(userID string, req dto.CreateTicketRequest) (*dto.TicketResponse, error)
	GetUserTickets(userID string) (*dto.TicketCollectionResponse, error)
	GetAllTickets(status string) (*dto.TicketCollectionResponse, error)
	RespondToTicket(ticketID string, req dto.RespondTicketRequest) (*dto.TicketResponse, error)
	CreateCampaign(req dto.CreateCampaignRequest) (*dto.CampaignResponse, error)
	GetCampaigns() (*dto.CampaignCollectionResponse, error)
	QueueCampaign(campaignID string) (*dto.CampaignResponse, error)
}

type MediaServiceInterface interface {
	UploadCourseImage(courseID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	UploadBlogCover(postID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
	DeleteMediaAsset(assetID string) error
}
