package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"

	_ "github.com/rebooto/rebooto_api/docs"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/services/handlers"
	"github.com/rebooto/rebooto_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	userSvc       *UserService
	contentSvc    *ContentService
	playerSvc     *PlayerService
	progressSvc   *ProgressService
	communitySvc  *CommunityService
	mediaSvc      *MediaService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.playerSvc = svc.Service(PLAYER_SVC).(*PlayerService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.communitySvc = svc.Service(COMMUNITY_SVC).(*CommunityService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		JSONEncoder:  shared.JSONEncoder,
		JSONDecoder:  shared.JSONDecoder,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(errors.New("page not found"), "Page not found")
	})

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc, svc.progressSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	playerHandler := handlers.NewPlayerHandler(svc.playerSvc)
	adminHandler := handlers.NewAdminHandler(svc.userSvc, svc.contentSvc, svc.communitySvc)
	blogHandler := handlers.NewBlogHandler(svc.communitySvc)
	mediaHandler := handlers.NewMediaHandler(svc.mediaSvc)

	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)

	// Public routes
	v1.Post("/register", svc.rateLimitSvc.RateLimit("register"), authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.RateLimit("login"), authHandler.Login)
	v1.Get("/courses", contentHandler.GetCourses)
	v1.Get("/posts", blogHandler.GetPosts)
	v1.Get("/posts/:postId", blogHandler.GetPost)

	// Authenticated routes
	auth := v1.Group("", svc.authSvc.RequiredAuth())

	auth.Get("/courses/:courseId", contentHandler.GetCourse)
	auth.Get("/lessons/:lessonId", contentHandler.GetLesson)
	auth.Post("/lessons/complete", svc.rateLimitSvc.UserBasedRateLimit("lesson_complete"), userHandler.CompleteLesson)

	auth.Get("/user/profile", userHandler.GetProfile)
	auth.Put("/user/profile", svc.rateLimitSvc.UserBasedRateLimit("profile_update"), userHandler.UpdateProfile)
	auth.Get("/user/progress", userHandler.GetProgress)
	auth.Get("/user/achievements", userHandler.GetAchievements)
	auth.Get("/leaderboard", userHandler.GetLeaderboard)

	auth.Post("/player/start", playerHandler.StartAttempt)
	auth.Post("/player/answer", svc.rateLimitSvc.UserBasedRateLimit("answer_submit"), playerHandler.SubmitAnswer)
	auth.Get("/player/:lessonId", playerHandler.GetState)
	auth.Delete("/player/:lessonId", playerHandler.Abandon)
	auth.Post("/player/:lessonId/next", playerHandler.Next)
	auth.Post("/player/:lessonId/previous", playerHandler.Previous)
	auth.Post("/player/:lessonId/complete", svc.rateLimitSvc.UserBasedRateLimit("lesson_complete"), playerHandler.Complete)

	auth.Post("/tickets", svc.rateLimitSvc.UserBasedRateLimit("ticket_create"), blogHandler.CreateTicket)
	auth.Get("/tickets", blogHandler.GetOwnTickets)

	// Admin routes
	admin := auth.Group("/admin", svc.authSvc.RequireRole(model.RoleAdmin))

	admin.Get("/users", adminHandler.GetUsers)
	admin.Put("/users/:userId", adminHandler.UpdateUser)
	admin.Delete("/users/:userId", adminHandler.DeleteUser)

	admin.Post("/courses", adminHandler.CreateCourse)
	admin.Put("/courses/:courseId", adminHandler.UpdateCourse)
	admin.Post("/courses/:courseId/image", mediaHandler.UploadCourseImage)
	admin.Post("/lessons", adminHandler.CreateLesson)
	admin.Put("/lessons/:lessonId", adminHandler.UpdateLesson)

	admin.Post("/posts", blogHandler.CreatePost)
	admin.Put("/posts/:postId", blogHandler.UpdatePost)
	admin.Delete("/posts/:postId", blogHandler.DeletePost)
	admin.Post("/posts/:postId/cover", mediaHandler.UploadBlogCover)
	admin.Delete("/media/:assetId", mediaHandler.DeleteAsset)

	admin.Get("/tickets", adminHandler.GetTickets)
	admin.Put("/tickets/:ticketId", adminHandler.RespondToTicket)

	admin.Post("/campaigns", adminHandler.CreateCampaign)
	admin.Get("/campaigns", adminHandler.GetCampaigns)
	admin.Post("/campaigns/:campaignId/queue", adminHandler.QueueCampaign)
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
