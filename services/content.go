package services

import (
	"encoding/json"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
)

type ContentService struct {
	context.DefaultService

	postgresSvc *PostgresService
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// ==================== BROWSE METHODS ====================

func (svc *ContentService) GetCourses(includeUnpublished bool) (*dto.CourseCollectionResponse, error) {
	courses, err := svc.postgresSvc.GetCourses(!includeUnpublished)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		lessons, err := svc.postgresSvc.GetLessonsByCourse(course.ID)
		if err != nil {
			return nil, err
		}

		resp := svc.mapCourseToResponse(&course)
		resp.LessonCount = countPublished(lessons, includeUnpublished)
		responses = append(responses, resp)
	}

	return &dto.CourseCollectionResponse{
		Courses: responses,
		Total:   len(responses),
	}, nil
}

func (svc *ContentService) GetCourseDetail(courseID, userID string, includeUnpublished bool) (*dto.CourseDetailResponse, error) {
	course, err := svc.postgresSvc.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if !course.IsPublished && !includeUnpublished {
		return nil, shared.NewNotFoundError(nil, "Course not found")
	}

	lessons, err := svc.postgresSvc.GetLessonsByCourse(courseID)
	if err != nil {
		return nil, err
	}

	// Overlay the caller's completion state
	progressByLesson := map[string]*model.UserProgress{}
	if userID != "" {
		records, err := svc.postgresSvc.GetUserProgressList(userID)
		if err != nil {
			return nil, err
		}
		for i := range records {
			progressByLesson[records[i].LessonID] = &records[i]
		}
	}

	summaries := make([]dto.LessonSummaryResponse, 0, len(lessons))
	for _, lesson := range lessons {
		if !lesson.IsPublished && !includeUnpublished {
			continue
		}

		summary := dto.LessonSummaryResponse{
			ID:          lesson.ID,
			Title:       lesson.Title,
			Description: lesson.Description,
			OrderIndex:  lesson.OrderIndex,
			XPReward:    lesson.XPReward,
		}

		blocks, err := model.ParseContent(lesson.Content)
		if err != nil {
			log.WithError(err).WithField("lesson_id", lesson.ID).Warn("Stored lesson content failed to parse")
		} else {
			summary.BlockCount = len(blocks)
			for _, block := range blocks {
				if block.IsQuiz() {
					summary.QuizCount++
				}
			}
		}

		if progress, ok := progressByLesson[lesson.ID]; ok && progress.Completed {
			summary.Completed = true
			summary.Score = progress.Score
		}

		summaries = append(summaries, summary)
	}

	courseResp := svc.mapCourseToResponse(course)
	courseResp.LessonCount = len(summaries)

	return &dto.CourseDetailResponse{
		Course:  courseResp,
		Lessons: summaries,
	}, nil
}

func (svc *ContentService) GetLessonContent(lessonID string, includeUnpublished bool) (*dto.LessonResponse, error) {
	lesson, err := svc.postgresSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if !lesson.IsPublished && !includeUnpublished {
		return nil, shared.NewNotFoundError(nil, "Lesson not found")
	}

	blocks, err := model.ParseContent(lesson.Content)
	if err != nil {
		return nil, shared.NewInternalError(err, "Lesson content is corrupted")
	}

	return &dto.LessonResponse{
		ID:          lesson.ID,
		CourseID:    lesson.CourseID,
		Title:       lesson.Title,
		Description: lesson.Description,
		OrderIndex:  lesson.OrderIndex,
		XPReward:    lesson.XPReward,
		Content:     MapBlocksToResponses(blocks),
	}, nil
}

// ==================== AUTHORING METHODS ====================

func (svc *ContentService) CreateCourse(req dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Difficulty:  req.Difficulty,
		OrderIndex:  req.OrderIndex,
	}

	created, err := svc.postgresSvc.CreateCourse(course)
	if err != nil {
		return nil, err
	}

	resp := svc.mapCourseToResponse(created)
	return &resp, nil
}

func (svc *ContentService) UpdateCourse(courseID string, req dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := svc.postgresSvc.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Difficulty != nil {
		course.Difficulty = *req.Difficulty
	}
	if req.OrderIndex != nil {
		course.OrderIndex = *req.OrderIndex
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := svc.postgresSvc.UpdateCourse(course); err != nil {
		return nil, err
	}

	resp := svc.mapCourseToResponse(course)
	return &resp, nil
}

func (svc *ContentService) CreateLesson(req dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	if _, err := svc.postgresSvc.GetCourse(req.CourseID); err != nil {
		return nil, err
	}

	raw, blocks, err := svc.encodeContent(req.Content)
	if err != nil {
		return nil, err
	}

	xpReward := req.XPReward
	if xpReward == 0 {
		xpReward = 100
	}

	lesson := &model.Lesson{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
		XPReward:    xpReward,
		Content:     raw,
	}

	created, err := svc.postgresSvc.CreateLesson(lesson)
	if err != nil {
		return nil, err
	}

	return &dto.LessonResponse{
		ID:          created.ID,
		CourseID:    created.CourseID,
		Title:       created.Title,
		Description: created.Description,
		OrderIndex:  created.OrderIndex,
		XPReward:    created.XPReward,
		Content:     MapBlocksToResponses(blocks),
	}, nil
}

func (svc *ContentService) UpdateLesson(lessonID string, req dto.UpdateLessonRequest) (*dto.LessonResponse, error) {
	lesson, err := svc.postgresSvc.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.OrderIndex != nil {
		lesson.OrderIndex = *req.OrderIndex
	}
	if req.XPReward != nil {
		lesson.XPReward = *req.XPReward
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	blocks, err := model.ParseContent(lesson.Content)
	if err != nil {
		blocks = nil
	}

	if req.Content != nil {
		raw, newBlocks, err := svc.encodeContent(req.Content)
		if err != nil {
			return nil, err
		}
		lesson.Content = raw
		blocks = newBlocks
	}

	if err := svc.postgresSvc.UpdateLesson(lesson); err != nil {
		return nil, err
	}

	return &dto.LessonResponse{
		ID:          lesson.ID,
		CourseID:    lesson.CourseID,
		Title:       lesson.Title,
		Description: lesson.Description,
		OrderIndex:  lesson.OrderIndex,
		XPReward:    lesson.XPReward,
		Content:     MapBlocksToResponses(blocks),
	}, nil
}

// ==================== HELPERS ====================

func (svc *ContentService) encodeContent(reqBlocks []dto.ContentBlockRequest) (json.RawMessage, []model.ContentBlock, error) {
	blocks := make([]model.ContentBlock, 0, len(reqBlocks))
	for _, rb := range reqBlocks {
		blocks = append(blocks, model.ContentBlock{
			Type:          rb.Type,
			Content:       rb.Content,
			Title:         rb.Title,
			Question:      rb.Question,
			Options:       rb.Options,
			CorrectAnswer: rb.CorrectAnswer,
			Explanation:   rb.Explanation,
			Difficulty:    rb.Difficulty,
		})
	}

	if err := model.ValidateContent(blocks); err != nil {
		return nil, nil, shared.NewBadRequestError(err, err.Error())
	}

	raw, err := json.Marshal(blocks)
	if err != nil {
		return nil, nil, shared.NewInternalError(err, "Failed to encode lesson content")
	}

	return raw, blocks, nil
}

func (svc *ContentService) mapCourseToResponse(course *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Description: course.Description,
		Category:    course.Category,
		Difficulty:  course.Difficulty,
		ImageURL:    course.ImageURL,
		OrderIndex:  course.OrderIndex,
		IsPublished: course.IsPublished,
	}
}

// MapBlocksToResponses strips answer keys and explanations from quiz blocks
// so the client never sees them before answering.
func MapBlocksToResponses(blocks []model.ContentBlock) []dto.ContentBlockResponse {
	responses := make([]dto.ContentBlockResponse, 0, len(blocks))
	for _, block := range blocks {
		responses = append(responses, MapBlockToResponse(block))
	}
	return responses
}

func MapBlockToResponse(block model.ContentBlock) dto.ContentBlockResponse {
	resp := dto.ContentBlockResponse{
		Type:    block.Type,
		Content: block.Content,
		Title:   block.Title,
	}

	if block.IsQuiz() {
		resp.Question = block.Question
		resp.Options = block.Options
		resp.Difficulty = block.Difficulty
	}

	return resp
}

func countPublished(lessons []model.Lesson, includeUnpublished bool) int {
	if includeUnpublished {
		return len(lessons)
	}

	count := 0
	for _, lesson := range lessons {
		if lesson.IsPublished {
			count++
		}
	}
	return count
}
