package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get Courses
// @Description Get the published course catalog
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.CourseCollectionResponse}
// @Router /api/v1/courses [get]
func (h *ContentHandler) GetCourses(c *fiber.Ctx) error {
	courses, err := h.contentSvc.GetCourses(isAdmin(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", courses)
}

// @Summary Get Course
// @Description Get a course with its lessons and the caller's completion state
// @Tags content
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param courseId path string true "Course ID"
// @Success 200 {object} shared.Response{data=dto.CourseDetailResponse}
// @Router /api/v1/courses/{courseId} [get]
func (h *ContentHandler) GetCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	userID, _ := c.Locals(shared.UserID).(string)

	course, err := h.contentSvc.GetCourseDetail(courseID, userID, isAdmin(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Get Lesson
// @Description Get a lesson's content blocks. Quiz answers are withheld.
// @Tags content
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/lessons/{lessonId} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	lesson, err := h.contentSvc.GetLessonContent(lessonID, isAdmin(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(shared.UserRole).(string)
	return role == model.RoleAdmin
}
