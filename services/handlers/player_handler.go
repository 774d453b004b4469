package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/shared"
)

type PlayerHandler struct {
	playerSvc PlayerServiceInterface
}

func NewPlayerHandler(playerSvc PlayerServiceInterface) *PlayerHandler {
	return &PlayerHandler{
		playerSvc: playerSvc,
	}
}

// @Summary Start lesson attempt
// @Description Start or restart the caller's attempt at a lesson
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param startRequest body dto.StartAttemptRequest true "Lesson to start"
// @Success 200 {object} shared.Response{data=dto.PlayerStateResponse}
// @Router /api/v1/player/start [post]
func (h *PlayerHandler) StartAttempt(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	state, err := h.playerSvc.StartAttempt(userID, req.LessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Attempt started", state)
}

// @Summary Get attempt state
// @Description Get the current state of the caller's attempt at a lesson
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.PlayerStateResponse}
// @Router /api/v1/player/{lessonId} [get]
func (h *PlayerHandler) GetState(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	state, err := h.playerSvc.GetState(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Advance to next step
// @Description Move the attempt forward one step. Gated on unanswered quizzes.
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.PlayerStateResponse}
// @Router /api/v1/player/{lessonId}/next [post]
func (h *PlayerHandler) Next(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	state, err := h.playerSvc.Next(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Go back one step
// @Description Move the attempt back one step. Recorded answers stay visible.
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.PlayerStateResponse}
// @Router /api/v1/player/{lessonId}/previous [post]
func (h *PlayerHandler) Previous(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	state, err := h.playerSvc.Previous(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Submit quiz answer
// @Description Record an answer for a quiz step. Answers are write-once.
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param answerRequest body dto.SubmitAnswerRequest true "Answer to record"
// @Success 200 {object} shared.Response{data=dto.PlayerStateResponse}
// @Router /api/v1/player/answer [post]
func (h *PlayerHandler) SubmitAnswer(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	state, err := h.playerSvc.SubmitAnswer(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Answer recorded", state)
}

// @Summary Complete lesson
// @Description Close the attempt, record the completion and award XP
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=dto.CompleteLessonResponse}
// @Router /api/v1/player/{lessonId}/complete [post]
func (h *PlayerHandler) Complete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	resp, err := h.playerSvc.Complete(userID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson completed", resp)
}

// @Summary Abandon lesson attempt
// @Description Discard the caller's in-progress attempt at a lesson
// @Tags player
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/player/{lessonId} [delete]
func (h *PlayerHandler) Abandon(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	lessonID := c.Params("lessonId")

	h.playerSvc.Abandon(userID, lessonID)

	return shared.ResponseJSON(c, fiber.StatusOK, "Attempt abandoned", nil)
}
