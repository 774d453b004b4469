package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/shared"
)

type AdminHandler struct {
	userSvc      UserServiceInterface
	contentSvc   ContentServiceInterface
	communitySvc CommunityServiceInterface
}

func NewAdminHandler(userSvc UserServiceInterface, contentSvc ContentServiceInterface, communitySvc CommunityServiceInterface) *AdminHandler {
	return &AdminHandler{
		userSvc:      userSvc,
		contentSvc:   contentSvc,
		communitySvc: communitySvc,
	}
}

// ==================== USER MANAGEMENT ====================

// @Summary Get all users (Admin)
// @Description Get list of all users (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Search term"
// @Success 200 {object} shared.Response{data=dto.AdminUserListResponse}
// @Router /api/v1/admin/users [get]
func (h *AdminHandler) GetUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search")

	users, err := h.userSvc.AdminGetUsers(page, limit, search)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// @Summary Update user (Admin)
// @Description Update a user's role or active flag (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Param updateRequest body dto.AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.AdminUserInfo}
// @Router /api/v1/admin/users/{userId} [put]
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req dto.AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	user, err := h.userSvc.AdminUpdateUser(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "User updated successfully", user)
}

// @Summary Delete user (Admin)
// @Description Delete a user account (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param userId path string true "User ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	if err := h.userSvc.AdminDeleteUser(userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "User deleted successfully", nil)
}

// ==================== COURSE AUTHORING ====================

// @Summary Create course (Admin)
// @Description Create a new course (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param courseRequest body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} shared.Response{data=dto.CourseResponse}
// @Router /api/v1/admin/courses [post]
func (h *AdminHandler) CreateCourse(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	course, err := h.contentSvc.CreateCourse(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Course created successfully", course)
}

// @Summary Update course (Admin)
// @Description Update or publish a course (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param courseId path string true "Course ID"
// @Param courseRequest body dto.UpdateCourseRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.CourseResponse}
// @Router /api/v1/admin/courses/{courseId} [put]
func (h *AdminHandler) UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	course, err := h.contentSvc.UpdateCourse(courseID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Course updated successfully", course)
}

// ==================== LESSON AUTHORING ====================

// @Summary Create lesson (Admin)
// @Description Create a lesson with validated content blocks (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonRequest body dto.CreateLessonRequest true "Lesson details"
// @Success 201 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons [post]
func (h *AdminHandler) CreateLesson(c *fiber.Ctx) error {
	var req dto.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.contentSvc.CreateLesson(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Lesson created successfully", lesson)
}

// @Summary Update lesson (Admin)
// @Description Update or publish a lesson (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param lessonId path string true "Lesson ID"
// @Param lessonRequest body dto.UpdateLessonRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.LessonResponse}
// @Router /api/v1/admin/lessons/{lessonId} [put]
func (h *AdminHandler) UpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Params("lessonId")

	var req dto.UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	lesson, err := h.contentSvc.UpdateLesson(lessonID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Lesson updated successfully", lesson)
}

// ==================== SUPPORT & CAMPAIGNS ====================

// @Summary Get support tickets (Admin)
// @Description List support tickets, optionally filtered by status (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param status query string false "Ticket status filter"
// @Success 200 {object} shared.Response{data=dto.TicketCollectionResponse}
// @Router /api/v1/admin/tickets [get]
func (h *AdminHandler) GetTickets(c *fiber.Ctx) error {
	status := c.Query("status")

	tickets, err := h.communitySvc.GetAllTickets(status)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tickets)
}

// @Summary Respond to ticket (Admin)
// @Description Record a response and update a ticket's status (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param ticketId path string true "Ticket ID"
// @Param respondRequest body dto.RespondTicketRequest true "Response and new status"
// @Success 200 {object} shared.Response{data=dto.TicketResponse}
// @Router /api/v1/admin/tickets/{ticketId} [put]
func (h *AdminHandler) RespondToTicket(c *fiber.Ctx) error {
	ticketID := c.Params("ticketId")

	var req dto.RespondTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	ticket, err := h.communitySvc.RespondToTicket(ticketID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Ticket updated successfully", ticket)
}

// @Summary Create email campaign (Admin)
// @Description Draft an email campaign with audience targeting (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param campaignRequest body dto.CreateCampaignRequest true "Campaign details"
// @Success 201 {object} shared.Response{data=dto.CampaignResponse}
// @Router /api/v1/admin/campaigns [post]
func (h *AdminHandler) CreateCampaign(c *fiber.Ctx) error {
	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	campaign, err := h.communitySvc.CreateCampaign(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Campaign created successfully", campaign)
}

// @Summary List email campaigns (Admin)
// @Description List all email campaigns (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Success 200 {object} shared.Response{data=dto.CampaignCollectionResponse}
// @Router /api/v1/admin/campaigns [get]
func (h *AdminHandler) GetCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.communitySvc.GetCampaigns()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", campaigns)
}

// @Summary Queue email campaign (Admin)
// @Description Freeze recipients and queue a draft campaign for delivery (admin only)
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param campaignId path string true "Campaign ID"
// @Success 200 {object} shared.Response{data=dto.CampaignResponse}
// @Router /api/v1/admin/campaigns/{campaignId}/queue [post]
func (h *AdminHandler) QueueCampaign(c *fiber.Ctx) error {
	campaignID := c.Params("campaignId")

	campaign, err := h.communitySvc.QueueCampaign(campaignID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Campaign queued successfully", campaign)
}
