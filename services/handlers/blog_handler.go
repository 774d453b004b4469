package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/shared"
)

type BlogHandler struct {
	communitySvc CommunityServiceInterface
}

func NewBlogHandler(communitySvc CommunityServiceInterface) *BlogHandler {
	return &BlogHandler{
		communitySvc: communitySvc,
	}
}

// @Summary Get posts
// @Description List published blog posts and notices
// @Tags community
// @Accept json
// @Produce json
// @Param kind query string false "Filter by kind (post or notice)"
// @Success 200 {object} shared.Response{data=dto.BlogPostCollectionResponse}
// @Router /api/v1/posts [get]
func (h *BlogHandler) GetPosts(c *fiber.Ctx) error {
	kind := c.Query("kind")

	posts, err := h.communitySvc.GetPosts(kind, isAdmin(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", posts)
}

// @Summary Get post
// @Description Get a single published blog post or notice
// @Tags community
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} shared.Response{data=dto.BlogPostResponse}
// @Router /api/v1/posts/{postId} [get]
func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	postID := c.Params("postId")

	post, err := h.communitySvc.GetPost(postID, isAdmin(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", post)
}

// @Summary Create post (Admin)
// @Description Create a blog post or notice (admin only)
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param postRequest body dto.CreateBlogPostRequest true "Post details"
// @Success 201 {object} shared.Response{data=dto.BlogPostResponse}
// @Router /api/v1/admin/posts [post]
func (h *BlogHandler) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	post, err := h.communitySvc.CreatePost(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Post created successfully", post)
}

// @Summary Update post (Admin)
// @Description Update or publish a blog post or notice (admin only)
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param postId path string true "Post ID"
// @Param postRequest body dto.UpdateBlogPostRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.BlogPostResponse}
// @Router /api/v1/admin/posts/{postId} [put]
func (h *BlogHandler) UpdatePost(c *fiber.Ctx) error {
	postID := c.Params("postId")

	var req dto.UpdateBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	post, err := h.communitySvc.UpdatePost(postID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Post updated successfully", post)
}

// @Summary Delete post (Admin)
// @Description Delete a blog post or notice (admin only)
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param postId path string true "Post ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/posts/{postId} [delete]
func (h *BlogHandler) DeletePost(c *fiber.Ctx) error {
	postID := c.Params("postId")

	if err := h.communitySvc.DeletePost(postID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Post deleted successfully", nil)
}

// @Summary Create support ticket
// @Description Open a support ticket for the authenticated user
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Param ticketRequest body dto.CreateTicketRequest true "Ticket details"
// @Success 201 {object} shared.Response{data=dto.TicketResponse}
// @Router /api/v1/tickets [post]
func (h *BlogHandler) CreateTicket(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	ticket, err := h.communitySvc.CreateTicket(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Ticket created successfully", ticket)
}

// @Summary Get own tickets
// @Description List the authenticated user's support tickets
// @Tags community
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "User Bearer Token" default(Bearer <user_token>)
// @Success 200 {object} shared.Response{data=dto.TicketCollectionResponse}
// @Router /api/v1/tickets [get]
func (h *BlogHandler) GetOwnTickets(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	tickets, err := h.communitySvc.GetUserTickets(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tickets)
}
