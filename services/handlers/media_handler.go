package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rebooto/rebooto_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

// @Summary Upload course image (Admin)
// @Description Upload a cover image for a course (admin only)
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param courseId path string true "Course ID"
// @Param file formData file true "Image file (JPG, PNG, WEBP)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/courses/{courseId}/image [post]
func (h *MediaHandler) UploadCourseImage(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "No file provided")
	}

	resp, err := h.mediaSvc.UploadCourseImage(courseID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Image uploaded successfully", resp)
}

// @Summary Upload blog cover (Admin)
// @Description Upload a cover image for a blog post (admin only)
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param postId path string true "Post ID"
// @Param file formData file true "Image file (JPG, PNG, WEBP)"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/posts/{postId}/cover [post]
func (h *MediaHandler) UploadBlogCover(c *fiber.Ctx) error {
	postID := c.Params("postId")

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "No file provided")
	}

	resp, err := h.mediaSvc.UploadBlogCover(postID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Cover uploaded successfully", resp)
}

// @Summary Delete media asset (Admin)
// @Description Delete an uploaded media asset (admin only)
// @Tags media
// @Accept json
// @Produce json
// @Security Bearer
// @Param Authorization header string true "Admin Bearer Token" default(Bearer <admin_token>)
// @Param assetId path string true "Asset ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/media/{assetId} [delete]
func (h *MediaHandler) DeleteAsset(c *fiber.Ctx) error {
	assetID := c.Params("assetId")

	if err := h.mediaSvc.DeleteMediaAsset(assetID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Asset deleted successfully", nil)
}
