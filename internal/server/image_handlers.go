package server

import (
	"io"

	"otomo/internal/models"
	"otomo/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images
// @Summary Upload an image
// @Description Upload a dish photo; thumbnail and medium variants are generated
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (jpeg/png/webp/gif, max 10MB)"
// @Success 201 {object} service.UploadedImage
// @Failure 400 {object} models.ErrorResponse
// @Router /images [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("ファイルを選択してください"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	uploaded, err := s.imageService.Upload(service.UploadImageInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// ServeImage handles GET /api/images/:hash/:size
// @Summary Serve an uploaded image variant
// @Tags images
// @Produce image/webp
// @Param hash path string true "Image content hash"
// @Param size path string false "original, thumbnail or medium"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /images/{hash}/{size} [get]
func (s *Server) ServeImage(c *fiber.Ctx) error {
	hash := c.Params("hash")
	size := c.Params("size", service.ImageSizeOriginal)

	path, err := s.imageService.ResolveForServing(hash, size)
	if err != nil {
		return respondAppError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/webp")
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(path)
}
