package server

import (
	"errors"

	"otomo/internal/imageproxy"
	"otomo/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchProducts handles POST /api/rakuten/search_products. The input is
// classified as a Rakuten URL or a keyword and searched accordingly; the
// response always carries the full result envelope so the post form can
// render products, a friendly message or a validation error.
// @Summary Search Rakuten products
// @Description Search products by keyword or Rakuten product URL
// @Tags rakuten
// @Accept json
// @Produce json
// @Param request body object{title=string} true "Keyword or Rakuten URL"
// @Success 200 {object} catalog.Result
// @Failure 400 {object} catalog.Result
// @Failure 500 {object} catalog.Result
// @Router /rakuten/search_products [post]
func (s *Server) SearchProducts(c *fiber.Ctx) error {
	// the field is named title for historic reasons; it accepts freeform
	// keyword text or a full Rakuten product URL
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result := s.searchService.Search(c.Context(), req.Title)
	status := result.HTTPStatus()
	if status == fiber.StatusInternalServerError {
		return c.Status(status).JSON(fiber.Map{
			"success":   false,
			"error":     result.Error,
			"timestamp": result.Timestamp,
		})
	}
	return c.Status(status).JSON(result)
}

// ProxyImage handles GET /api/rakuten/proxy_image. Only images hosted on
// Rakuten's thumbnail CDN are fetched; everything else is rejected.
// @Summary Proxy a Rakuten product image
// @Tags rakuten
// @Produce octet-stream
// @Param url query string true "Image URL on thumbnail.image.rakuten.co.jp"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rakuten/proxy_image [get]
func (s *Server) ProxyImage(c *fiber.Ctx) error {
	rawURL := c.Query("url")
	if rawURL == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("URLを指定してください"))
	}

	data, contentType, err := s.imageProxy.Fetch(c.Context(), rawURL)
	if err != nil {
		switch {
		case errors.Is(err, imageproxy.ErrHostNotAllowed):
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("許可されていない画像URLです"))
		case errors.Is(err, imageproxy.ErrUpstreamNotFound):
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Image", rawURL))
		default:
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "inline")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
