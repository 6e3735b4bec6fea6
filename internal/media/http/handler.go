package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/media"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
)

type Handler struct {
	service media.Service
	logger  *zap.Logger
}

func NewHandler(service media.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) stream(c *gin.Context, rc io.ReadCloser, contentType, filename string) {
	defer rc.Close()

	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are already sent.
		h.logger.Warn("media stream interrupted", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
}

// Serve streams the stored file.
func (h *Handler) Serve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	rc, m, err := h.service.Open(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, rc, m.ContentType, m.Filename)
}

// ServeThumbnail streams the JPEG thumbnail of an image.
func (h *Handler) ServeThumbnail(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	rc, m, err := h.service.OpenThumbnail(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, rc, "image/jpeg", m.ID+"_thumb.jpg")
}
