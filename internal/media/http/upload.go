package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/auth"
	"github.com/ketensuites/keten-backend/internal/media"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
)

// UploadConfig configures a multipart upload endpoint.
type UploadConfig struct {
	FormField    string // defaults to "file"
	MaxSizeBytes int64
	AllowedTypes []string
	// AfterUpload links the stored media to its owner. When it fails the
	// upload is rolled back.
	AfterUpload func(ctx context.Context, m *media.Media) (any, error)
}

// HandleUpload stores the uploaded file and answers with the hook's result,
// or with an UploadResponse when no hook is set.
func (h *Handler) HandleUpload(c *gin.Context, cfg UploadConfig) {
	field := cfg.FormField
	if field == "" {
		field = "file"
	}

	header, err := c.FormFile(field)
	if err != nil {
		response.BadRequest(c, field+" is required", err)
		return
	}

	m, err := h.service.Upload(c.Request.Context(), media.UploadInput{
		File:         header,
		UploadedBy:   auth.GetUserID(c),
		MaxSizeBytes: cfg.MaxSizeBytes,
		AllowedTypes: cfg.AllowedTypes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if cfg.AfterUpload == nil {
		c.JSON(http.StatusCreated, NewUploadResponse(m))
		return
	}

	result, err := cfg.AfterUpload(c.Request.Context(), m)
	if err != nil {
		if delErr := h.service.Delete(c.Request.Context(), m.ID); delErr != nil {
			h.logger.Warn("orphaned upload not removed", zap.String("media_id", m.ID), zap.Error(delErr))
		}
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func NewUploadResponse(m *media.Media) UploadResponse {
	resp := UploadResponse{
		ID:          m.ID,
		URL:         media.URL(m.ID),
		ContentType: m.ContentType,
		Width:       m.Width,
		Height:      m.Height,
	}
	if m.ThumbnailPath != nil {
		t := media.ThumbnailURL(m.ID)
		resp.ThumbnailURL = &t
	}
	return resp
}
