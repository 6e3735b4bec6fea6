package media

import (
	"net/http"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "media not found")
	ErrNoThumbnail     = apperror.New(http.StatusNotFound, "thumbnail not available")
	ErrFileTooLarge    = apperror.New(http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType = apperror.New(http.StatusUnsupportedMediaType, "unsupported file type")
)

// Media is an uploaded file, usually a listing photo.
type Media struct {
	ID            string
	UploadedBy    string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	Width         int
	Height        int
	CreatedAt     time.Time
}

// URL returns the public path of a media object.
func URL(id string) string {
	return "/v1/media/" + id
}

func ThumbnailURL(id string) string {
	return "/v1/media/" + id + "/thumbnail"
}
