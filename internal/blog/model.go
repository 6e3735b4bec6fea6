package blog

import (
	"net/http"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "post not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "title is required")
	ErrContentRequired = apperror.New(http.StatusBadRequest, "content is required")
	ErrInvalidSlug     = apperror.New(http.StatusBadRequest, "slug may only contain lowercase letters, digits and single hyphens")
	ErrSlugTaken       = apperror.New(http.StatusConflict, "slug is already in use")
)

// Post is a blog article. Drafts have IsPublished false and no PublishedAt.
type Post struct {
	ID               string
	Slug             string
	Title            string
	Excerpt          string
	Content          string
	FeaturedImageURL string
	AuthorName       string
	Category         string
	Tags             []string
	IsPublished      bool
	PublishedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Filter defines parameters for listing posts.
type Filter struct {
	Category      string
	Tag           string
	Keyword       string
	IncludeDrafts bool
	Page          int
	PageSize      int
}
