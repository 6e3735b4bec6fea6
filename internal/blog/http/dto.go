package http

import (
	"time"

	"github.com/ketensuites/keten-backend/internal/blog"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
)

type PostResponse struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Excerpt          string     `json:"excerpt"`
	Content          string     `json:"content,omitempty"`
	FeaturedImageURL string     `json:"featured_image_url"`
	AuthorName       string     `json:"author_name"`
	Category         string     `json:"category"`
	Tags             []string   `json:"tags"`
	IsPublished      bool       `json:"is_published"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewPostResponse omits the body unless withContent is set; list views only
// need the excerpt.
func NewPostResponse(p *blog.Post, withContent bool) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := PostResponse{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		Excerpt:          p.Excerpt,
		FeaturedImageURL: p.FeaturedImageURL,
		AuthorName:       p.AuthorName,
		Category:         p.Category,
		Tags:             tags,
		IsPublished:      p.IsPublished,
		PublishedAt:      p.PublishedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if withContent {
		resp.Content = p.Content
	}
	return resp
}

type ListPostsQuery struct {
	request.ListParams
	Category string `form:"category" binding:"omitempty,max=100"`
	Tag      string `form:"tag" binding:"omitempty,max=50"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	Drafts   bool   `form:"drafts"`
}

func (q ListPostsQuery) toFilter() blog.Filter {
	return blog.Filter{
		Category: q.Category,
		Tag:      q.Tag,
		Keyword:  q.Keyword,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

type CreatePostRequest struct {
	Title            string   `json:"title" binding:"required,max=300"`
	Slug             string   `json:"slug" binding:"omitempty,max=200"`
	Excerpt          string   `json:"excerpt" binding:"max=1000"`
	Content          string   `json:"content" binding:"required"`
	FeaturedImageURL string   `json:"featured_image_url" binding:"omitempty,max=500"`
	AuthorName       string   `json:"author_name" binding:"max=200"`
	Category         string   `json:"category" binding:"max=100"`
	Tags             []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsPublished      bool     `json:"is_published"`
}

type UpdatePostRequest struct {
	Title            *string   `json:"title" binding:"omitempty,max=300"`
	Slug             *string   `json:"slug" binding:"omitempty,max=200"`
	Excerpt          *string   `json:"excerpt" binding:"omitempty,max=1000"`
	Content          *string   `json:"content"`
	FeaturedImageURL *string   `json:"featured_image_url" binding:"omitempty,max=500"`
	AuthorName       *string   `json:"author_name" binding:"omitempty,max=200"`
	Category         *string   `json:"category" binding:"omitempty,max=100"`
	Tags             *[]string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsPublished      *bool     `json:"is_published"`
}
