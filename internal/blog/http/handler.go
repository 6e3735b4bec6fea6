package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ketensuites/keten-backend/internal/blog"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
)

type Handler struct {
	service blog.Service
}

func NewHandler(service blog.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) list(c *gin.Context, includeDrafts bool) {
	var q ListPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	q.Normalize()

	filter := q.toFilter()
	filter.IncludeDrafts = includeDrafts && q.Drafts

	posts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]PostResponse, len(posts))
	for i, p := range posts {
		items[i] = NewPostResponse(p, false)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

// List returns published posts, newest first.
func (h *Handler) List(c *gin.Context) {
	h.list(c, false)
}

// ListAll is the back-office listing; drafts=true includes unpublished posts.
func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, true)
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid slug", err)
		return
	}

	p, err := h.service.GetPublished(c.Request.Context(), uri.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostResponse(p, true))
}

func (h *Handler) GetByID(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostResponse(p, true))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreatePostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), blog.CreateRequest{
		Title:            body.Title,
		Slug:             body.Slug,
		Excerpt:          body.Excerpt,
		Content:          body.Content,
		FeaturedImageURL: body.FeaturedImageURL,
		AuthorName:       body.AuthorName,
		Category:         body.Category,
		Tags:             body.Tags,
		IsPublished:      body.IsPublished,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewPostResponse(p, true))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body UpdatePostRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), uri.ID, blog.UpdateRequest{
		Title:            body.Title,
		Slug:             body.Slug,
		Excerpt:          body.Excerpt,
		Content:          body.Content,
		FeaturedImageURL: body.FeaturedImageURL,
		AuthorName:       body.AuthorName,
		Category:         body.Category,
		Tags:             body.Tags,
		IsPublished:      body.IsPublished,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewPostResponse(p, true))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
