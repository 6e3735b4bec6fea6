package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
	"github.com/ketensuites/keten-backend/internal/unit"
)

type Handler struct {
	service unit.Service
}

func NewHandler(service unit.Service) *Handler {
	return &Handler{service: service}
}

// Search lists units matching the query, optionally restricted to a stay window.
func (h *Handler) Search(c *gin.Context) {
	var q SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	sortKey, err := unit.ParseSortKey(q.Sort)
	if err != nil {
		response.Error(c, err)
		return
	}

	req := unit.SearchRequest{
		Criteria: unit.Criteria{
			Type:        unit.Type(q.Type),
			MinCapacity: q.MinCapacity,
		},
		Sort:               sortKey,
		IncludeUnavailable: q.IncludeUnavailable,
	}

	switch {
	case q.StartDate == "" && q.EndDate == "":
	case q.StartDate == "" || q.EndDate == "":
		response.Error(c, unit.ErrIncompleteWindow)
		return
	default:
		window, err := daterange.ParseInterval(q.StartDate, q.EndDate)
		if err != nil {
			response.BadRequest(c, err.Error(), nil)
			return
		}
		req.Criteria.Window = &window
	}

	listings, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ListingResponse, len(listings))
	for i, l := range listings {
		items[i] = ListingResponse{UnitResponse: NewUnitResponse(l.Unit), Available: l.Available}
	}
	c.JSON(http.StatusOK, response.NewListResponse(items))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid slug", err)
		return
	}

	u, err := h.service.GetBySlug(c.Request.Context(), uri.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUnitResponse(u))
}

func (h *Handler) BlockedDates(c *gin.Context) {
	var uri request.BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid slug", err)
		return
	}

	u, days, err := h.service.BlockedDates(c.Request.Context(), uri.Slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	if days == nil {
		days = []daterange.Date{}
	}
	c.JSON(http.StatusOK, BlockedDatesResponse{
		UnitID:       u.ID,
		PropertyID:   u.PropertyID,
		BlockedDates: days,
	})
}

// Quote prices a stay in the unit and reports whether it can be booked.
func (h *Handler) Quote(c *gin.Context) {
	var uri request.BySlugRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid slug", err)
		return
	}
	var q WindowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	window, err := daterange.ParseInterval(q.StartDate, q.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	result, err := h.service.Quote(c.Request.Context(), uri.Slug, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewQuoteResponse(result))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateUnitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	u, err := h.service.Create(c.Request.Context(), body.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUnitResponse(u))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid id", err)
		return
	}
	var body UpdateUnitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	u, err := h.service.Update(c.Request.Context(), uri.ID, body.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUnitResponse(u))
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
