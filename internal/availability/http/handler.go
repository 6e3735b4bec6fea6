package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// BlockedDates returns every blocked day of a property or unit.
func (h *Handler) BlockedDates(c *gin.Context) {
	var q ScopeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	days, err := h.service.BlockedDates(c.Request.Context(), q.Scope())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, BlockedDatesResponse{
		PropertyID:   q.PropertyID,
		UnitID:       q.UnitID,
		BlockedDates: days,
	})
}

// Check answers whether a stay can be booked.
func (h *Handler) Check(c *gin.Context) {
	var q CheckQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	window, err := daterange.ParseInterval(q.StartDate, q.EndDate)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	result, err := h.service.Check(c.Request.Context(), q.Scope(), window)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCheckResponse(result))
}

// Calendar serves the blocked ranges as an iCalendar feed for channel managers.
func (h *Handler) Calendar(c *gin.Context) {
	var q ScopeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	ranges, err := h.service.Calendar(c.Request.Context(), q.Scope())
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := availability.WriteCalendar(&buf, q.Scope(), "Keten Suites availability", ranges, time.Now()); err != nil {
		response.Error(c, err)
		return
	}

	name := q.PropertyID
	if q.UnitID != "" {
		name = q.UnitID
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=availability_%s.ics", name))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *Handler) UpsertOverride(c *gin.Context) {
	var body OverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	date, err := daterange.Parse(body.Date)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	o, err := h.service.UpsertOverride(c.Request.Context(), availability.OverrideRequest{
		PropertyID:  body.PropertyID,
		UnitID:      body.UnitID,
		Date:        date,
		IsAvailable: body.IsAvailable,
		Note:        body.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOverrideResponse(o))
}

func (h *Handler) DeleteOverride(c *gin.Context) {
	var q DeleteOverrideQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	date, err := daterange.Parse(q.Date)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	if err := h.service.DeleteOverride(c.Request.Context(), q.Scope(), date); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
