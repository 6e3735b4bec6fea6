package http

import (
	"time"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

type ScopeQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	UnitID     string `form:"unit_id" binding:"omitempty,uuid"`
}

func (q ScopeQuery) Scope() availability.Scope {
	return availability.Scope{PropertyID: q.PropertyID, UnitID: q.UnitID}
}

type CheckQuery struct {
	ScopeQuery
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type BlockedDatesResponse struct {
	PropertyID   string           `json:"property_id"`
	UnitID       string           `json:"unit_id,omitempty"`
	BlockedDates []daterange.Date `json:"blocked_dates"`
}

type CheckResponse struct {
	Available    bool             `json:"available"`
	StartDate    daterange.Date   `json:"start_date"`
	EndDate      daterange.Date   `json:"end_date"`
	BlockedDates []daterange.Date `json:"blocked_dates"`
	TotalDays    int              `json:"total_days"`
}

func NewCheckResponse(c *availability.Check) CheckResponse {
	blocked := c.BlockedDates
	if blocked == nil {
		blocked = []daterange.Date{}
	}
	return CheckResponse{
		Available:    c.Available,
		StartDate:    c.Interval.Start,
		EndDate:      c.Interval.End,
		BlockedDates: blocked,
		TotalDays:    c.TotalDays,
	}
}

type OverrideRequest struct {
	PropertyID  string `json:"property_id" binding:"required,uuid"`
	UnitID      string `json:"unit_id" binding:"omitempty,uuid"`
	Date        string `json:"date" binding:"required"`
	IsAvailable bool   `json:"is_available"`
	Note        string `json:"note" binding:"max=500"`
}

type DeleteOverrideQuery struct {
	ScopeQuery
	Date string `form:"date" binding:"required"`
}

type OverrideResponse struct {
	PropertyID  string         `json:"property_id"`
	UnitID      string         `json:"unit_id,omitempty"`
	Date        daterange.Date `json:"date"`
	IsAvailable bool           `json:"is_available"`
	Note        string         `json:"note,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func NewOverrideResponse(o *availability.Override) OverrideResponse {
	return OverrideResponse{
		PropertyID:  o.PropertyID,
		UnitID:      o.UnitID,
		Date:        o.Date,
		IsAvailable: o.IsAvailable,
		Note:        o.Note,
		UpdatedAt:   o.UpdatedAt,
	}
}
