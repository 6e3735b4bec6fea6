package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/unit"
)

type UnitResponse struct {
	ID                 string          `json:"id"`
	PropertyID         string          `json:"property_id"`
	PropertyName       string          `json:"property_name"`
	PropertySlug       string          `json:"property_slug"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	UnitType           unit.Type       `json:"unit_type"`
	Capacity           int             `json:"capacity"`
	BasePricePerMonth  decimal.Decimal `json:"base_price_per_month"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"short_description"`
	Features           unit.Features   `json:"features"`
	Images             []unit.Image    `json:"images"`
	Amenities          []unit.Amenity  `json:"amenities"`
	IsFeatured         bool            `json:"is_featured"`
	DisplayOrder       int             `json:"display_order"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func NewUnitResponse(u *unit.Unit) UnitResponse {
	images, amenities := u.Images, u.Amenities
	if images == nil {
		images = []unit.Image{}
	}
	if amenities == nil {
		amenities = []unit.Amenity{}
	}
	return UnitResponse{
		ID:                 u.ID,
		PropertyID:         u.PropertyID,
		PropertyName:       u.PropertyName,
		PropertySlug:       u.PropertySlug,
		Name:               u.Name,
		Slug:               u.Slug,
		UnitType:           u.Type,
		Capacity:           u.Capacity,
		BasePricePerMonth:  u.BasePricePerMonth,
		DiscountPercentage: u.DiscountPercentage,
		Description:        u.Description,
		ShortDescription:   u.ShortDescription,
		Features:           u.Features,
		Images:             images,
		Amenities:          amenities,
		IsFeatured:         u.IsFeatured,
		DisplayOrder:       u.DisplayOrder,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

// ListingResponse is a search hit. Available is omitted without a date window.
type ListingResponse struct {
	UnitResponse
	Available *bool `json:"available,omitempty"`
}

type SearchQuery struct {
	Type               string `form:"type" binding:"omitempty,max=50"`
	MinCapacity        int    `form:"min_capacity" binding:"omitempty,min=1"`
	StartDate          string `form:"start_date"`
	EndDate            string `form:"end_date"`
	Sort               string `form:"sort" binding:"omitempty,oneof=price_asc price_desc capacity_asc capacity_desc"`
	IncludeUnavailable bool   `form:"include_unavailable"`
}

type WindowQuery struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type BlockedDatesResponse struct {
	UnitID       string           `json:"unit_id"`
	PropertyID   string           `json:"property_id"`
	BlockedDates []daterange.Date `json:"blocked_dates"`
}

// QuoteResponse presents amounts rounded to two places.
type QuoteResponse struct {
	UnitID     string         `json:"unit_id"`
	StartDate  daterange.Date `json:"start_date"`
	EndDate    daterange.Date `json:"end_date"`
	Available  bool           `json:"available"`
	Nights     int            `json:"nights"`
	Months     string         `json:"months"`
	BaseRent   string         `json:"base_rent"`
	Deposit    string         `json:"deposit"`
	ServiceFee string         `json:"service_fee"`
	Total      string         `json:"total"`
}

func NewQuoteResponse(r *unit.QuoteResult) QuoteResponse {
	q := r.Quote
	return QuoteResponse{
		UnitID:     r.Unit.ID,
		StartDate:  r.Window.Start,
		EndDate:    r.Window.End,
		Available:  r.Available,
		Nights:     q.Nights,
		Months:     q.Months.StringFixed(2),
		BaseRent:   q.BaseRent.StringFixed(2),
		Deposit:    q.Deposit.StringFixed(2),
		ServiceFee: q.ServiceFee.StringFixed(2),
		Total:      q.Total.StringFixed(2),
	}
}

type CreateUnitRequest struct {
	PropertyID         string          `json:"property_id" binding:"required,uuid"`
	Name               string          `json:"name" binding:"required,max=200"`
	Slug               string          `json:"slug" binding:"omitempty,max=200"`
	UnitType           string          `json:"unit_type" binding:"required"`
	Capacity           int             `json:"capacity" binding:"required,min=1"`
	BasePricePerMonth  decimal.Decimal `json:"base_price_per_month"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Description        string          `json:"description"`
	ShortDescription   string          `json:"short_description" binding:"max=500"`
	Features           unit.Features   `json:"features"`
	Images             []unit.Image    `json:"images"`
	Amenities          []unit.Amenity  `json:"amenities"`
	IsFeatured         bool            `json:"is_featured"`
	DisplayOrder       int             `json:"display_order"`
}

func (r CreateUnitRequest) toService() unit.CreateRequest {
	return unit.CreateRequest{
		PropertyID:         r.PropertyID,
		Name:               r.Name,
		Slug:               r.Slug,
		Type:               unit.Type(r.UnitType),
		Capacity:           r.Capacity,
		BasePricePerMonth:  r.BasePricePerMonth,
		DiscountPercentage: r.DiscountPercentage,
		Description:        r.Description,
		ShortDescription:   r.ShortDescription,
		Features:           r.Features,
		Images:             r.Images,
		Amenities:          r.Amenities,
		IsFeatured:         r.IsFeatured,
		DisplayOrder:       r.DisplayOrder,
	}
}

type UpdateUnitRequest struct {
	Name               *string          `json:"name" binding:"omitempty,max=200"`
	Slug               *string          `json:"slug" binding:"omitempty,max=200"`
	UnitType           *string          `json:"unit_type"`
	Capacity           *int             `json:"capacity" binding:"omitempty,min=1"`
	BasePricePerMonth  *decimal.Decimal `json:"base_price_per_month"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	Description        *string          `json:"description"`
	ShortDescription   *string          `json:"short_description" binding:"omitempty,max=500"`
	Features           *unit.Features   `json:"features"`
	Images             *[]unit.Image    `json:"images"`
	Amenities          *[]unit.Amenity  `json:"amenities"`
	IsFeatured         *bool            `json:"is_featured"`
	DisplayOrder       *int             `json:"display_order"`
}

func (r UpdateUnitRequest) toService() unit.UpdateRequest {
	req := unit.UpdateRequest{
		Name:               r.Name,
		Slug:               r.Slug,
		Capacity:           r.Capacity,
		BasePricePerMonth:  r.BasePricePerMonth,
		DiscountPercentage: r.DiscountPercentage,
		Description:        r.Description,
		ShortDescription:   r.ShortDescription,
		Features:           r.Features,
		Images:             r.Images,
		Amenities:          r.Amenities,
		IsFeatured:         r.IsFeatured,
		DisplayOrder:       r.DisplayOrder,
	}
	if r.UnitType != nil {
		t := unit.Type(*r.UnitType)
		req.Type = &t
	}
	return req
}
