package http

import (
	"time"

	"github.com/ketensuites/keten-backend/internal/booking"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pkg/request"
)

type CreateBookingRequest struct {
	PropertyID      string `json:"property_id" binding:"required,uuid"`
	UnitID          string `json:"unit_id" binding:"omitempty,uuid"`
	GuestName       string `json:"guest_name" binding:"required,min=2,max=200"`
	GuestEmail      string `json:"guest_email" binding:"required,email"`
	GuestPhone      string `json:"guest_phone" binding:"omitempty,max=50"`
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	BookingType     string `json:"booking_type" binding:"omitempty,oneof=rental"`
	SpecialRequests string `json:"special_requests" binding:"max=2000"`
}

func (r CreateBookingRequest) toService(window daterange.Interval) booking.CreateRequest {
	return booking.CreateRequest{
		PropertyID:      r.PropertyID,
		UnitID:          r.UnitID,
		GuestName:       r.GuestName,
		GuestEmail:      r.GuestEmail,
		GuestPhone:      r.GuestPhone,
		Window:          window,
		Type:            booking.Type(r.BookingType),
		SpecialRequests: r.SpecialRequests,
	}
}

type PropertyTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UnitTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID               string         `json:"id"`
	BookingReference string         `json:"booking_reference"`
	Property         PropertyTag    `json:"property"`
	Unit             *UnitTag       `json:"unit"`
	GuestName        string         `json:"guest_name"`
	GuestEmail       string         `json:"guest_email"`
	GuestPhone       string         `json:"guest_phone"`
	StartDate        daterange.Date `json:"start_date"`
	EndDate          daterange.Date `json:"end_date"`
	Nights           int            `json:"nights"`
	TotalPrice       string         `json:"total_price"`
	BookingType      string         `json:"booking_type"`
	Status           string         `json:"status"`
	SpecialRequests  string         `json:"special_requests"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:               b.ID,
		BookingReference: b.Reference,
		Property:         PropertyTag{ID: b.PropertyID, Name: b.PropertyName},
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		GuestPhone:       b.GuestPhone,
		StartDate:        b.Interval.Start,
		EndDate:          b.Interval.End,
		Nights:           b.Interval.Nights(),
		TotalPrice:       b.TotalPrice.StringFixed(2),
		BookingType:      string(b.Type),
		Status:           string(b.Status),
		SpecialRequests:  b.SpecialRequests,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if b.UnitID != "" {
		resp.Unit = &UnitTag{ID: b.UnitID, Name: b.UnitName}
	}
	return resp
}

// CreatedResponse is returned to the guest after a successful booking.
type CreatedResponse struct {
	BookingResponse
	Quote QuoteBreakdown `json:"quote"`
}

type QuoteBreakdown struct {
	Months     string `json:"months"`
	BaseRent   string `json:"base_rent"`
	Deposit    string `json:"deposit"`
	ServiceFee string `json:"service_fee"`
	Total      string `json:"total"`
}

func NewCreatedResponse(c *booking.Created) CreatedResponse {
	q := c.Quote
	return CreatedResponse{
		BookingResponse: NewBookingResponse(c.Booking),
		Quote: QuoteBreakdown{
			Months:     q.Months.StringFixed(2),
			BaseRent:   q.BaseRent.StringFixed(2),
			Deposit:    q.Deposit.StringFixed(2),
			ServiceFee: q.ServiceFee.StringFixed(2),
			Total:      q.Total.StringFixed(2),
		},
	}
}

type ReferenceURIRequest struct {
	Reference string `uri:"reference" binding:"required,max=40"`
}

type ReferenceQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// ListBookingsQuery defines query parameters for listing and exporting bookings.
type ListBookingsQuery struct {
	request.ListParams
	Status     string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	UnitID     string `form:"unit_id" binding:"omitempty,uuid"`
	From       string `form:"from"`
	To         string `form:"to"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=start_date end_date created_at status"`
}

// toFilter parses the optional date bounds.
func (q ListBookingsQuery) toFilter() (booking.Filter, error) {
	f := booking.Filter{
		Status:     booking.Status(q.Status),
		PropertyID: q.PropertyID,
		UnitID:     q.UnitID,
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
	if q.From != "" {
		d, err := daterange.Parse(q.From)
		if err != nil {
			return f, apperror.BadRequest(err)
		}
		f.From = &d
	}
	if q.To != "" {
		d, err := daterange.Parse(q.To)
		if err != nil {
			return f, apperror.BadRequest(err)
		}
		f.To = &d
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, booking.ErrInvalidDateFilter
	}
	return f, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}
