package booking

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrDatesUnavailable  = apperror.New(http.StatusConflict, "the selected dates are not available")
	ErrStartInPast       = apperror.New(http.StatusBadRequest, "start date cannot be in the past")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "status must be one of pending, confirmed, cancelled")
	ErrInvalidGuestName  = apperror.New(http.StatusBadRequest, "guest name must be at least 2 characters")
	ErrInvalidGuestEmail = apperror.New(http.StatusBadRequest, "guest email is required")
	ErrInvalidType       = apperror.New(http.StatusBadRequest, "booking_type must be rental")
	ErrPropertyNotFound  = apperror.New(http.StatusNotFound, "property not found")
	ErrUnitNotFound      = apperror.New(http.StatusNotFound, "unit not found")
	ErrUnitMismatch      = apperror.New(http.StatusBadRequest, "unit does not belong to the property")
	ErrNothingToBook     = apperror.New(http.StatusBadRequest, "property has no units to book")
	ErrInvalidDateFilter = apperror.New(http.StatusBadRequest, "from must be before to")
	errReferenceTaken    = apperror.New(http.StatusConflict, "booking reference collision")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Blocks reports whether a booking in this status holds its nights.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Type string

// TypeRental is the only booking type offered.
const TypeRental Type = "rental"

// Booking is a guest reservation of a unit, or of a whole property when
// UnitID is empty.
type Booking struct {
	ID              string
	Reference       string
	PropertyID      string
	PropertyName    string
	UnitID          string
	UnitName        string
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Interval        daterange.Interval
	TotalPrice      decimal.Decimal
	Type            Type
	Status          Status
	SpecialRequests string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter selects bookings for the back office. From and To select
// bookings overlapping [From, To).
type Filter struct {
	Status     Status
	PropertyID string
	UnitID     string
	From       *daterange.Date
	To         *daterange.Date
	Page       int
	PageSize   int // zero returns every match
	SortBy     string
	SortOrder  string
}
