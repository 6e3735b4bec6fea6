package availability

import (
	"net/http"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

var (
	ErrPropertyRequired = apperror.New(http.StatusBadRequest, "property_id is required")
	ErrOverrideNotFound = apperror.New(http.StatusNotFound, "calendar override not found")
	ErrStartInPast      = apperror.New(http.StatusBadRequest, "start date is in the past")
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Blocks reports whether a reservation in this status holds its dates.
func (s ReservationStatus) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Scope selects what a calendar is computed for. An empty UnitID means
// the whole property.
type Scope struct {
	PropertyID string
	UnitID     string
}

// Reservation is the calendar-relevant part of a booking.
type Reservation struct {
	ID         string
	PropertyID string
	UnitID     string // empty when the whole property is booked
	Interval   daterange.Interval
	Status     ReservationStatus
}

// Override is a manual calendar entry for a single day.
type Override struct {
	PropertyID  string
	UnitID      string
	Date        daterange.Date
	IsAvailable bool
	Note        string
	UpdatedAt   time.Time
}

// Snapshot is the raw calendar data of one or more properties, fetched once
// and evaluated in memory.
type Snapshot struct {
	Reservations []Reservation
	Overrides    []Override
	Today        daterange.Date
}

// Check is the answer to an availability query over a window.
type Check struct {
	Scope        Scope
	Interval     daterange.Interval
	Available    bool
	BlockedDates []daterange.Date // blocked days inside the window
	TotalDays    int
}
