package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/notify"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
	"github.com/ketensuites/keten-backend/internal/unit"
)

const referenceAttempts = 3

type CreateRequest struct {
	PropertyID      string
	UnitID          string // empty books the whole property
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Window          daterange.Interval
	Type            Type
	SpecialRequests string
}

// Created is a new booking with the quote it was priced from.
type Created struct {
	Booking *Booking
	Quote   pricing.Quote
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Created, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// GetByReference returns the booking only when email matches the guest's.
	GetByReference(ctx context.Context, reference, email string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error)
	// Export writes the matching bookings as an XLSX workbook.
	Export(ctx context.Context, filter Filter, w io.Writer) error
}

type service struct {
	repo         Repository
	properties   property.Service
	units        unit.Service
	availability availability.Service
	pricing      pricing.Policy
	mailer       notify.Mailer
	logger       *zap.Logger
}

func NewService(
	repo Repository,
	properties property.Service,
	units unit.Service,
	availabilityService availability.Service,
	policy pricing.Policy,
	mailer notify.Mailer,
	logger *zap.Logger,
) Service {
	if mailer == nil {
		mailer = notify.NopMailer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:         repo,
		properties:   properties,
		units:        units,
		availability: availabilityService,
		pricing:      policy,
		mailer:       mailer,
		logger:       logger,
	}
}

// NewReference returns KTN-<yyyymmdd>-<6 uppercase characters>.
func NewReference(day daterange.Date) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("KTN-%04d%02d%02d-%s", day.Year, int(day.Month), day.Day, suffix)
}

func validate(req *CreateRequest) error {
	req.GuestName = strings.TrimSpace(req.GuestName)
	if len([]rune(req.GuestName)) < 2 {
		return ErrInvalidGuestName
	}
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	if _, err := mail.ParseAddress(req.GuestEmail); err != nil {
		return ErrInvalidGuestEmail
	}
	if req.Type == "" {
		req.Type = TypeRental
	}
	if req.Type != TypeRental {
		return ErrInvalidType
	}
	if err := req.Window.Validate(); err != nil {
		return apperror.BadRequest(err)
	}
	return nil
}

// quote prices the stay. A whole-property booking is priced from the sum of
// its units' discounted monthly rates.
func (s *service) quote(ctx context.Context, req CreateRequest) (pricing.Quote, *unit.Unit, error) {
	if req.UnitID != "" {
		u, err := s.units.GetByID(ctx, req.UnitID)
		if err != nil {
			if errors.Is(err, unit.ErrNotFound) {
				return pricing.Quote{}, nil, ErrUnitNotFound
			}
			return pricing.Quote{}, nil, err
		}
		if u.PropertyID != req.PropertyID {
			return pricing.Quote{}, nil, ErrUnitMismatch
		}
		q, err := s.pricing.Quote(u.BasePricePerMonth, u.DiscountPercentage, req.Window)
		return q, u, err
	}

	units, err := s.units.ListByProperty(ctx, req.PropertyID)
	if err != nil {
		return pricing.Quote{}, nil, err
	}
	if len(units) == 0 {
		return pricing.Quote{}, nil, ErrNothingToBook
	}
	hundred := decimal.NewFromInt(100)
	monthly := decimal.Zero
	for _, u := range units {
		monthly = monthly.Add(u.BasePricePerMonth.Mul(hundred.Sub(u.DiscountPercentage)).Div(hundred))
	}
	q, err := s.pricing.Quote(monthly, decimal.Zero, req.Window)
	return q, nil, err
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Created, error) {
	// 1. Validate input
	if err := validate(&req); err != nil {
		return nil, err
	}

	// 2. Reject stays starting before today
	today := s.availability.Today()
	if req.Window.Start.Before(today) {
		return nil, ErrStartInPast
	}

	// 3. Resolve the property and price the stay
	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	q, u, err := s.quote(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Re-validate availability against fresh data
	scope := availability.Scope{PropertyID: req.PropertyID, UnitID: req.UnitID}
	check, err := s.availability.Check(ctx, scope, req.Window)
	if err != nil {
		return nil, err
	}
	if !check.Available {
		return nil, ErrDatesUnavailable
	}

	// 5. Insert; the repository re-checks overlaps under a lock
	b := &Booking{
		PropertyID:      req.PropertyID,
		PropertyName:    p.Name,
		UnitID:          req.UnitID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      strings.TrimSpace(req.GuestPhone),
		Interval:        req.Window,
		TotalPrice:      q.Round(2).Total,
		Type:            req.Type,
		Status:          StatusPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if u != nil {
		b.UnitName = u.Name
	}
	for attempt := 1; ; attempt++ {
		b.Reference = NewReference(today)
		err = s.repo.Create(ctx, b)
		if !errors.Is(err, errReferenceTaken) || attempt == referenceAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, b.PropertyID)
	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("reference", b.Reference),
		zap.String("property_id", b.PropertyID),
		zap.String("unit_id", b.UnitID),
		zap.Stringer("interval", b.Interval),
	)

	// 6. Confirmation email is best-effort
	s.sendConfirmation(ctx, b, q)

	return &Created{Booking: b, Quote: q}, nil
}

func (s *service) sendConfirmation(ctx context.Context, b *Booking, q pricing.Quote) {
	msg, err := notify.NewBookingConfirmation(b.GuestEmail, notify.BookingConfirmation{
		Reference:    b.Reference,
		GuestName:    b.GuestName,
		PropertyName: b.PropertyName,
		UnitName:     b.UnitName,
		CheckIn:      b.Interval.Start.String(),
		CheckOut:     b.Interval.End.String(),
		Nights:       q.Nights,
		Total:        b.TotalPrice.StringFixed(2),
	})
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.logger.Warn("booking confirmation email not sent",
			zap.String("reference", b.Reference),
			zap.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByReference(ctx context.Context, reference, email string) (*Booking, error) {
	b, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	// A wrong email is reported as an unknown reference.
	if !strings.EqualFold(strings.TrimSpace(email), b.GuestEmail) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.availability.Invalidate(ctx, b.PropertyID)
	s.logger.Info("booking status changed",
		zap.String("booking_id", b.ID),
		zap.String("status", string(status)),
	)
	return b, nil
}
