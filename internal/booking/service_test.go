package booking

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/notify"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
	"github.com/ketensuites/keten-backend/internal/unit"
)

const (
	testPropertyID = "6f1c7a8e-0b1e-4a53-9a3d-3c0b8c2f6a10"
	otherProperty  = "0a6c2d4e-5f70-4b8a-9c1d-2e3f4a5b6c7d"
)

type fakeRepo struct {
	bookings   []*Booking
	createErrs []error
	calls      int
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	f.calls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	b.ID = "b-new"
	b.CreatedAt = time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByReference(_ context.Context, reference string) (*Booking, error) {
	for _, b := range f.bookings {
		if b.Reference == reference {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if filter.Status == "" || b.Status == filter.Status {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status) (*Booking, error) {
	b, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Status = status
	return b, nil
}

type fakeProperties struct {
	property.Service
}

func (fakeProperties) GetByID(_ context.Context, id string) (*property.Property, error) {
	switch id {
	case testPropertyID:
		return &property.Property{ID: id, Name: "Keten Suites"}, nil
	case otherProperty:
		return &property.Property{ID: id, Name: "Empty House"}, nil
	}
	return nil, property.ErrNotFound
}

type fakeUnits struct {
	unit.Service
}

var testUnits = []*unit.Unit{
	{ID: "u1", PropertyID: testPropertyID, Name: "Economy 1+1", BasePricePerMonth: decimal.NewFromInt(15000), DiscountPercentage: decimal.Zero},
	{ID: "u2", PropertyID: testPropertyID, Name: "Premium 1+1", BasePricePerMonth: decimal.NewFromInt(22000), DiscountPercentage: decimal.NewFromInt(10)},
}

func (fakeUnits) GetByID(_ context.Context, id string) (*unit.Unit, error) {
	for _, u := range testUnits {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, unit.ErrNotFound
}

func (fakeUnits) ListByProperty(_ context.Context, propertyID string) ([]*unit.Unit, error) {
	var out []*unit.Unit
	for _, u := range testUnits {
		if u.PropertyID == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	reservations []availability.Reservation
}

func (f *fakeCalendar) ListReservations(context.Context, []string) ([]availability.Reservation, error) {
	return f.reservations, nil
}

func (f *fakeCalendar) ListOverrides(context.Context, []string) ([]availability.Override, error) {
	return nil, nil
}

func (f *fakeCalendar) UpsertOverride(context.Context, *availability.Override) error { return nil }

func (f *fakeCalendar) DeleteOverride(context.Context, availability.Scope, daterange.Date) error {
	return nil
}

type fakeMailer struct {
	sent []notify.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func newTestService(repo Repository, cal *fakeCalendar, mailer notify.Mailer) Service {
	now := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	avail := availability.NewService(cal, nil, nil, availability.Options{
		Now: func() time.Time { return now },
	})
	return NewService(repo, fakeProperties{}, fakeUnits{}, avail, pricing.DefaultPolicy(), mailer, nil)
}

func march() daterange.Interval {
	return daterange.Interval{Start: daterange.MustParse("2024-03-01"), End: daterange.MustParse("2024-03-31")}
}

func validRequest() CreateRequest {
	return CreateRequest{
		PropertyID: testPropertyID,
		UnitID:     "u1",
		GuestName:  "Ayşe Yılmaz",
		GuestEmail: "ayse@example.com",
		Window:     march(),
	}
}

var referencePattern = regexp.MustCompile(`^KTN-20240215-[0-9A-F]{6}$`)

func TestNewReference(t *testing.T) {
	ref := NewReference(daterange.MustParse("2024-02-15"))
	assert.Regexp(t, referencePattern, ref)
	assert.NotEqual(t, ref, NewReference(daterange.MustParse("2024-02-15")))
}

func TestCreate(t *testing.T) {
	t.Run("Books a unit and emails the guest", func(t *testing.T) {
		repo := &fakeRepo{}
		mailer := &fakeMailer{}
		svc := newTestService(repo, &fakeCalendar{}, mailer)

		got, err := svc.Create(context.Background(), validRequest())
		require.NoError(t, err)

		b := got.Booking
		assert.Regexp(t, referencePattern, b.Reference)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, TypeRental, b.Type)
		assert.Equal(t, "Keten Suites", b.PropertyName)
		assert.Equal(t, "Economy 1+1", b.UnitName)
		assert.Equal(t, "18000", b.TotalPrice.String())
		assert.Equal(t, 30, got.Quote.Nights)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, []string{"ayse@example.com"}, mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].Subject, b.Reference)
	})

	t.Run("Whole property sums discounted unit rates", func(t *testing.T) {
		svc := newTestService(&fakeRepo{}, &fakeCalendar{}, nil)
		req := validRequest()
		req.UnitID = ""

		got, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		// 15000 + 22000*0.9 = 34800, plus 20% deposit
		assert.Equal(t, "41760", got.Booking.TotalPrice.String())
		assert.Empty(t, got.Booking.UnitName)
	})

	t.Run("Overlapping reservation is rejected", func(t *testing.T) {
		repo := &fakeRepo{}
		cal := &fakeCalendar{reservations: []availability.Reservation{{
			PropertyID: testPropertyID,
			UnitID:     "u1",
			Interval:   daterange.Interval{Start: daterange.MustParse("2024-03-20"), End: daterange.MustParse("2024-04-20")},
			Status:     availability.StatusPending,
		}}}
		svc := newTestService(repo, cal, nil)

		_, err := svc.Create(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrDatesUnavailable)
		assert.Zero(t, repo.calls)
	})

	t.Run("Checkout day of another stay is bookable", func(t *testing.T) {
		cal := &fakeCalendar{reservations: []availability.Reservation{{
			PropertyID: testPropertyID,
			UnitID:     "u1",
			Interval:   daterange.Interval{Start: daterange.MustParse("2024-02-20"), End: daterange.MustParse("2024-03-01")},
			Status:     availability.StatusConfirmed,
		}}}
		svc := newTestService(&fakeRepo{}, cal, nil)

		_, err := svc.Create(context.Background(), validRequest())
		assert.NoError(t, err)
	})

	t.Run("Start in the past", func(t *testing.T) {
		svc := newTestService(&fakeRepo{}, &fakeCalendar{}, nil)
		req := validRequest()
		req.Window = daterange.Interval{Start: daterange.MustParse("2024-02-14"), End: daterange.MustParse("2024-03-14")}

		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("Retries reference collisions", func(t *testing.T) {
		repo := &fakeRepo{createErrs: []error{errReferenceTaken, errReferenceTaken}}
		svc := newTestService(repo, &fakeCalendar{}, nil)

		_, err := svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Equal(t, 3, repo.calls)
	})

	t.Run("Gives up after repeated collisions", func(t *testing.T) {
		repo := &fakeRepo{createErrs: []error{errReferenceTaken, errReferenceTaken, errReferenceTaken}}
		svc := newTestService(repo, &fakeCalendar{}, nil)

		_, err := svc.Create(context.Background(), validRequest())
		assert.ErrorIs(t, err, errReferenceTaken)
		assert.Equal(t, referenceAttempts, repo.calls)
	})

	t.Run("Mail failure does not fail the booking", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := newTestService(repo, &fakeCalendar{}, &fakeMailer{err: errors.New("smtp down")})

		_, err := svc.Create(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Len(t, repo.bookings, 1)
	})
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"Short name", func(r *CreateRequest) { r.GuestName = " A " }, ErrInvalidGuestName},
		{"Bad email", func(r *CreateRequest) { r.GuestEmail = "not-an-email" }, ErrInvalidGuestEmail},
		{"Unknown type", func(r *CreateRequest) { r.Type = "sale" }, ErrInvalidType},
		{"Unknown property", func(r *CreateRequest) { r.PropertyID = "missing" }, ErrPropertyNotFound},
		{"Unknown unit", func(r *CreateRequest) { r.UnitID = "u9" }, ErrUnitNotFound},
		{"Unit of another property", func(r *CreateRequest) { r.PropertyID = otherProperty }, ErrUnitMismatch},
		{"Property without units", func(r *CreateRequest) { r.PropertyID, r.UnitID = otherProperty, "" }, ErrNothingToBook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo, &fakeCalendar{}, nil)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, repo.calls)
		})
	}

	t.Run("Zero-length window", func(t *testing.T) {
		svc := newTestService(&fakeRepo{}, &fakeCalendar{}, nil)
		req := validRequest()
		req.Window.End = req.Window.Start

		_, err := svc.Create(context.Background(), req)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
		var invalid *daterange.InvalidIntervalError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestGetByReference(t *testing.T) {
	repo := &fakeRepo{bookings: []*Booking{{ID: "b1", Reference: "KTN-20240215-ABC123", GuestEmail: "ayse@example.com"}}}
	svc := newTestService(repo, &fakeCalendar{}, nil)

	b, err := svc.GetByReference(context.Background(), "KTN-20240215-ABC123", " AYSE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "b1", b.ID)

	_, err = svc.GetByReference(context.Background(), "KTN-20240215-ABC123", "someone@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeRepo{bookings: []*Booking{{ID: "b1", PropertyID: testPropertyID, Status: StatusPending}}}
	svc := newTestService(repo, &fakeCalendar{}, nil)

	b, err := svc.UpdateStatus(context.Background(), "b1", StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	_, err = svc.UpdateStatus(context.Background(), "b1", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, _, err = svc.List(context.Background(), Filter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestExport(t *testing.T) {
	repo := &fakeRepo{bookings: []*Booking{{
		ID:           "b1",
		Reference:    "KTN-20240215-ABC123",
		PropertyName: "Keten Suites",
		UnitName:     "Economy 1+1",
		GuestName:    "Ayşe Yılmaz",
		GuestEmail:   "ayse@example.com",
		Interval:     march(),
		TotalPrice:   decimal.NewFromInt(18000),
		Status:       StatusConfirmed,
		CreatedAt:    time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC),
	}}}
	svc := newTestService(repo, &fakeCalendar{}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), Filter{Page: 3, PageSize: 1}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{
		"KTN-20240215-ABC123", "Keten Suites", "Economy 1+1", "Ayşe Yılmaz", "ayse@example.com", "",
		"2024-03-01", "2024-03-31", "30", "18000", "confirmed", "2024-02-15 09:30",
	}, rows[1])
}
