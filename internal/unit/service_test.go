package unit

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
)

const testPropertyID = "6f1c7a8e-0b1e-4a53-9a3d-3c0b8c2f6a10"

type fakeRepo struct {
	units   []*Unit
	created *Unit
}

func (f *fakeRepo) Create(_ context.Context, u *Unit) error {
	u.ID = "new-unit"
	f.created = u
	f.units = append(f.units, u)
	return nil
}

func (f *fakeRepo) find(match func(*Unit) bool) (*Unit, error) {
	for _, u := range f.units {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Unit, error) {
	return f.find(func(u *Unit) bool { return u.ID == id })
}

func (f *fakeRepo) GetBySlug(_ context.Context, slug string) (*Unit, error) {
	return f.find(func(u *Unit) bool { return u.Slug == slug })
}

func (f *fakeRepo) List(_ context.Context, filter Filter) ([]*Unit, error) {
	var out []*Unit
	for _, u := range f.units {
		if filter.PropertyID == "" || u.PropertyID == filter.PropertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, u *Unit) error {
	for i, existing := range f.units {
		if existing.ID == u.ID {
			f.units[i] = u
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	for i, u := range f.units {
		if u.ID == id {
			f.units = append(f.units[:i], f.units[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// fakeProperties only answers GetByID.
type fakeProperties struct {
	property.Service
}

func (fakeProperties) GetByID(_ context.Context, id string) (*property.Property, error) {
	if id != testPropertyID {
		return nil, property.ErrNotFound
	}
	return &property.Property{ID: id, Name: "Keten Suites", Slug: "keten-suites"}, nil
}

type fakeCalendar struct {
	reservations []availability.Reservation
	overrides    []availability.Override
}

func (f *fakeCalendar) ListReservations(context.Context, []string) ([]availability.Reservation, error) {
	return f.reservations, nil
}

func (f *fakeCalendar) ListOverrides(context.Context, []string) ([]availability.Override, error) {
	return f.overrides, nil
}

func (f *fakeCalendar) UpsertOverride(context.Context, *availability.Override) error { return nil }

func (f *fakeCalendar) DeleteOverride(context.Context, availability.Scope, daterange.Date) error {
	return nil
}

func seedUnits() []*Unit {
	mk := func(id, slug string, typ Type, capacity int, price int64) *Unit {
		return &Unit{
			ID:                 id,
			PropertyID:         testPropertyID,
			Name:               slug,
			Slug:               slug,
			Type:               typ,
			Capacity:           capacity,
			BasePricePerMonth:  decimal.NewFromInt(price),
			DiscountPercentage: decimal.Zero,
		}
	}
	return []*Unit{
		mk("u1", "economy-1-plus-1", TypeEconomy1Plus1, 2, 15000),
		mk("u2", "premium-1-plus-1", TypePremium1Plus1, 2, 22000),
		mk("u3", "economy-2-plus-1", TypeEconomy2Plus1, 4, 28000),
		mk("u4", "duplex-2-plus-1", TypeFamilyDuplex2Plus1, 5, 42000),
		mk("u5", "duplex-3-plus-1", TypeFamilyDuplex3Plus1, 6, 55000),
	}
}

func newTestService(repo Repository, cal *fakeCalendar) Service {
	now := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	avail := availability.NewService(cal, nil, nil, availability.Options{
		Now: func() time.Time { return now },
	})
	return NewService(repo, fakeProperties{}, avail, pricing.DefaultPolicy())
}

func listingIDs(ls []Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Unit.ID
	}
	return out
}

func TestSearch(t *testing.T) {
	cal := &fakeCalendar{
		reservations: []availability.Reservation{{
			PropertyID: testPropertyID,
			UnitID:     "u3",
			Interval:   daterange.Interval{Start: daterange.MustParse("2024-03-10"), End: daterange.MustParse("2024-04-10")},
			Status:     availability.StatusConfirmed,
		}},
		overrides: []availability.Override{{
			PropertyID: testPropertyID,
			UnitID:     "u5",
			Date:       daterange.MustParse("2024-03-15"),
		}},
	}
	svc := newTestService(&fakeRepo{units: seedUnits()}, cal)
	march := window("2024-03-01", "2024-04-01")

	t.Run("Default sort is price ascending", func(t *testing.T) {
		got, err := svc.Search(context.Background(), SearchRequest{})
		require.NoError(t, err)
		assert.Equal(t, []string{"u1", "u2", "u3", "u4", "u5"}, listingIDs(got))
		assert.Nil(t, got[0].Available)
	})

	t.Run("Window excludes booked and blocked units", func(t *testing.T) {
		got, err := svc.Search(context.Background(), SearchRequest{
			Criteria: Criteria{Window: march},
			Sort:     SortCapacityDesc,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"u4", "u1", "u2"}, listingIDs(got))
		for _, l := range got {
			require.NotNil(t, l.Available)
			assert.True(t, *l.Available)
		}
	})

	t.Run("Include unavailable annotates instead of dropping", func(t *testing.T) {
		got, err := svc.Search(context.Background(), SearchRequest{
			Criteria:           Criteria{MinCapacity: 4, Window: march},
			IncludeUnavailable: true,
		})
		require.NoError(t, err)
		require.Equal(t, []string{"u3", "u4", "u5"}, listingIDs(got))
		assert.False(t, *got[0].Available)
		assert.True(t, *got[1].Available)
		assert.False(t, *got[2].Available)
	})

	t.Run("Window in the past matches nothing", func(t *testing.T) {
		got, err := svc.Search(context.Background(), SearchRequest{
			Criteria: Criteria{Window: window("2024-01-01", "2024-02-01")},
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := svc.Search(context.Background(), SearchRequest{Criteria: Criteria{Type: "studio"}})
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("Inverted window is a bad request", func(t *testing.T) {
		_, err := svc.Search(context.Background(), SearchRequest{
			Criteria: Criteria{Window: window("2024-03-10", "2024-03-01")},
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)

		var target *daterange.InvalidIntervalError
		assert.ErrorAs(t, err, &target)
	})
}

func TestQuote(t *testing.T) {
	svc := newTestService(&fakeRepo{units: seedUnits()}, &fakeCalendar{})

	got, err := svc.Quote(context.Background(), "economy-1-plus-1", *window("2024-03-01", "2024-03-31"))
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, 30, got.Quote.Nights)
	assert.True(t, got.Quote.BaseRent.Equal(decimal.NewFromInt(15000)))
	assert.True(t, got.Quote.Deposit.Equal(decimal.NewFromInt(3000)))
	assert.True(t, got.Quote.Total.Equal(decimal.NewFromInt(18000)))

	_, err = svc.Quote(context.Background(), "missing", *window("2024-03-01", "2024-03-31"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlockedDates(t *testing.T) {
	cal := &fakeCalendar{
		reservations: []availability.Reservation{{
			PropertyID: testPropertyID,
			UnitID:     "u2",
			Interval:   daterange.Interval{Start: daterange.MustParse("2024-03-01"), End: daterange.MustParse("2024-03-03")},
			Status:     availability.StatusPending,
		}},
	}
	svc := newTestService(&fakeRepo{units: seedUnits()}, cal)

	u, days, err := svc.BlockedDates(context.Background(), "premium-1-plus-1")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
	assert.Equal(t, []daterange.Date{daterange.MustParse("2024-03-01"), daterange.MustParse("2024-03-02")}, days)

	_, days, err = svc.BlockedDates(context.Background(), "economy-1-plus-1")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestCreate(t *testing.T) {
	valid := func() CreateRequest {
		return CreateRequest{
			PropertyID:        testPropertyID,
			Name:              "1+1 Premium",
			Type:              TypePremium1Plus1,
			Capacity:          2,
			BasePricePerMonth: decimal.NewFromInt(22000),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{name: "Valid", mutate: func(*CreateRequest) {}},
		{name: "Empty name", mutate: func(r *CreateRequest) { r.Name = "  " }, wantErr: ErrEmptyName},
		{name: "Unknown type", mutate: func(r *CreateRequest) { r.Type = "loft" }, wantErr: ErrInvalidType},
		{name: "Zero capacity", mutate: func(r *CreateRequest) { r.Capacity = 0 }, wantErr: ErrInvalidCapacity},
		{name: "Zero price", mutate: func(r *CreateRequest) { r.BasePricePerMonth = decimal.Zero }, wantErr: ErrInvalidPrice},
		{name: "Discount above 100", mutate: func(r *CreateRequest) { r.DiscountPercentage = decimal.NewFromInt(101) }, wantErr: ErrInvalidDiscount},
		{name: "Bad slug", mutate: func(r *CreateRequest) { r.Slug = "Not A Slug" }, wantErr: ErrInvalidSlug},
		{name: "Unknown property", mutate: func(r *CreateRequest) { r.PropertyID = "other" }, wantErr: ErrInvalidProperty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo, &fakeCalendar{})

			req := valid()
			tt.mutate(&req)
			u, err := svc.Create(context.Background(), req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, repo.created)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "1-plus-1-premium", u.Slug)
			assert.Equal(t, "new-unit", u.ID)
		})
	}
}

func TestUpdate(t *testing.T) {
	repo := &fakeRepo{units: seedUnits()}
	svc := newTestService(repo, &fakeCalendar{})

	price := decimal.NewFromInt(16000)
	featured := true
	u, err := svc.Update(context.Background(), "u1", UpdateRequest{BasePricePerMonth: &price, IsFeatured: &featured})
	require.NoError(t, err)
	assert.True(t, u.BasePricePerMonth.Equal(price))
	assert.True(t, u.IsFeatured)

	bad := decimal.NewFromInt(-5)
	_, err = svc.Update(context.Background(), "u1", UpdateRequest{DiscountPercentage: &bad})
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = svc.Update(context.Background(), "missing", UpdateRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
