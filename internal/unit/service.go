package unit

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ketensuites/keten-backend/internal/availability"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
	"github.com/ketensuites/keten-backend/internal/pkg/slug"
	"github.com/ketensuites/keten-backend/internal/pricing"
	"github.com/ketensuites/keten-backend/internal/property"
)

type SearchRequest struct {
	Criteria Criteria
	Sort     SortKey
	// IncludeUnavailable keeps units that are booked over the window and
	// reports them with Available=false.
	IncludeUnavailable bool
}

// Listing is a search result. Available is nil when no window was given.
type Listing struct {
	Unit      *Unit
	Available *bool
}

// QuoteResult prices a stay in a unit.
type QuoteResult struct {
	Unit      *Unit
	Window    daterange.Interval
	Quote     pricing.Quote
	Available bool
}

type CreateRequest struct {
	PropertyID         string
	Name               string
	Slug               string // derived from Name when empty
	Type               Type
	Capacity           int
	BasePricePerMonth  decimal.Decimal
	DiscountPercentage decimal.Decimal
	Description        string
	ShortDescription   string
	Features           Features
	Images             []Image
	Amenities          []Amenity
	IsFeatured         bool
	DisplayOrder       int
}

type UpdateRequest struct {
	Name               *string
	Slug               *string
	Type               *Type
	Capacity           *int
	BasePricePerMonth  *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	Description        *string
	ShortDescription   *string
	Features           *Features
	Images             *[]Image
	Amenities          *[]Amenity
	IsFeatured         *bool
	DisplayOrder       *int
}

type Service interface {
	Search(ctx context.Context, req SearchRequest) ([]Listing, error)
	GetByID(ctx context.Context, id string) (*Unit, error)
	GetBySlug(ctx context.Context, slug string) (*Unit, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*Unit, error)
	// BlockedDates returns the unit and its blocked days.
	BlockedDates(ctx context.Context, slug string) (*Unit, []daterange.Date, error)
	Quote(ctx context.Context, slug string, window daterange.Interval) (*QuoteResult, error)
	Create(ctx context.Context, req CreateRequest) (*Unit, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Unit, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	properties   property.Service
	availability availability.Service
	pricing      pricing.Policy
}

func NewService(repo Repository, properties property.Service, availabilityService availability.Service, policy pricing.Policy) Service {
	return &service{
		repo:         repo,
		properties:   properties,
		availability: availabilityService,
		pricing:      policy,
	}
}

func scopeOf(u *Unit) availability.Scope {
	return availability.Scope{PropertyID: u.PropertyID, UnitID: u.ID}
}

func propertyIDs(units []*Unit) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, u := range units {
		if _, ok := seen[u.PropertyID]; ok {
			continue
		}
		seen[u.PropertyID] = struct{}{}
		ids = append(ids, u.PropertyID)
	}
	return ids
}

func (s *service) Search(ctx context.Context, req SearchRequest) ([]Listing, error) {
	key := req.Sort
	if key == "" {
		key = SortPriceAsc
	}
	if req.Criteria.Type != "" && !req.Criteria.Type.Valid() {
		return nil, ErrInvalidType
	}
	if w := req.Criteria.Window; w != nil {
		if err := w.Validate(); err != nil {
			return nil, apperror.BadRequest(err)
		}
	}

	units, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	criteria := req.Criteria
	var isAvailable AvailabilityFunc
	if criteria.Window != nil {
		snap, err := s.availability.Snapshot(ctx, propertyIDs(units))
		if err != nil {
			return nil, err
		}
		isAvailable = func(u *Unit, window daterange.Interval) bool {
			ok, err := snap.IsAvailable(scopeOf(u), window)
			return err == nil && ok
		}
		if req.IncludeUnavailable {
			criteria.Window = nil
		}
	}

	matched, err := FilterAndSort(units, criteria, key, isAvailable)
	if err != nil {
		return nil, apperror.BadRequest(err)
	}

	listings := make([]Listing, len(matched))
	for i, u := range matched {
		listings[i] = Listing{Unit: u}
		if req.Criteria.Window != nil {
			ok := isAvailable(u, *req.Criteria.Window)
			listings[i].Available = &ok
		}
	}
	return listings, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Unit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Unit, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) ListByProperty(ctx context.Context, propertyID string) ([]*Unit, error) {
	return s.repo.List(ctx, Filter{PropertyID: propertyID})
}

func (s *service) BlockedDates(ctx context.Context, slug string) (*Unit, []daterange.Date, error) {
	u, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	days, err := s.availability.BlockedDates(ctx, scopeOf(u))
	if err != nil {
		return nil, nil, err
	}
	return u, days, nil
}

func (s *service) Quote(ctx context.Context, slug string, window daterange.Interval) (*QuoteResult, error) {
	if err := window.Validate(); err != nil {
		return nil, apperror.BadRequest(err)
	}

	u, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	q, err := s.pricing.Quote(u.BasePricePerMonth, u.DiscountPercentage, window)
	if err != nil {
		return nil, apperror.BadRequest(err)
	}

	check, err := s.availability.Check(ctx, scopeOf(u), window)
	if err != nil {
		return nil, err
	}

	return &QuoteResult{Unit: u, Window: window, Quote: q, Available: check.Available}, nil
}

func validatePrice(price, discount decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}
	return nil
}

func normalizeSlug(explicit, name string) (string, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		s = slug.Make(name)
	}
	if !slug.Valid(s) {
		return "", ErrInvalidSlug
	}
	return s, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Unit, error) {
	// 1. Validate input
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidType
	}
	if req.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if err := validatePrice(req.BasePricePerMonth, req.DiscountPercentage); err != nil {
		return nil, err
	}
	sl, err := normalizeSlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	// 2. The property must exist
	if _, err := s.properties.GetByID(ctx, req.PropertyID); err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, err
	}

	u := &Unit{
		PropertyID:         req.PropertyID,
		Name:               strings.TrimSpace(req.Name),
		Slug:               sl,
		Type:               req.Type,
		Capacity:           req.Capacity,
		BasePricePerMonth:  req.BasePricePerMonth,
		DiscountPercentage: req.DiscountPercentage,
		Description:        req.Description,
		ShortDescription:   req.ShortDescription,
		Features:           req.Features,
		Images:             req.Images,
		Amenities:          req.Amenities,
		IsFeatured:         req.IsFeatured,
		DisplayOrder:       req.DisplayOrder,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	// Reload to pick up the property name and slug.
	return s.repo.GetByID(ctx, u.ID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Unit, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrEmptyName
		}
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		if u.Slug, err = normalizeSlug(*req.Slug, u.Name); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidType
		}
		u.Type = *req.Type
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, ErrInvalidCapacity
		}
		u.Capacity = *req.Capacity
	}
	if req.BasePricePerMonth != nil {
		u.BasePricePerMonth = *req.BasePricePerMonth
	}
	if req.DiscountPercentage != nil {
		u.DiscountPercentage = *req.DiscountPercentage
	}
	if err := validatePrice(u.BasePricePerMonth, u.DiscountPercentage); err != nil {
		return nil, err
	}
	if req.Description != nil {
		u.Description = *req.Description
	}
	if req.ShortDescription != nil {
		u.ShortDescription = *req.ShortDescription
	}
	if req.Features != nil {
		u.Features = *req.Features
	}
	if req.Images != nil {
		u.Images = *req.Images
	}
	if req.Amenities != nil {
		u.Amenities = *req.Amenities
	}
	if req.IsFeatured != nil {
		u.IsFeatured = *req.IsFeatured
	}
	if req.DisplayOrder != nil {
		u.DisplayOrder = *req.DisplayOrder
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.availability.Invalidate(ctx, u.PropertyID)
	return nil
}
