package availability

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/cache"
	"github.com/ketensuites/keten-backend/internal/pkg/apperror"
	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

// OverrideRequest carries a manual calendar change.
type OverrideRequest struct {
	PropertyID  string
	UnitID      string
	Date        daterange.Date
	IsAvailable bool
	Note        string
}

type Service interface {
	// BlockedDates returns the sorted blocked days of a scope. Results are cached.
	BlockedDates(ctx context.Context, scope Scope) ([]daterange.Date, error)
	// Check answers whether a window is bookable, reading fresh data.
	Check(ctx context.Context, scope Scope, window daterange.Interval) (*Check, error)
	// Snapshot loads the raw calendar data of the given properties.
	Snapshot(ctx context.Context, propertyIDs []string) (*Snapshot, error)
	// Calendar returns the blocked days merged into ranges.
	Calendar(ctx context.Context, scope Scope) ([]daterange.Interval, error)
	UpsertOverride(ctx context.Context, req OverrideRequest) (*Override, error)
	DeleteOverride(ctx context.Context, scope Scope, date daterange.Date) error
	// Invalidate drops cached calendars of a property.
	Invalidate(ctx context.Context, propertyID string)
	Today() daterange.Date
}

// Options tunes the service.
type Options struct {
	CacheTTL time.Duration
	Location *time.Location
	Now      func() time.Time
}

type service struct {
	repo   Repository
	cache  cache.Store
	logger *zap.Logger
	opts   Options
}

func NewService(repo Repository, store cache.Store, logger *zap.Logger, opts Options) Service {
	if store == nil {
		store = cache.NopStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{repo: repo, cache: store, logger: logger, opts: opts}
}

// Cached sets live under a per-property generation. Invalidate moves the
// generation on, so a load that started before it writes to a key no reader
// uses any more.
func cacheKey(propertyID, generation string) string {
	if generation == "" {
		return "availability:blocked:" + propertyID
	}
	return "availability:blocked:" + propertyID + ":" + generation
}

func generationKey(propertyID string) string {
	return "availability:generation:" + propertyID
}

const generationField = "v"

// generation returns the current generation, "" when none was recorded yet.
func (s *service) generation(ctx context.Context, propertyID string) (string, error) {
	gen, err := s.cache.Get(ctx, generationKey(propertyID), generationField)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	return gen, err
}

func cacheField(scope Scope) string {
	if scope.UnitID == "" {
		return "*"
	}
	return scope.UnitID
}

func (s *service) Today() daterange.Date {
	return daterange.Today(s.opts.Now(), s.opts.Location)
}

func (s *service) Snapshot(ctx context.Context, propertyIDs []string) (*Snapshot, error) {
	reservations, err := s.repo.ListReservations(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}
	overrides, err := s.repo.ListOverrides(ctx, propertyIDs)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Reservations: reservations,
		Overrides:    overrides,
		Today:        s.Today(),
	}, nil
}

func (s *service) blocked(ctx context.Context, scope Scope) (DateSet, error) {
	if scope.PropertyID == "" {
		return nil, ErrPropertyRequired
	}

	gen, err := s.generation(ctx, scope.PropertyID)
	if err != nil {
		s.logger.Warn("availability cache generation read failed", zap.String("property_id", scope.PropertyID), zap.Error(err))
		snap, err := s.Snapshot(ctx, []string{scope.PropertyID})
		if err != nil {
			return nil, err
		}
		return BlockedDates(scope, snap.Reservations, snap.Overrides), nil
	}

	key, field := cacheKey(scope.PropertyID, gen), cacheField(scope)
	if raw, err := s.cache.Get(ctx, key, field); err == nil {
		var days []daterange.Date
		if err := json.Unmarshal([]byte(raw), &days); err == nil {
			set := make(DateSet, len(days))
			for _, d := range days {
				set[d] = struct{}{}
			}
			return set, nil
		}
		s.logger.Warn("discarding unreadable availability cache entry", zap.String("key", key), zap.String("field", field))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
	}

	snap, err := s.Snapshot(ctx, []string{scope.PropertyID})
	if err != nil {
		return nil, err
	}
	set := BlockedDates(scope, snap.Reservations, snap.Overrides)

	if raw, err := json.Marshal(set.Sorted()); err == nil {
		if err := s.cache.Set(ctx, key, field, string(raw), s.opts.CacheTTL); err != nil {
			s.logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return set, nil
}

func (s *service) BlockedDates(ctx context.Context, scope Scope) ([]daterange.Date, error) {
	set, err := s.blocked(ctx, scope)
	if err != nil {
		return nil, err
	}
	return set.Sorted(), nil
}

func (s *service) Calendar(ctx context.Context, scope Scope) ([]daterange.Interval, error) {
	set, err := s.blocked(ctx, scope)
	if err != nil {
		return nil, err
	}
	return Ranges(set), nil
}

func (s *service) Check(ctx context.Context, scope Scope, window daterange.Interval) (*Check, error) {
	if scope.PropertyID == "" {
		return nil, ErrPropertyRequired
	}
	if err := window.Validate(); err != nil {
		return nil, apperror.BadRequest(err)
	}

	snap, err := s.Snapshot(ctx, []string{scope.PropertyID})
	if err != nil {
		return nil, err
	}

	available, err := snap.IsAvailable(scope, window)
	if err != nil {
		return nil, apperror.BadRequest(err)
	}

	return &Check{
		Scope:        scope,
		Interval:     window,
		Available:    available,
		BlockedDates: BlockedDates(scope, snap.Reservations, snap.Overrides).Within(window),
		TotalDays:    window.Nights(),
	}, nil
}

func (s *service) UpsertOverride(ctx context.Context, req OverrideRequest) (*Override, error) {
	if req.PropertyID == "" {
		return nil, ErrPropertyRequired
	}
	if req.Date.IsZero() {
		return nil, apperror.New(400, "date is required")
	}

	o := &Override{
		PropertyID:  req.PropertyID,
		UnitID:      req.UnitID,
		Date:        req.Date,
		IsAvailable: req.IsAvailable,
		Note:        req.Note,
	}
	if err := s.repo.UpsertOverride(ctx, o); err != nil {
		return nil, err
	}

	s.Invalidate(ctx, req.PropertyID)
	s.logger.Info("calendar override saved",
		zap.String("property_id", o.PropertyID),
		zap.String("unit_id", o.UnitID),
		zap.Stringer("date", o.Date),
		zap.Bool("is_available", o.IsAvailable),
	)
	return o, nil
}

func (s *service) DeleteOverride(ctx context.Context, scope Scope, date daterange.Date) error {
	if scope.PropertyID == "" {
		return ErrPropertyRequired
	}
	if err := s.repo.DeleteOverride(ctx, scope, date); err != nil {
		return err
	}
	s.Invalidate(ctx, scope.PropertyID)
	return nil
}

func (s *service) Invalidate(ctx context.Context, propertyID string) {
	old, err := s.generation(ctx, propertyID)
	if err != nil {
		s.logger.Warn("availability cache generation read failed", zap.String("property_id", propertyID), zap.Error(err))
	}

	// The generation key has no TTL; it must outlive every data key.
	if err := s.cache.Set(ctx, generationKey(propertyID), generationField, uuid.NewString(), 0); err != nil {
		s.logger.Warn("availability cache generation bump failed", zap.String("property_id", propertyID), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, cacheKey(propertyID, old)); err != nil {
		s.logger.Warn("availability cache invalidation failed", zap.String("property_id", propertyID), zap.Error(err))
	}
}
