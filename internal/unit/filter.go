package unit

import (
	"sort"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

type SortKey string

const (
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortCapacityAsc  SortKey = "capacity_asc"
	SortCapacityDesc SortKey = "capacity_desc"
)

// ParseSortKey defaults to price_asc when s is empty.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortPriceAsc, nil
	case SortPriceAsc, SortPriceDesc, SortCapacityAsc, SortCapacityDesc:
		return k, nil
	}
	return "", ErrInvalidSortKey
}

// Criteria are combined with AND. Zero values impose no constraint.
type Criteria struct {
	Type        Type
	MinCapacity int
	Window      *daterange.Interval
}

// AvailabilityFunc reports whether u is free over window.
type AvailabilityFunc func(u *Unit, window daterange.Interval) bool

func (c Criteria) matches(u *Unit, isAvailable AvailabilityFunc) bool {
	if c.Type != "" && u.Type != c.Type {
		return false
	}
	if c.MinCapacity > 0 && u.Capacity < c.MinCapacity {
		return false
	}
	if c.Window != nil && !isAvailable(u, *c.Window) {
		return false
	}
	return true
}

func less(key SortKey) func(a, b *Unit) bool {
	switch key {
	case SortPriceDesc:
		return func(a, b *Unit) bool { return a.BasePricePerMonth.GreaterThan(b.BasePricePerMonth) }
	case SortCapacityAsc:
		return func(a, b *Unit) bool { return a.Capacity < b.Capacity }
	case SortCapacityDesc:
		return func(a, b *Unit) bool { return a.Capacity > b.Capacity }
	default:
		return func(a, b *Unit) bool { return a.BasePricePerMonth.LessThan(b.BasePricePerMonth) }
	}
}

// FilterAndSort returns the units matching c, stably ordered by key. The
// input slice is not modified. isAvailable is only consulted when c.Window
// is set and must then be non-nil. An invalid window fails with
// *daterange.InvalidIntervalError.
func FilterAndSort(units []*Unit, c Criteria, key SortKey, isAvailable AvailabilityFunc) ([]*Unit, error) {
	if c.Window != nil {
		if err := c.Window.Validate(); err != nil {
			return nil, err
		}
	}

	out := make([]*Unit, 0, len(units))
	for _, u := range units {
		if c.matches(u, isAvailable) {
			out = append(out, u)
		}
	}

	cmp := less(key)
	sort.SliceStable(out, func(i, j int) bool { return cmp(out[i], out[j]) })
	return out, nil
}
