package availability

import (
	"sort"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

// DateSet is a set of calendar days.
type DateSet map[daterange.Date]struct{}

func (s DateSet) Has(d daterange.Date) bool {
	_, ok := s[d]
	return ok
}

// Sorted returns the members in ascending order.
func (s DateSet) Sorted() []daterange.Date {
	out := make([]daterange.Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Within returns the sorted members that fall inside the interval.
func (s DateSet) Within(i daterange.Interval) []daterange.Date {
	var out []daterange.Date
	for _, d := range s.Sorted() {
		if i.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}

// appliesTo reports whether a record tagged with unitID is part of the scope.
// Whole-property records apply to every unit; a property-wide scope sees
// every unit's records.
func (sc Scope) appliesTo(propertyID, unitID string) bool {
	if propertyID != sc.PropertyID {
		return false
	}
	return sc.UnitID == "" || unitID == "" || unitID == sc.UnitID
}

// unblocks reports whether an explicit unblock applies to the scope. A
// unit-level unblock never clears the property-wide calendar.
func (sc Scope) unblocks(o Override) bool {
	return o.PropertyID == sc.PropertyID && (o.UnitID == "" || o.UnitID == sc.UnitID)
}

// BlockedDates resolves the unavailable days of a scope. Every day of a
// pending or confirmed reservation is blocked except its checkout day;
// overrides with IsAvailable=false add days, overrides with IsAvailable=true
// remove them, whatever else blocked that day.
func BlockedDates(scope Scope, reservations []Reservation, overrides []Override) DateSet {
	blocked := make(DateSet)

	for _, r := range reservations {
		if !r.Status.Blocks() || !scope.appliesTo(r.PropertyID, r.UnitID) {
			continue
		}
		for _, d := range r.Interval.Days() {
			blocked[d] = struct{}{}
		}
	}

	for _, o := range overrides {
		if !o.IsAvailable && scope.appliesTo(o.PropertyID, o.UnitID) {
			blocked[o.Date] = struct{}{}
		}
	}
	for _, o := range overrides {
		if o.IsAvailable && scope.unblocks(o) {
			delete(blocked, o.Date)
		}
	}

	return blocked
}

// IsAvailable reports whether every day of query is free and query does
// not start before today. today is supplied by the caller.
func IsAvailable(scope Scope, query daterange.Interval, reservations []Reservation, overrides []Override, today daterange.Date) (bool, error) {
	if err := query.Validate(); err != nil {
		return false, err
	}
	if query.Start.Before(today) {
		return false, nil
	}

	blocked := BlockedDates(scope, reservations, overrides)
	for _, d := range query.Days() {
		if blocked.Has(d) {
			return false, nil
		}
	}
	return true, nil
}

// Ranges merges consecutive blocked days into half-open intervals.
func Ranges(blocked DateSet) []daterange.Interval {
	days := blocked.Sorted()
	if len(days) == 0 {
		return nil
	}

	var out []daterange.Interval
	cur := daterange.Interval{Start: days[0], End: days[0].AddDays(1)}
	for _, d := range days[1:] {
		if d == cur.End {
			cur.End = d.AddDays(1)
			continue
		}
		out = append(out, cur)
		cur = daterange.Interval{Start: d, End: d.AddDays(1)}
	}
	return append(out, cur)
}

// IsAvailable evaluates a window against the snapshot's data and date.
func (s *Snapshot) IsAvailable(scope Scope, window daterange.Interval) (bool, error) {
	return IsAvailable(scope, window, s.Reservations, s.Overrides, s.Today)
}
