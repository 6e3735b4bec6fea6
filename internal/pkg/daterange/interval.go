package daterange

import "fmt"

// InvalidIntervalError reports an interval whose end is not after its start.
type InvalidIntervalError struct {
	Start Date
	End   Date
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid date interval [%s, %s): end must be after start", e.Start, e.End)
}

// Interval is the half-open range [Start, End). End is the checkout day.
type Interval struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// New returns a validated interval.
func New(start, end Date) (Interval, error) {
	i := Interval{Start: start, End: end}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// ParseInterval parses two YYYY-MM-DD strings into a validated interval.
func ParseInterval(start, end string) (Interval, error) {
	s, err := Parse(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Interval{}, err
	}
	return New(s, e)
}

func (i Interval) Validate() error {
	if i.Start.IsZero() || i.End.IsZero() || !i.Start.Before(i.End) {
		return &InvalidIntervalError{Start: i.Start, End: i.End}
	}
	return nil
}

// Nights is the number of days in [Start, End).
func (i Interval) Nights() int {
	return i.Start.DaysUntil(i.End)
}

func (i Interval) Contains(d Date) bool {
	return !d.Before(i.Start) && d.Before(i.End)
}

// Overlaps reports whether the two ranges share a day.
// Checkout on the day of another check-in is not an overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Days lists every date in [Start, End).
func (i Interval) Days() []Date {
	n := i.Nights()
	if n <= 0 {
		return nil
	}
	days := make([]Date, 0, n)
	for d := i.Start; d.Before(i.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start, i.End)
}
