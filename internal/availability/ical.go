package availability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ketensuites/keten-backend/internal/pkg/daterange"
)

const icsProductID = "-//Keten Suites//Availability//EN"

// icsEscape escapes TEXT values (RFC 5545 3.3.11).
func icsEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)
	return r.Replace(s)
}

// WriteCalendar renders blocked ranges as all-day VEVENTs. DTEND is the
// exclusive end, which matches the half-open ranges directly.
func WriteCalendar(w io.Writer, scope Scope, name string, ranges []daterange.Interval, stamp time.Time) error {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", icsProductID)
	line("CALSCALE:GREGORIAN")
	line("METHOD:PUBLISH")
	line("X-WR-CALNAME:%s", icsEscape(name))

	owner := scope.PropertyID
	if scope.UnitID != "" {
		owner = scope.UnitID
	}
	dtstamp := stamp.UTC().Format("20060102T150405Z")

	for _, r := range ranges {
		line("BEGIN:VEVENT")
		line("UID:%s-%s@ketensuites", owner, r.Start.Time().Format("20060102"))
		line("DTSTAMP:%s", dtstamp)
		line("DTSTART;VALUE=DATE:%s", r.Start.Time().Format("20060102"))
		line("DTEND;VALUE=DATE:%s", r.End.Time().Format("20060102"))
		line("SUMMARY:%s", icsEscape("Not available"))
		line("TRANSP:OPAQUE")
		line("END:VEVENT")
	}

	line("END:VCALENDAR")

	_, err := io.WriteString(w, b.String())
	return err
}
