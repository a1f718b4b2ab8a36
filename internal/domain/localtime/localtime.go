// Package localtime handles the naive wall-clock timestamps used for ledger
// dates. A naive value carries the clock-face digits of the fixed GMT+8 region
// and no zone; in Go it is represented as a time.Time in time.UTC whose digits
// are read as local wall-clock time.
package localtime

import "time"

// Layout is the ISO-8601 form used when naive timestamps leave the service.
const Layout = "2006-01-02T15:04:05.999999"

// DateLayout is the date-only form.
const DateLayout = "2006-01-02"

// Zone is the fixed regional zone ledger dates are expressed in.
var Zone = time.FixedZone("GMT+8", 8*60*60)

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the process clock.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// Naive keeps the clock-face digits of t and drops its zone. No conversion
// between zones takes place. Precision is cut to microseconds, which is what
// the store keeps.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC).
		Truncate(time.Microsecond)
}

// Now returns the current GMT+8 wall-clock time as a naive value.
func Now(c Clock) time.Time {
	return Naive(c.Now().In(Zone))
}

// EndOfDay returns the last representable microsecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, 0, 1).Add(-time.Microsecond)
}

// Format renders a naive value without zone designator.
func Format(t time.Time) string {
	return t.Format(Layout)
}
