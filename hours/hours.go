package hours

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var stockholmLoc *time.Location

func init() {
	var err error
	stockholmLoc, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(fmt.Sprintf("failed to load Stockholm location: %v", err))
	}
}

func Stockholm() *time.Location {
	return stockholmLoc
}

func LocationStockholm(t time.Time) time.Time {
	return t.In(stockholmLoc)
}

// Truncate returns the start of the hour in t's own location, which also
// works for locations with a non whole hour offset.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// ParseDate parses YYYY-MM-DD as local midnight in Stockholm.
func ParseDate(str string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, str, stockholmLoc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", str, err)
	}
	return t, nil
}

func Today() time.Time {
	return StartOfDay(time.Now())
}

func StartOfDay(t time.Time) time.Time {
	t = t.In(stockholmLoc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, stockholmLoc)
}

// NextDay is calendar based, a DST day is 23 or 25 hours long.
func NextDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1)
}

func FormatDate(t time.Time) string {
	return t.In(stockholmLoc).Format(DateLayout)
}

// FormatSpan renders an interval as "HH-HH" in Stockholm time, e.g. "23-00".
func FormatSpan(start, end time.Time) string {
	return fmt.Sprintf("%02d-%02d", start.In(stockholmLoc).Hour(), end.In(stockholmLoc).Hour())
}

// FormatClock renders the start of an hour as "HH:00" in Stockholm time.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%02d:00", t.In(stockholmLoc).Hour())
}
