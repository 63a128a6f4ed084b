package booking

import (
	"regexp"
	"strconv"
	"time"
)

var (
	isoDash  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	isoSlash = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`)
	usSlash  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	usDash   = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDate reads s leniently, the way browser engines treat free
// text dates: year-first forms accept any day up to 31 and roll
// over into the next month, forms with the year last are
// month-first. Dates without an offset are in loc.
func parseDate(s string, loc *time.Location) (time.Time, bool) {
	if m := isoDash.FindStringSubmatch(s); m != nil {
		return calendarDate(m[1], m[2], m[3], loc)
	}
	if m := isoSlash.FindStringSubmatch(s); m != nil {
		return calendarDate(m[1], m[2], m[3], loc)
	}
	if m := usSlash.FindStringSubmatch(s); m != nil {
		return calendarDate(m[3], m[1], m[2], loc)
	}
	if m := usDash.FindStringSubmatch(s); m != nil {
		return calendarDate(m[3], m[1], m[2], loc)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func calendarDate(ys, ms, ds string, loc *time.Location) (time.Time, bool) {
	y, _ := strconv.Atoi(ys)
	m, _ := strconv.Atoi(ms)
	d, _ := strconv.Atoi(ds)
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

// stayDays returns the stay length in whole days, rounded up. The
// wall clock readings are compared so daylight saving shifts do
// not add a day.
func stayDays(in, out time.Time) int {
	diff := wallClock(out).Sub(wallClock(in))
	if diff < 0 {
		diff = -diff
	}
	days := diff / (24 * time.Hour)
	if diff%(24*time.Hour) != 0 {
		days++
	}
	return int(days)
}

func wallClock(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.UTC,
	)
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
