package timeutil

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	locationMu sync.RWMutex
	location   = time.UTC
)

// SetLocation sets the default application timezone.
func SetLocation(name string) error {
	tz := strings.TrimSpace(name)
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load location %q: %w", tz, err)
	}
	locationMu.Lock()
	location = loc
	locationMu.Unlock()
	return nil
}

// Location returns the configured timezone.
func Location() *time.Location {
	locationMu.RLock()
	loc := location
	locationMu.RUnlock()
	return loc
}

// Now returns the current time in the configured timezone.
func Now() time.Time {
	return time.Now().In(Location())
}

// MonthStart returns midnight of the first day of year-month in loc.
// Unlike time.Date it rejects values that would be normalized into
// another month or year.
func MonthStart(year, month int, loc *time.Location) (time.Time, error) {
	if year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("invalid year: %d", year)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("invalid month: %d", month)
	}
	if loc == nil {
		loc = Location()
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc), nil
}
