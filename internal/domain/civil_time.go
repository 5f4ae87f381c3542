package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// CivilTime is the wall-clock reading of an instant in a named zone.
type CivilTime struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Second  int
	Weekday time.Weekday
	DateKey string // YYYY-MM-DD
}

// MinuteOfDay returns minutes elapsed since local midnight.
func (c CivilTime) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

var zoneCache sync.Map // zone id -> *time.Location

// LoadZone resolves an IANA zone identifier. The empty string and "Local"
// are rejected so results never depend on the evaluating host's zone.
func LoadZone(zoneID string) (*time.Location, error) {
	id := strings.TrimSpace(zoneID)
	if id == "" || id == "Local" {
		return nil, fmt.Errorf("load zone %q: %w", zoneID, ErrInvalidTimeZone)
	}

	if loc, ok := zoneCache.Load(id); ok {
		return loc.(*time.Location), nil
	}

	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w: %v", zoneID, ErrInvalidTimeZone, err)
	}
	zoneCache.Store(id, loc)

	return loc, nil
}

// CivilTimeIn converts an instant to civil time in the target zone.
func CivilTimeIn(instant time.Time, zoneID string) (CivilTime, error) {
	loc, err := LoadZone(zoneID)
	if err != nil {
		return CivilTime{}, fmt.Errorf("civil time: %w", err)
	}

	t := instant.In(loc)
	year, month, day := t.Date()
	hour, minute, second := t.Clock()

	return CivilTime{
		Year:    year,
		Month:   month,
		Day:     day,
		Hour:    hour,
		Minute:  minute,
		Second:  second,
		Weekday: t.Weekday(),
		DateKey: fmt.Sprintf("%04d-%02d-%02d", year, int(month), day),
	}, nil
}
