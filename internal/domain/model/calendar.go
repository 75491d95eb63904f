package model

import (
	"fmt"
	"regexp"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var timePattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}$`)

// Date is a calendar date without a time zone.
type Date struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses YYYY-MM-DD and rejects dates that do not exist.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %w", ErrInvalidDate, s, err)
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// NewDate builds a Date, rejecting out-of-range components.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// Year returns the year component.
func (d Date) Year() int { return d.year }

// Month returns the month component.
func (d Date) Month() time.Month { return d.month }

// Day returns the day-of-month component.
func (d Date) Day() int { return d.day }

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// TimeOfDay is a 24-hour clock reading with minute precision.
type TimeOfDay struct {
	hour   int
	minute int
}

// ParseTimeOfDay parses HH:MM on a 24-hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timePattern.MatchString(s) {
		return TimeOfDay{}, fmt.Errorf("%w: %q must look like HH:MM", ErrInvalidTime, s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q: %w", ErrInvalidTime, s, err)
	}
	return TimeOfDay{hour: t.Hour(), minute: t.Minute()}, nil
}

// NewTimeOfDay builds a TimeOfDay, rejecting out-of-range components.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, hour, minute)
	}
	return TimeOfDay{hour: hour, minute: minute}, nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return t.hour }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return t.minute }

// Minutes returns minutes elapsed since midnight.
func (t TimeOfDay) Minutes() int { return t.hour*60 + t.minute }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.hour, t.minute)
}
