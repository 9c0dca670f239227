// Package datekey converts instants into local calendar-day keys.
//
// A Key is the civil date (YYYY-MM-DD) an instant falls on in the local time
// zone, not in UTC. Keys sort lexically in calendar order, so they can be
// compared as strings and used directly as map keys for bucketing.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the textual form of a Key.
const Layout = "2006-01-02"

// Key identifies a local calendar day.
type Key string

// FromTime returns the local calendar day t falls on.
func FromTime(t time.Time) Key {
	return Key(t.Local().Format(Layout))
}

// Of builds the key for the given civil date, normalising overflow the way
// time.Date does (e.g. January 32 becomes February 1).
func Of(year int, month time.Month, day int) Key {
	return FromTime(time.Date(year, month, day, 12, 0, 0, 0, time.Local))
}

// Parse validates raw and returns it as a Key.
func Parse(raw string) (Key, error) {
	t, err := time.ParseInLocation(Layout, raw, time.Local)
	if err != nil {
		return "", fmt.Errorf("datekey: invalid date %q: %w", raw, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for literals in tests and defaults.
func MustParse(raw string) Key {
	k, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return k
}

// Valid reports whether k is a well-formed key.
func (k Key) Valid() bool {
	_, err := time.ParseInLocation(Layout, string(k), time.Local)
	return err == nil
}

func (k Key) String() string {
	return string(k)
}

// Time returns local midnight of the day. Invalid keys return the zero time.
func (k Key) Time() time.Time {
	t, err := time.ParseInLocation(Layout, string(k), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// noon anchors arithmetic away from midnight so DST shifts never move a
// result onto the neighbouring day.
func (k Key) noon() time.Time {
	t := k.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
}

// AddDays returns the key n calendar days away (n may be negative).
func (k Key) AddDays(n int) Key {
	t := k.noon()
	return FromTime(time.Date(t.Year(), t.Month(), t.Day()+n, 12, 0, 0, 0, time.Local))
}

// Year returns the calendar year.
func (k Key) Year() int {
	return k.Time().Year()
}

// Month returns the calendar month.
func (k Key) Month() time.Month {
	return k.Time().Month()
}

// Weekday returns the day of the week.
func (k Key) Weekday() time.Weekday {
	return k.Time().Weekday()
}

// Before reports whether k is an earlier day than other.
func (k Key) Before(other Key) bool {
	return k < other
}

// After reports whether k is a later day than other.
func (k Key) After(other Key) bool {
	return k > other
}

// Between reports whether k lies within [start, end], inclusive.
func (k Key) Between(start, end Key) bool {
	return k >= start && k <= end
}

// StartOfWeek returns the Monday on or before k.
func (k Key) StartOfWeek() Key {
	offset := (int(k.Weekday()) + 6) % 7
	return k.AddDays(-offset)
}

// StartOfMonth returns the first day of k's month.
func (k Key) StartOfMonth() Key {
	t := k.noon()
	return Of(t.Year(), t.Month(), 1)
}

// StartOfQuarter returns the first day of k's calendar quarter
// (January, April, July or October).
func (k Key) StartOfQuarter() Key {
	t := k.noon()
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	return Of(t.Year(), first, 1)
}

// StartOfYear returns January 1 of k's year.
func (k Key) StartOfYear() Key {
	return Of(k.Year(), time.January, 1)
}

// DaysUntil counts whole days from k to other; negative when other is earlier.
func (k Key) DaysUntil(other Key) int {
	a, b := k.noon(), other.noon()
	return int(b.Sub(a).Round(time.Hour).Hours() / 24)
}
