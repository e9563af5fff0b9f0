// Package localdate formats dates the way the board shows them to
// Indonesian readers and derives the calendar day used by the daily gate.
package localdate

import (
	"fmt"
	"time"
)

// DefaultZone is used when no time zone is configured.
const DefaultZone = "Asia/Jakarta"

// Recent is shown in place of a date the store has not assigned yet.
const Recent = "Baru saja"

var months = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Location resolves a zone name, falling back to DefaultZone when empty.
func Location(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// MonthName returns the Indonesian name of m.
func MonthName(m time.Month) string {
	return months[m-1]
}

// FormatLong renders t as "18 Oktober 2026" in loc. A nil t renders Recent.
func FormatLong(t *time.Time, loc *time.Location) string {
	if t == nil {
		return Recent
	}
	lt := t.In(loc)
	return fmt.Sprintf("%d %s %d", lt.Day(), MonthName(lt.Month()), lt.Year())
}

// MonthYear renders t as "Oktober 2026" in loc.
func MonthYear(t time.Time, loc *time.Location) string {
	lt := t.In(loc)
	return fmt.Sprintf("%s %d", MonthName(lt.Month()), lt.Year())
}

// DayKey is the calendar day of t in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
