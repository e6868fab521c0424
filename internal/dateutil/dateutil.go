// Package dateutil resolves effective dates from document names. Naming
// conventions have drifted over the years, so each document kind carries an
// ordered list of patterns that are tried one by one.
package dateutil

import (
	"regexp"
	"strconv"
	"time"

	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

// Pattern extracts a date from a document URL or title. Build is called with
// the regexp submatches (match[0] is the full match).
type Pattern struct {
	Regexp *regexp.Regexp
	Build  func(match []string) (time.Time, error)
}

// Resolve tries the patterns in order and returns the first extracted date.
// It fails with ErrUnknownDateFormat when no pattern matches.
func Resolve(patterns []Pattern, input string) (time.Time, error) {
	for _, p := range patterns {
		match := p.Regexp.FindStringSubmatch(input)
		if match == nil {
			continue
		}
		date, err := p.Build(match)
		if err != nil {
			continue
		}
		return date, nil
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrUnknownDateFormat, "no known naming pattern matches "+input)
}

// DMY builds a date from day, month and year submatch indices.
func DMY(dayIdx, monthIdx, yearIdx int) func(match []string) (time.Time, error) {
	return func(match []string) (time.Time, error) {
		day, err := strconv.Atoi(match[dayIdx])
		if err != nil {
			return time.Time{}, err
		}
		month, err := strconv.Atoi(match[monthIdx])
		if err != nil {
			return time.Time{}, err
		}
		year, err := strconv.Atoi(match[yearIdx])
		if err != nil {
			return time.Time{}, err
		}
		return Date(year, time.Month(month), day), nil
	}
}

// Date returns a UTC-midnight date, the representation used for all
// date-scoped records.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekMonday snaps a date to the Monday of its week. Weekend dates snap
// forward to the next Monday, matching how weekend-published documents apply
// to the coming week.
func WeekMonday(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	if weekday >= 6 {
		return date.AddDate(0, 0, 8-weekday)
	}
	return date.AddDate(0, 0, 1-weekday)
}

// Weekdays returns Monday through Friday of the week containing date,
// applying the same weekend snapping as WeekMonday.
func Weekdays(date time.Time) []time.Time {
	monday := WeekMonday(date)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}
