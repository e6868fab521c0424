package dateutil

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/gimvic/schedule-sync/pkg/errors"
)

var testPatterns = []Pattern{
	{
		Regexp: regexp.MustCompile(`menu-(\d+)-(\d+)-(\d+)`),
		Build:  DMY(3, 2, 1),
	},
	{
		Regexp: regexp.MustCompile(`legacy_(\d+)\._(\d+)\._(\d+)`),
		Build:  DMY(1, 2, 3),
	},
}

func TestResolveOrdered(t *testing.T) {
	date, err := Resolve(testPatterns, "menu-2024-3-4.pdf")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.March, 4), date)

	date, err = Resolve(testPatterns, "legacy_4._3._2024.pdf")
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.March, 4), date)
}

func TestResolveUnknownFormat(t *testing.T) {
	_, err := Resolve(testPatterns, "mystery.pdf")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnknownDateFormat.Code, appErr.Code)
}

func TestWeekMonday(t *testing.T) {
	monday := Date(2024, time.March, 4)
	assert.Equal(t, monday, WeekMonday(monday))
	assert.Equal(t, monday, WeekMonday(Date(2024, time.March, 6)))
	assert.Equal(t, monday, WeekMonday(Date(2024, time.March, 8)))

	// Weekends snap forward to the next week.
	next := Date(2024, time.March, 11)
	assert.Equal(t, next, WeekMonday(Date(2024, time.March, 9)))
	assert.Equal(t, next, WeekMonday(Date(2024, time.March, 10)))
}

func TestWeekdays(t *testing.T) {
	days := Weekdays(Date(2024, time.March, 6))
	require.Len(t, days, 5)
	assert.Equal(t, Date(2024, time.March, 4), days[0])
	assert.Equal(t, Date(2024, time.March, 8), days[4])
}
