package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSeniorityYears(t *testing.T) {
	c := schedule.New()

	seniority, err := c.SeniorityYears(date(2020, time.January, 15), date(2025, time.January, 15))
	require.NoError(t, err)
	require.InDelta(t, 5.0, seniority, 0.01)

	seniority, err = c.SeniorityYears(date(2020, time.January, 15), date(2025, time.July, 15))
	require.NoError(t, err)
	require.InDelta(t, 5.5, seniority, 0.01)

	_, err = c.SeniorityYears(date(2030, time.January, 1), date(2025, time.January, 1))
	require.Error(t, err)
}

func TestDaysForSeniority(t *testing.T) {
	c := schedule.New()

	tests := []struct {
		seniority float64
		expected  int
	}{
		{0.5, 6},
		{1, 8},
		{2.9, 8},
		{3, 10},
		{7, 12},
		{12, 14},
		{20, 16},
		{1000, 16}, // beyond the table falls back to the last bracket
	}
	for _, tc := range tests {
		require.Equal(t, tc.expected, c.DaysForSeniority(tc.seniority), "seniority %.1f", tc.seniority)
	}
}

func TestCanRequestVacations(t *testing.T) {
	c := schedule.New()
	hire := date(2025, time.January, 1)

	ok, _ := c.CanRequestVacations(hire, date(2025, time.March, 1))
	require.False(t, ok)

	ok, _ = c.CanRequestVacations(hire, date(2025, time.July, 1))
	require.True(t, ok)
}

func TestPeriodsForYear(t *testing.T) {
	c := schedule.New()
	hire := date(2015, time.March, 10)

	periods, err := c.PeriodsForYear(hire, 2025)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	require.Equal(t, "2025-1", periods[0].Name)
	require.Equal(t, date(2024, time.September, 10), periods[0].Start)
	require.Equal(t, "2025-2", periods[1].Name)
	require.Equal(t, date(2025, time.March, 10), periods[1].Start)

	// Just under 10 years of seniority on Jan 1st 2025.
	require.Equal(t, 12, periods[0].DaysGranted)
}

func TestValidateBalance(t *testing.T) {
	require.NoError(t, schedule.ValidateBalance(5, 10))
	require.Error(t, schedule.ValidateBalance(11, 10))
	require.Error(t, schedule.ValidateBalance(0, 10))
}

func TestBusinessDaysBetween(t *testing.T) {
	// Mon 2025-06-02 through Sun 2025-06-08: five business days.
	count, err := schedule.BusinessDaysBetween(date(2025, time.June, 2), date(2025, time.June, 8), nil)
	require.NoError(t, err)
	require.Equal(t, 5, count)

	// A holiday inside the range is skipped.
	count, err = schedule.BusinessDaysBetween(date(2025, time.June, 2), date(2025, time.June, 8),
		[]time.Time{date(2025, time.June, 4)})
	require.NoError(t, err)
	require.Equal(t, 4, count)

	_, err = schedule.BusinessDaysBetween(date(2025, time.June, 8), date(2025, time.June, 2), nil)
	require.Error(t, err)
}

func TestResumeDate(t *testing.T) {
	// Five days of leave from Monday consume Mon-Fri, resuming Monday.
	resume, err := schedule.ResumeDate(date(2025, time.June, 2), 5, nil)
	require.NoError(t, err)
	require.Equal(t, date(2025, time.June, 9), resume)

	// One day of leave on Friday resumes Monday.
	resume, err = schedule.ResumeDate(date(2025, time.June, 6), 1, nil)
	require.NoError(t, err)
	require.Equal(t, date(2025, time.June, 9), resume)

	// A holiday on the resuming day pushes it forward.
	resume, err = schedule.ResumeDate(date(2025, time.June, 2), 5,
		[]time.Time{date(2025, time.June, 9)})
	require.NoError(t, err)
	require.Equal(t, date(2025, time.June, 10), resume)

	_, err = schedule.ResumeDate(date(2025, time.June, 2), 0, nil)
	require.Error(t, err)
}
