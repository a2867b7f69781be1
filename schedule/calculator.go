// Package schedule implements the vacation scheduling rules: seniority
// brackets, business-day counting and resuming-date calculation.
package schedule

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// SeniorityBracket maps a half-open seniority range [MinYears, MaxYears)
// to the vacation days granted per period.
type SeniorityBracket struct {
	MinYears float64 `json:"min_years"`
	MaxYears float64 `json:"max_years"`
	Days     int     `json:"days"`
}

// DefaultBrackets is the agency's standard seniority table.
var DefaultBrackets = []SeniorityBracket{
	{MinYears: 0, MaxYears: 1, Days: 6},
	{MinYears: 1, MaxYears: 3, Days: 8},
	{MinYears: 3, MaxYears: 5, Days: 10},
	{MinYears: 5, MaxYears: 10, Days: 12},
	{MinYears: 10, MaxYears: 15, Days: 14},
	{MinYears: 15, MaxYears: 999, Days: 16},
}

const (
	defaultMonthsForFirstRequest = 6
	minimumDaysPerPeriod         = 6
)

// Period is a half-year vacation window anchored on the hire anniversary.
type Period struct {
	Name        string    `json:"period"` // e.g. "2024-1"
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	DaysGranted int       `json:"days_granted"`
}

// Calculator evaluates seniority-based entitlements. The zero value is not
// usable; construct with New.
type Calculator struct {
	brackets          []SeniorityBracket
	monthsForFirstReq int
	nowFunc           func() time.Time
}

type Option func(*Calculator)

// WithBrackets overrides the seniority table.
func WithBrackets(brackets []SeniorityBracket) Option {
	return func(c *Calculator) {
		if len(brackets) > 0 {
			c.brackets = brackets
		}
	}
}

// WithMonthsForFirstRequest overrides the waiting period for new hires.
func WithMonthsForFirstRequest(months int) Option {
	return func(c *Calculator) {
		if months > 0 {
			c.monthsForFirstReq = months
		}
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(c *Calculator) {
		c.nowFunc = now
	}
}

func New(options ...Option) *Calculator {
	c := &Calculator{
		brackets:          DefaultBrackets,
		monthsForFirstReq: defaultMonthsForFirstRequest,
		nowFunc:           time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// SeniorityYears returns the employee's seniority in fractional years at
// the given date (now if zero).
func (c *Calculator) SeniorityYears(hireDate, at time.Time) (float64, error) {
	if at.IsZero() {
		at = c.nowFunc()
	}
	if hireDate.After(at) {
		return 0, errors.New("[SeniorityYears] hire date is in the future")
	}

	years := at.Year() - hireDate.Year()
	months := int(at.Month()) - int(hireDate.Month())
	days := at.Day() - hireDate.Day()
	if days < 0 {
		months--
		days += daysInMonth(at.AddDate(0, -1, 0))
	}
	if months < 0 {
		years--
		months += 12
	}

	seniority := float64(years) + float64(months)/12.0 + float64(days)/365.0
	return seniority, nil
}

func daysInMonth(t time.Time) int {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 1, -1).Day()
}

// DaysForSeniority returns the vacation days granted per period for the
// given seniority. Seniorities beyond the table fall back to the last
// bracket.
func (c *Calculator) DaysForSeniority(seniority float64) int {
	for _, b := range c.brackets {
		if seniority >= b.MinYears && seniority < b.MaxYears {
			return b.Days
		}
	}
	if len(c.brackets) > 0 {
		return c.brackets[len(c.brackets)-1].Days
	}
	return minimumDaysPerPeriod
}

// CanRequestVacations checks the new-hire waiting period. The returned
// message is suitable for direct display.
func (c *Calculator) CanRequestVacations(hireDate, requestDate time.Time) (bool, string) {
	if requestDate.IsZero() {
		requestDate = c.nowFunc()
	}
	eligible := hireDate.AddDate(0, c.monthsForFirstReq, 0)
	if requestDate.Before(eligible) {
		monthsLeft := monthsBetween(requestDate, eligible)
		if monthsLeft < 1 {
			monthsLeft = 1
		}
		return false, fmt.Sprintf("must wait %d more month(s) before requesting vacations", monthsLeft)
	}
	return true, "eligible to request vacations"
}

func monthsBetween(from, to time.Time) int {
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// PeriodsForYear returns the two half-year vacation periods available to
// an employee in the given year, anchored on the hire anniversary.
func (c *Calculator) PeriodsForYear(hireDate time.Time, year int) ([]Period, error) {
	if year == 0 {
		year = c.nowFunc().Year()
	}

	startOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	seniority, err := c.SeniorityYears(hireDate, startOfYear)
	if err != nil {
		return nil, errors.Wrap(err, "[PeriodsForYear] SeniorityYears")
	}
	days := c.DaysForSeniority(seniority)

	anniversary := func(y int) time.Time {
		return time.Date(y, hireDate.Month(), hireDate.Day(), 0, 0, 0, 0, time.UTC)
	}

	firstStart := anniversary(year - 1).AddDate(0, 6, 0)
	secondStart := anniversary(year)

	return []Period{
		{
			Name:        fmt.Sprintf("%d-1", year),
			Start:       firstStart,
			End:         firstStart.AddDate(0, 6, -1),
			DaysGranted: days,
		},
		{
			Name:        fmt.Sprintf("%d-2", year),
			Start:       secondStart,
			End:         secondStart.AddDate(0, 6, -1),
			DaysGranted: days,
		},
	}, nil
}

// ValidateBalance checks that a request fits in the available balance.
func ValidateBalance(requested, available int) error {
	if requested <= 0 {
		return errors.New("must request at least 1 day")
	}
	if requested > available {
		return errors.Errorf("insufficient days, available: %d, requested: %d", available, requested)
	}
	return nil
}

func isBusinessDay(day time.Time, holidays map[string]bool) bool {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return false
	}
	return !holidays[day.Format("2006-01-02")]
}

func holidaySet(holidays []time.Time) map[string]bool {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h.Format("2006-01-02")] = true
	}
	return set
}

// BusinessDaysBetween counts business days between start and end inclusive,
// skipping weekends and the given holidays.
func BusinessDaysBetween(start, end time.Time, holidays []time.Time) (int, error) {
	if start.After(end) {
		return 0, errors.New("[BusinessDaysBetween] start date after end date")
	}
	set := holidaySet(holidays)
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if isBusinessDay(day, set) {
			count++
		}
	}
	return count, nil
}

// ResumeDate returns the date the employee resumes work after taking
// businessDays of leave starting at start. The leave consumes business
// days only; the resuming date is the first business day after the last
// day of leave.
func ResumeDate(start time.Time, businessDays int, holidays []time.Time) (time.Time, error) {
	if businessDays < 1 {
		return time.Time{}, errors.New("[ResumeDate] business days must be at least 1")
	}
	set := holidaySet(holidays)

	counted := 0
	day := start
	for {
		if isBusinessDay(day, set) {
			counted++
		}
		if counted >= businessDays {
			break
		}
		day = day.AddDate(0, 0, 1)
	}

	resume := day.AddDate(0, 0, 1)
	for !isBusinessDay(resume, set) {
		resume = resume.AddDate(0, 0, 1)
	}
	return resume, nil
}
