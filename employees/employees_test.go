package employees_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/employees"
)

func TestRestsOn(t *testing.T) {
	cal := &employees.RestCalendar{RotatedDays: []string{"Sunday", " monday "}}

	require.True(t, cal.RestsOn(time.Sunday))
	require.True(t, cal.RestsOn(time.Monday))
	require.False(t, cal.RestsOn(time.Tuesday))

	var nilCal *employees.RestCalendar
	require.False(t, nilCal.RestsOn(time.Sunday))
}

func TestEmployeeValidate(t *testing.T) {
	base := func() *employees.Employee {
		return &employees.Employee{
			AreaID:     1,
			FileNumber: "100200",
			FirstName:  "Jorge",
			LastName:   "Ramírez",
			HireDate:   time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC),
		}
	}

	require.NoError(t, base().Validate())

	e := base()
	e.AreaID = 0
	require.Error(t, e.Validate())

	e = base()
	e.FileNumber = "  "
	require.Error(t, e.Validate())

	e = base()
	e.LastName = ""
	require.Error(t, e.Validate())

	e = base()
	e.HireDate = time.Time{}
	require.Error(t, e.Validate())
}
