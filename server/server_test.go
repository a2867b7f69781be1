package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/metrohr/leavehub/areas"
	fakearearepo "github.com/metrohr/leavehub/areas/repofake"
	"github.com/metrohr/leavehub/catalogs"
	fakecatalogrepo "github.com/metrohr/leavehub/catalogs/repofake"
	"github.com/metrohr/leavehub/employees"
	fakeemployeerepo "github.com/metrohr/leavehub/employees/repofake"
	"github.com/metrohr/leavehub/internal/utils"
	"github.com/metrohr/leavehub/requests"
	fakerequestrepo "github.com/metrohr/leavehub/requests/repofake"
	"github.com/metrohr/leavehub/server"
	"github.com/metrohr/leavehub/token"
	faketokenrepo "github.com/metrohr/leavehub/token/repofake"
	"github.com/metrohr/leavehub/users"
	fakeuserrepo "github.com/metrohr/leavehub/users/repofake"
)

const (
	superEmail   = "super@metro.mx"
	areaEmail    = "taquillas@metro.mx"
	testPassword = "Sup3r-secret"
)

type serverFixture struct {
	server    *server.Server
	users     *fakeuserrepo.FakeUserRepo
	areas     *fakearearepo.FakeAreaRepo
	employees *fakeemployeerepo.FakeEmployeeRepo
	catalogs  *fakecatalogrepo.FakeCatalogRepo
	requests  *fakerequestrepo.FakeRequestRepo
	balances  *fakerequestrepo.FakeBalanceRepo

	ticketArea   *areas.Area
	workshopArea *areas.Area
	// employee in the ticket area, hired 2015-03-10, rests on Sundays
	employee *employees.Employee
	// employee in the workshop area
	otherEmployee *employees.Employee

	vacationType *catalogs.VacationType
	// economic day type limited to 3 days per year
	limitedDayType *catalogs.EconomicDayType
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	ctx := context.Background()

	f := &serverFixture{
		users:     fakeuserrepo.NewFakeUserRepo(),
		areas:     fakearearepo.NewFakeAreaRepo(),
		employees: fakeemployeerepo.NewFakeEmployeeRepo(),
		catalogs:  fakecatalogrepo.NewFakeCatalogRepo(),
		requests:  fakerequestrepo.NewFakeRequestRepo(),
		balances:  fakerequestrepo.NewFakeBalanceRepo(),
	}

	var err error
	f.ticketArea, err = f.areas.Create(ctx, &areas.Area{Name: "Taquillas", Code: "TAQ", Active: true})
	require.NoError(t, err)
	f.workshopArea, err = f.areas.Create(ctx, &areas.Area{Name: "Talleres", Code: "TLL", Active: true})
	require.NoError(t, err)

	hash, err := users.HashPassword(testPassword)
	require.NoError(t, err)
	_, err = f.users.Create(ctx, &users.User{
		Email: superEmail, FirstName: "Root", LastName: "Admin",
		Role: users.RoleSuperAdmin, PasswordHash: hash, Active: true,
	})
	require.NoError(t, err)
	_, err = f.users.Create(ctx, &users.User{
		Email: areaEmail, FirstName: "Ana", LastName: "López",
		Role: users.RoleAreaAdmin, AreaID: &f.ticketArea.ID, PasswordHash: hash, Active: true,
	})
	require.NoError(t, err)

	f.employee, err = f.employees.Create(ctx, &employees.Employee{
		AreaID:     f.ticketArea.ID,
		FileNumber: "100200",
		FirstName:  "Jorge",
		LastName:   "Ramírez",
		HireDate:   time.Date(2015, time.March, 10, 0, 0, 0, 0, time.UTC),
		Active:     true,
		RestCalendar: &employees.RestCalendar{
			RotatedDays: []string{"sunday"},
			Shift:       "morning",
		},
	})
	require.NoError(t, err)
	f.otherEmployee, err = f.employees.Create(ctx, &employees.Employee{
		AreaID:     f.workshopArea.ID,
		FileNumber: "100300",
		FirstName:  "Laura",
		LastName:   "Mendoza",
		HireDate:   time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC),
		Active:     true,
	})
	require.NoError(t, err)

	f.vacationType, err = f.catalogs.CreateVacationType(ctx, &catalogs.VacationType{
		Name: "Vacaciones ordinarias", Code: "VAC-ORD", Active: true,
	})
	require.NoError(t, err)
	f.limitedDayType, err = f.catalogs.CreateEconomicDayType(ctx, &catalogs.EconomicDayType{
		Name: "Día económico", Code: "DE", Category: catalogs.CategoryPaid,
		DayLimit: utils.Ptr(3), Active: true,
	})
	require.NoError(t, err)

	tokenRepo := faketokenrepo.NewFakeRefreshTokenRepo()
	tokens := token.New([]byte("test-secret-0123456789"), tokenRepo)
	srv, err := server.New(server.Repos{
		Users:     f.users,
		Areas:     f.areas,
		Employees: f.employees,
		Catalogs:  f.catalogs,
		Requests:  f.requests,
		Balances:  f.balances,
		Tokens:    tokenRepo,
	}, tokens, server.WithFolioPrefix("VAC"))
	require.NoError(t, err)
	f.server = srv

	return f
}

// do performs a request against the server and returns the recorder.
func (f *serverFixture) do(t *testing.T, method, path, accessToken string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// login authenticates against the API and returns the token pair. The
// response nests the pair under "tokens" next to the user profile.
func (f *serverFixture) login(t *testing.T, email string) (access, refresh string) {
	t.Helper()
	rec := f.do(t, http.MethodPost, server.RouteLogin, "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User   *users.User `json:"user"`
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	require.Equal(t, email, resp.User.Email)
	require.NotEmpty(t, resp.Tokens.Access)
	require.NotEmpty(t, resp.Tokens.Refresh)
	return resp.Tokens.Access, resp.Tokens.Refresh
}

func TestHealth(t *testing.T) {
	f := setupServerFixture(t)
	rec := f.do(t, http.MethodGet, server.RouteHealth, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	f := setupServerFixture(t)

	access, refresh := f.login(t, superEmail)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	rec := f.do(t, http.MethodGet, server.RouteProfile, access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[users.User](t, rec)
	require.Equal(t, superEmail, profile.Email)

	// Refresh yields a usable access token.
	rec = f.do(t, http.MethodPost, server.RouteTokenRefresh, "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decode[map[string]string](t, rec)
	rec = f.do(t, http.MethodGet, server.RouteProfile, refreshed["access"], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logout invalidates the refresh token.
	rec = f.do(t, http.MethodPost, server.RouteLogout, "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, server.RouteTokenRefresh, "", map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteLogin, "", map[string]string{
		"email": superEmail, "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "detail")
}

func TestAuthRequired(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteEmployees, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, server.RouteEmployees, "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAreaAdminCannotCreateAreas(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteAreas, access, map[string]string{
		"name": "Nueva área", "code": "NVA",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAreaScoping(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	// Listing is pinned to the admin's own area even when asking for another.
	rec := f.do(t, http.MethodGet, server.RouteEmployees+"?area=2", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]*employees.Employee](t, rec)
	require.Len(t, list, 1)
	require.Equal(t, f.ticketArea.ID, list[0].AreaID)

	// Fetching an employee from another area is forbidden.
	rec = f.do(t, http.MethodGet, "/api/empleados/2/", access, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Superadmins see everything.
	superAccess, _ := f.login(t, superEmail)
	rec = f.do(t, http.MethodGet, server.RouteEmployees, superAccess, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = decode[[]*employees.Employee](t, rec)
	require.Len(t, list, 2)
}

func TestCreateVacationRequest(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.employee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		BusinessDays:   5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[requests.LeaveRequest](t, rec)
	require.Regexp(t, `^VAC-\d{8}-\d{4}$`, created.Folio)
	require.Equal(t, requests.StatusPending, created.Status)
	require.Equal(t, f.ticketArea.ID, created.AreaID)
	require.Equal(t, "2025-2", created.Period)
	require.False(t, created.RestDayConflict)
	// Five business days from Monday resume the following Monday.
	require.Equal(t, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), created.ResumeDate.UTC())

	// Ten years of seniority grant 12 days, the request consumed 5.
	balance, err := f.balances.Get(context.Background(), f.employee.ID, "2025-2")
	require.NoError(t, err)
	require.Equal(t, 12, balance.DaysGranted)
	require.Equal(t, 7, balance.DaysAvailable)
}

func TestCreateVacationRequestInsufficientBalance(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.employee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		BusinessDays:   13,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient days")
}

func TestCreateRequestFlagsRestDayConflict(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	// 2025-06-01 is a Sunday, the employee's rotated rest day.
	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.employee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		BusinessDays:   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[requests.LeaveRequest](t, rec)
	require.True(t, created.RestDayConflict)
	require.NotEmpty(t, created.Warning)
}

func TestCreateRequestForOtherAreaForbidden(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.otherEmployee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		BusinessDays:   1,
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestEconomicDayLimit(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	create := func(start time.Time, days int) *httptest.ResponseRecorder {
		return f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
			EmployeeID:        f.employee.ID,
			Kind:              requests.KindEconomicDay,
			EconomicDayTypeID: &f.limitedDayType.ID,
			StartDate:         start,
			BusinessDays:      days,
		})
	}

	rec := create(time.Date(2025, time.April, 7, 0, 0, 0, 0, time.UTC), 2)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// The limit is 3 per year; 2 are taken, asking for 2 more fails.
	rec = create(time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC), 2)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "1 day(s) remaining")

	rec = create(time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC), 1)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCancelVacationRequestReturnsDays(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.employee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		BusinessDays:   5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[requests.LeaveRequest](t, rec)

	rec = f.do(t, http.MethodPatch, "/api/solicitudes/"+created.ID+"/", access,
		map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	balance, err := f.balances.Get(context.Background(), f.employee.ID, "2025-2")
	require.NoError(t, err)
	require.Equal(t, 12, balance.DaysAvailable)

	movements, err := f.balances.ListMovements(context.Background(), f.employee.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2) // use then cancel
}

// failingRequestRepo rejects every create while delegating the rest.
type failingRequestRepo struct {
	*fakerequestrepo.FakeRequestRepo
}

func (failingRequestRepo) Create(context.Context, *requests.LeaveRequest) (*requests.LeaveRequest, error) {
	return nil, errors.New("storage unavailable")
}

func TestFailedCreateLeavesBalanceUntouched(t *testing.T) {
	f := setupServerFixture(t)

	tokenRepo := faketokenrepo.NewFakeRefreshTokenRepo()
	srv, err := server.New(server.Repos{
		Users:     f.users,
		Areas:     f.areas,
		Employees: f.employees,
		Catalogs:  f.catalogs,
		Requests:  failingRequestRepo{f.requests},
		Balances:  f.balances,
		Tokens:    tokenRepo,
	}, token.New([]byte("test-secret-0123456789"), tokenRepo))
	require.NoError(t, err)
	f.server = srv

	access, _ := f.login(t, areaEmail)
	rec := f.do(t, http.MethodPost, server.RouteRequests, access, &requests.LeaveRequest{
		EmployeeID:     f.employee.ID,
		Kind:           requests.KindVacation,
		VacationTypeID: &f.vacationType.ID,
		StartDate:      time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC),
		BusinessDays:   5,
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	// No balance was written and no movement recorded for the failed
	// request.
	_, err = f.balances.Get(context.Background(), f.employee.ID, "2025-2")
	require.ErrorIs(t, err, requests.ErrNotFound)
	movements, err := f.balances.ListMovements(context.Background(), f.employee.ID)
	require.NoError(t, err)
	require.Empty(t, movements)
}

func TestUpdateRequestStatusValidation(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, superEmail)

	rec := f.do(t, http.MethodPatch, "/api/solicitudes/missing/", access,
		map[string]string{"status": "nonsense"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/api/solicitudes/missing/", access,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResumeDateEndpoint(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteResumeDate, access, map[string]any{
		"start_date":    "2025-06-02",
		"business_days": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[map[string]string](t, rec)
	require.Equal(t, "2025-06-09", resp["resume_date"])

	rec = f.do(t, http.MethodPost, server.RouteResumeDate, access, map[string]any{
		"start_date":    "June 2nd",
		"business_days": 5,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeBalancesSeedsPeriods(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodGet, "/api/empleados/1/saldos/", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	balances := decode[[]*requests.VacationBalance](t, rec)
	require.Len(t, balances, 2)
	for _, b := range balances {
		require.Equal(t, b.DaysGranted, b.DaysAvailable)
	}
}

func TestEmployeePeriods(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodGet, "/api/empleados/1/periodos/?year=2025", access, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	periods := decode[[]map[string]any](t, rec)
	require.Len(t, periods, 2)
	require.Equal(t, "2025-1", periods[0]["period"])
	require.Equal(t, "2025-2", periods[1]["period"])
}

func TestCreateAreaDuplicateCode(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, superEmail)

	rec := f.do(t, http.MethodPost, server.RouteAreas, access, map[string]string{
		"name": "Taquillas bis", "code": "TAQ",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestChangePassword(t *testing.T) {
	f := setupServerFixture(t)
	access, _ := f.login(t, areaEmail)

	rec := f.do(t, http.MethodPost, server.RouteChangePassword, access, map[string]string{
		"current_password": "wrong",
		"new_password":     "N3w-password",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, server.RouteChangePassword, access, map[string]string{
		"current_password": testPassword,
		"new_password":     "N3w-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, server.RouteLogin, "", map[string]string{
		"email": areaEmail, "password": "N3w-password",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}
