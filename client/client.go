// Package client is the typed HTTP client for the leavehub API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/metrohr/leavehub/areas"
	"github.com/metrohr/leavehub/catalogs"
	"github.com/metrohr/leavehub/employees"
	"github.com/metrohr/leavehub/requests"
	"github.com/metrohr/leavehub/schedule"
	"github.com/metrohr/leavehub/users"
)

// Client is the leavehub API client. Authentication is handled by the
// supplied http.Client, typically one built around session.Transport.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. A nil httpClient falls back to a plain
// client with a request timeout and no authentication.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	var u users.User
	if err := c.get(ctx, "/auth/profile/", &u); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &u, nil
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, current, new string) error {
	body := map[string]string{"current_password": current, "new_password": new}
	if err := c.post(ctx, "/auth/change-password/", body, nil); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// UpdateAccess stamps the user's last access time.
func (c *Client) UpdateAccess(ctx context.Context) error {
	if err := c.post(ctx, "/auth/update-access/", nil, nil); err != nil {
		return fmt.Errorf("client.UpdateAccess: %w", err)
	}
	return nil
}

// --- Area methods ---

// ListAreas fetches all areas.
func (c *Client) ListAreas(ctx context.Context) ([]*areas.Area, error) {
	var list []*areas.Area
	if err := c.get(ctx, "/areas/", &list); err != nil {
		return nil, fmt.Errorf("client.ListAreas: %w", err)
	}
	return list, nil
}

// GetArea fetches a single area by ID.
func (c *Client) GetArea(ctx context.Context, id int64) (*areas.Area, error) {
	var a areas.Area
	if err := c.get(ctx, "/areas/"+formatID(id)+"/", &a); err != nil {
		return nil, fmt.Errorf("client.GetArea: %w", err)
	}
	return &a, nil
}

// CreateArea creates a new area.
func (c *Client) CreateArea(ctx context.Context, area *areas.Area) (*areas.Area, error) {
	var created areas.Area
	if err := c.post(ctx, "/areas/", area, &created); err != nil {
		return nil, fmt.Errorf("client.CreateArea: %w", err)
	}
	return &created, nil
}

// UpdateArea updates an existing area.
func (c *Client) UpdateArea(ctx context.Context, area *areas.Area) error {
	if err := c.doRequest(ctx, http.MethodPut, "/areas/"+formatID(area.ID)+"/", area, nil); err != nil {
		return fmt.Errorf("client.UpdateArea: %w", err)
	}
	return nil
}

// --- Employee methods ---

// ListEmployees fetches employees with optional area and search filters.
func (c *Client) ListEmployees(ctx context.Context, areaID *int64, search string) ([]*employees.Employee, error) {
	params := url.Values{}
	if areaID != nil {
		params.Set("area", formatID(*areaID))
	}
	if search != "" {
		params.Set("search", search)
	}
	path := "/empleados/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list []*employees.Employee
	if err := c.get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("client.ListEmployees: %w", err)
	}
	return list, nil
}

// GetEmployee fetches a single employee by ID.
func (c *Client) GetEmployee(ctx context.Context, id int64) (*employees.Employee, error) {
	var e employees.Employee
	if err := c.get(ctx, "/empleados/"+formatID(id)+"/", &e); err != nil {
		return nil, fmt.Errorf("client.GetEmployee: %w", err)
	}
	return &e, nil
}

// CreateEmployee creates a new employee.
func (c *Client) CreateEmployee(ctx context.Context, employee *employees.Employee) (*employees.Employee, error) {
	var created employees.Employee
	if err := c.post(ctx, "/empleados/", employee, &created); err != nil {
		return nil, fmt.Errorf("client.CreateEmployee: %w", err)
	}
	return &created, nil
}

// UpdateEmployee updates an existing employee.
func (c *Client) UpdateEmployee(ctx context.Context, employee *employees.Employee) error {
	if err := c.doRequest(ctx, http.MethodPut, "/empleados/"+formatID(employee.ID)+"/", employee, nil); err != nil {
		return fmt.Errorf("client.UpdateEmployee: %w", err)
	}
	return nil
}

// EmployeeBalances fetches an employee's vacation balances per period.
func (c *Client) EmployeeBalances(ctx context.Context, employeeID int64) ([]*requests.VacationBalance, error) {
	var list []*requests.VacationBalance
	if err := c.get(ctx, "/empleados/"+formatID(employeeID)+"/saldos/", &list); err != nil {
		return nil, fmt.Errorf("client.EmployeeBalances: %w", err)
	}
	return list, nil
}

// --- Catalog methods ---

// ListVacationTypes fetches the vacation type catalog.
func (c *Client) ListVacationTypes(ctx context.Context) ([]*catalogs.VacationType, error) {
	var list []*catalogs.VacationType
	if err := c.get(ctx, "/catalogos/tipos-vacacion/", &list); err != nil {
		return nil, fmt.Errorf("client.ListVacationTypes: %w", err)
	}
	return list, nil
}

// ListEconomicDayTypes fetches the economic day type catalog.
func (c *Client) ListEconomicDayTypes(ctx context.Context) ([]*catalogs.EconomicDayType, error) {
	var list []*catalogs.EconomicDayType
	if err := c.get(ctx, "/catalogos/tipos-dia-economico/", &list); err != nil {
		return nil, fmt.Errorf("client.ListEconomicDayTypes: %w", err)
	}
	return list, nil
}

// ListRequirements fetches the requirements catalog.
func (c *Client) ListRequirements(ctx context.Context) ([]*catalogs.Requirement, error) {
	var list []*catalogs.Requirement
	if err := c.get(ctx, "/catalogos/requisitos/", &list); err != nil {
		return nil, fmt.Errorf("client.ListRequirements: %w", err)
	}
	return list, nil
}

// ListSigners fetches the signers configured for an area.
func (c *Client) ListSigners(ctx context.Context, areaID int64) ([]*catalogs.Signer, error) {
	var list []*catalogs.Signer
	if err := c.get(ctx, "/catalogos/firmantes/?area="+formatID(areaID), &list); err != nil {
		return nil, fmt.Errorf("client.ListSigners: %w", err)
	}
	return list, nil
}

// --- Request methods ---

// ListRequests fetches leave requests with optional filters.
func (c *Client) ListRequests(ctx context.Context, filter requests.ListFilter) ([]*requests.LeaveRequest, error) {
	params := url.Values{}
	if filter.AreaID != nil {
		params.Set("area", formatID(*filter.AreaID))
	}
	if filter.EmployeeID != nil {
		params.Set("employee", formatID(*filter.EmployeeID))
	}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.Kind != "" {
		params.Set("kind", string(filter.Kind))
	}
	path := "/solicitudes/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var list []*requests.LeaveRequest
	if err := c.get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("client.ListRequests: %w", err)
	}
	return list, nil
}

// GetRequest fetches a single leave request by ID.
func (c *Client) GetRequest(ctx context.Context, id string) (*requests.LeaveRequest, error) {
	var r requests.LeaveRequest
	if err := c.get(ctx, "/solicitudes/"+url.PathEscape(id)+"/", &r); err != nil {
		return nil, fmt.Errorf("client.GetRequest: %w", err)
	}
	return &r, nil
}

// CreateRequest files a new leave request.
func (c *Client) CreateRequest(ctx context.Context, r *requests.LeaveRequest) (*requests.LeaveRequest, error) {
	var created requests.LeaveRequest
	if err := c.post(ctx, "/solicitudes/", r, &created); err != nil {
		return nil, fmt.Errorf("client.CreateRequest: %w", err)
	}
	return &created, nil
}

// UpdateRequestStatus moves a request to a new review state.
func (c *Client) UpdateRequestStatus(ctx context.Context, id string, status requests.Status) error {
	body := map[string]string{"status": string(status)}
	if err := c.doRequest(ctx, http.MethodPatch, "/solicitudes/"+url.PathEscape(id)+"/", body, nil); err != nil {
		return fmt.Errorf("client.UpdateRequestStatus: %w", err)
	}
	return nil
}

// ResumeDateRequest is the payload for the resume date calculation.
type ResumeDateRequest struct {
	StartDate    string `json:"start_date"` // YYYY-MM-DD
	BusinessDays int    `json:"business_days"`
}

// ResumeDateResponse is the calculated resuming date.
type ResumeDateResponse struct {
	ResumeDate string `json:"resume_date"` // YYYY-MM-DD
}

// CalculateResumeDate asks the server for the work-resuming date after a
// leave of the given length.
func (c *Client) CalculateResumeDate(ctx context.Context, startDate string, businessDays int) (string, error) {
	var resp ResumeDateResponse
	body := ResumeDateRequest{StartDate: startDate, BusinessDays: businessDays}
	if err := c.post(ctx, "/solicitudes/calcular-fecha-reanudacion/", body, &resp); err != nil {
		return "", fmt.Errorf("client.CalculateResumeDate: %w", err)
	}
	return resp.ResumeDate, nil
}

// EmployeePeriods fetches an employee's vacation periods for a year.
func (c *Client) EmployeePeriods(ctx context.Context, employeeID int64, year int) ([]schedule.Period, error) {
	var list []schedule.Period
	path := "/empleados/" + formatID(employeeID) + "/periodos/?year=" + strconv.Itoa(year)
	if err := c.get(ctx, path, &list); err != nil {
		return nil, fmt.Errorf("client.EmployeePeriods: %w", err)
	}
	return list, nil
}

// DashboardStats are the aggregate counters shown on the dashboards.
type DashboardStats struct {
	TotalEmployees   int `json:"total_employees"`
	ActiveEmployees  int `json:"active_employees"`
	TotalAreas       int `json:"total_areas"`
	PendingRequests  int `json:"pending_requests"`
	ApprovedRequests int `json:"approved_requests"`
	RequestsToday    int `json:"requests_today"`
}

// GetDashboardStats fetches the dashboard counters, scoped to the caller's
// area unless the caller is a superadmin.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, "/dashboard/stats/", &stats); err != nil {
		return nil, fmt.Errorf("client.GetDashboardStats: %w", err)
	}
	return &stats, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Detail: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Detail != "" {
		return &APIError{StatusCode: resp.StatusCode, Detail: apiErr.Detail}
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: string(respBody)}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}
