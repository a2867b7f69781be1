package server

import (
	"net/http"
	"time"

	"github.com/metrohr/leavehub/employees"
	"github.com/metrohr/leavehub/requests"
)

// dashboardStats are the aggregate counters shown on the dashboards.
type dashboardStats struct {
	TotalEmployees   int `json:"total_employees"`
	ActiveEmployees  int `json:"active_employees"`
	TotalAreas       int `json:"total_areas"`
	PendingRequests  int `json:"pending_requests"`
	ApprovedRequests int `json:"approved_requests"`
	RequestsToday    int `json:"requests_today"`
}

// handleDashboardStats returns the counters scoped to the caller's area;
// superadmins see agency-wide numbers.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	areaID := scopeAreaID(user, nil)

	var stats dashboardStats

	emps, err := s.repos.Employees.List(r.Context(), employees.ListFilter{AreaID: areaID})
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	stats.TotalEmployees = len(emps)
	for _, e := range emps {
		if e.Active {
			stats.ActiveEmployees++
		}
	}

	areaList, err := s.repos.Areas.List(r.Context(), false)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	if areaID != nil {
		stats.TotalAreas = 1
	} else {
		stats.TotalAreas = len(areaList)
	}

	reqs, err := s.repos.Requests.List(r.Context(), requests.ListFilter{AreaID: areaID})
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not compute stats")
		return
	}
	today := time.Now().Format("2006-01-02")
	for _, req := range reqs {
		switch req.Status {
		case requests.StatusPending:
			stats.PendingRequests++
		case requests.StatusApproved:
			stats.ApprovedRequests++
		}
		if req.CreatedAt.Format("2006-01-02") == today {
			stats.RequestsToday++
		}
	}

	respondJSON(w, http.StatusOK, &stats)
}
