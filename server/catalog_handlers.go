package server

import (
	"net/http"
	"strconv"

	"github.com/metrohr/leavehub/catalogs"
)

// catalogFilter builds the catalog listing filter from the query string,
// scoped to the caller's area for area admins.
func (s *Server) catalogFilter(r *http.Request) catalogs.ListFilter {
	user := userFromContext(r.Context())

	var requested *int64
	if raw := r.URL.Query().Get("area"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			requested = &id
		}
	}

	return catalogs.ListFilter{
		AreaID:     scopeAreaID(user, requested),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
}

func (s *Server) handleListVacationTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.repos.Catalogs.ListVacationTypes(r.Context(), s.catalogFilter(r))
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list vacation types")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateVacationType(w http.ResponseWriter, r *http.Request) {
	var t catalogs.VacationType
	if err := decodeJSON(r, &t); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t.Active = true
	created, err := s.repos.Catalogs.CreateVacationType(r.Context(), &t)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not create vacation type")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListEconomicDayTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.repos.Catalogs.ListEconomicDayTypes(r.Context(), s.catalogFilter(r))
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list economic day types")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateEconomicDayType(w http.ResponseWriter, r *http.Request) {
	var t catalogs.EconomicDayType
	if err := decodeJSON(r, &t); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if t.Category != catalogs.CategoryPaid && t.Category != catalogs.CategoryUnpaid {
		respondDetail(w, http.StatusBadRequest, "category must be paid or unpaid")
		return
	}
	t.Active = true
	created, err := s.repos.Catalogs.CreateEconomicDayType(r.Context(), &t)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not create economic day type")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListRequirements(w http.ResponseWriter, r *http.Request) {
	list, err := s.repos.Catalogs.ListRequirements(r.Context(), s.catalogFilter(r))
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list requirements")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req catalogs.Requirement
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Active = true
	created, err := s.repos.Catalogs.CreateRequirement(r.Context(), &req)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not create requirement")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListSigners(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var areaID int64
	if raw := r.URL.Query().Get("area"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondDetail(w, http.StatusBadRequest, "invalid area filter")
			return
		}
		areaID = parsed
	}
	if !user.IsSuperAdmin() {
		if user.AreaID == nil {
			respondDetail(w, http.StatusForbidden, "no area assigned")
			return
		}
		areaID = *user.AreaID
	}
	if areaID == 0 {
		respondDetail(w, http.StatusBadRequest, "area filter is required")
		return
	}

	list, err := s.repos.Catalogs.ListSigners(r.Context(), areaID)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list signers")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateSigner(w http.ResponseWriter, r *http.Request) {
	var signer catalogs.Signer
	if err := decodeJSON(r, &signer); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := userFromContext(r.Context())
	if !user.IsSuperAdmin() {
		if user.AreaID == nil {
			respondDetail(w, http.StatusForbidden, "no area assigned")
			return
		}
		signer.AreaID = *user.AreaID
	}
	signer.Active = true

	created, err := s.repos.Catalogs.CreateSigner(r.Context(), &signer)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not create signer")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}
