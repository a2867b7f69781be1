package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/areas"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	list, err := s.repos.Areas.List(r.Context(), activeOnly)
	if err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not list areas")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid area id")
		return
	}
	area, err := s.repos.Areas.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, areas.ErrNotFound) {
			respondDetail(w, http.StatusNotFound, "area not found")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not fetch area")
		return
	}
	respondJSON(w, http.StatusOK, area)
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var area areas.Area
	if err := decodeJSON(r, &area); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := area.Validate(); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	area.Active = true

	created, err := s.repos.Areas.Create(r.Context(), &area)
	if err != nil {
		if errors.Is(err, areas.ErrDuplicateCode) {
			respondDetail(w, http.StatusConflict, "area code already in use")
			return
		}
		respondDetail(w, http.StatusInternalServerError, "could not create area")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid area id")
		return
	}

	var area areas.Area
	if err := decodeJSON(r, &area); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	area.ID = id
	if err := area.Validate(); err != nil {
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.repos.Areas.Update(r.Context(), &area); err != nil {
		switch {
		case errors.Is(err, areas.ErrNotFound):
			respondDetail(w, http.StatusNotFound, "area not found")
		case errors.Is(err, areas.ErrDuplicateCode):
			respondDetail(w, http.StatusConflict, "area code already in use")
		default:
			respondDetail(w, http.StatusInternalServerError, "could not update area")
		}
		return
	}
	respondJSON(w, http.StatusOK, &area)
}
