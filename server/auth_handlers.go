package server

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/metrohr/leavehub/auth"
	"github.com/metrohr/leavehub/token"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			respondDetail(w, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, auth.ErrAccountDisabled):
			respondDetail(w, http.StatusForbidden, "account is disabled")
		default:
			respondDetail(w, http.StatusInternalServerError, "could not log in")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (s *Server) handleTokenRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.Refresh == "" {
		respondDetail(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	access, err := s.auth.Refresh(r.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrRefreshNotFound), errors.Is(err, token.ErrRefreshExpired):
			respondDetail(w, http.StatusUnauthorized, "token is invalid or expired")
		case errors.Is(err, auth.ErrAccountDisabled):
			respondDetail(w, http.StatusForbidden, "account is disabled")
		default:
			respondDetail(w, http.StatusInternalServerError, "could not refresh token")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.auth.Logout(r.Context(), req.Refresh); err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not log out")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	respondJSON(w, http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := userFromContext(r.Context())
	if err := s.auth.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondDetail(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		respondDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "password updated"})
}

func (s *Server) handleUpdateAccess(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if err := s.repos.Users.TouchLastAccess(r.Context(), user.ID, time.Now()); err != nil {
		respondDetail(w, http.StatusInternalServerError, "could not update access time")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"detail": "access updated"})
}
