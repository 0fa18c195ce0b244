package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/service/auth"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	if err := h.authService.Register(ctx, req); err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusConflict, "User already exists")
		default:
			h.logger.Error().Err(err).Msg("Registration failed")
			writeError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "User registered successfully",
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	resp, err := h.authService.Login(ctx, req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	writeSuccess(w, resp)
}
