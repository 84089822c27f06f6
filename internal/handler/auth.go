package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"socialfeed/internal/authstate"
	"socialfeed/internal/httputil"
	"socialfeed/internal/model"
)

// AuthHandler exposes the auth-state actions and the state snapshot.
type AuthHandler struct {
	store *authstate.Store
}

func NewAuthHandler(store *authstate.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		httputil.WriteBadRequest(w, "Email is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httputil.WriteBadRequest(w, "Name is required")
		return
	}

	if err := h.store.Signup(r.Context(), req.Email, req.Password, req.Name); err != nil {
		if errors.Is(err, model.ErrEmailExists) {
			httputil.WriteConflict(w, "Email already registered")
			return
		}
		httputil.WriteBadRequest(w, authMessage(err))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, h.store.State())
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if req.Email == "" {
		httputil.WriteBadRequest(w, "Email is required")
		return
	}
	if req.Password == "" {
		httputil.WriteBadRequest(w, "Password is required")
		return
	}

	if err := h.store.Login(r.Context(), req.Email, req.Password); err != nil {
		httputil.WriteUnauthorized(w, authMessage(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.store.State())
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Logout(r.Context()); err != nil {
		httputil.WriteInternalError(w, authMessage(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Session handles GET /session, returning the auth state snapshot.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.store.State())
}

// authMessage pulls the provider's message out of an auth failure.
func authMessage(err error) string {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message()
	}
	return err.Error()
}
