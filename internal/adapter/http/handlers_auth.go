package http

import (
	"log/slog"
	"net/http"

	"github.com/asteritime/asteritime/internal/domain/user"
)

// refreshRequest carries the raw refresh token. CLI clients hold the token
// themselves instead of relying on cookies.
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Register handles POST /api/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}
	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "registration failed")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}
	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		slog.Debug("login failed", "username", req.Username, "error", err)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh. Refresh tokens are single use;
// a successful call returns a new pair.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[refreshRequest](w, r)
	if !ok {
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}
	resp, err := h.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		slog.Debug("token refresh failed", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /api/auth/logout, revoking the refresh token.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[refreshRequest](w, r)
	if !ok {
		return
	}
	if err := h.Auth.Logout(r.Context(), req.RefreshToken); err != nil {
		writeDomainError(w, err, "unknown refresh token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
