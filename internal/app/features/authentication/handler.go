// internal/app/features/authentication/handler.go
package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/ledgerhub/internal/app/system/auth"
	"github.com/dalemusser/ledgerhub/internal/app/system/respond"
	"github.com/dalemusser/ledgerhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type Handler struct {
	Auth *auth.Authenticator
	Log  *zap.Logger
}

func NewHandler(authenticator *auth.Authenticator, logger *zap.Logger) *Handler {
	return &Handler{
		Auth: authenticator,
		Log:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// ServeLogin handles POST /auth/login.
//
// 200 with a session token on success, 401 for bad credentials, 403
// while the identity is in its failed-login cooldown. The 401 body is
// the same for unknown emails and wrong passwords.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Auth.Authenticate(ctx, req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		respond.Error(w, http.StatusForbidden, "too many failed login attempts; try again later")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	case err != nil:
		h.Log.Error("login failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{
		UserID: sess.User.ID.Hex(),
		Name:   sess.User.Name,
		Email:  sess.User.Email,
		Token:  sess.Token,
	})
}

type logoutRequest struct {
	Email string `json:"email"`
}

// ServeLogout handles POST /auth/logout. Logging out an identity with
// no active session is not an error; the response reports whether a
// session was ended.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		respond.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	ended := h.Auth.Logout(req.Email)
	respond.JSON(w, http.StatusOK, map[string]bool{"logged_out": ended})
}
