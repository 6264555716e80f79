// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/ledgerhub/internal/app/store/users"
	"github.com/dalemusser/ledgerhub/internal/app/system/credentials"
	"github.com/dalemusser/ledgerhub/internal/app/system/paging"
	"github.com/dalemusser/ledgerhub/internal/app/system/respond"
	"github.com/dalemusser/ledgerhub/internal/app/system/timeouts"
	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Users: users,
		Log:   logger,
	}
}

// userResponse is the public shape of a user. The password hash and the
// transaction history never appear here.
type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// listResponse wraps a page of users in the pagination envelope.
type listResponse struct {
	paging.Meta
	Data []userResponse `json:"data"`
}

// ServeList handles GET /users with page, page_size, sort, and search
// query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.ParsePage(r)
	pageSize := paging.ParsePageSize(r)
	sortField, sortAsc := paging.ParseSort(r, "email", "name", "created_at")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, total, err := h.Users.List(ctx, userstore.ListParams{
		Search:   query.Get(r, "search"),
		Sort:     sortField,
		SortAsc:  sortAsc,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	data := make([]userResponse, 0, len(users))
	for i := range users {
		data = append(data, toResponse(&users[i]))
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Meta: paging.BuildMeta(page, pageSize, len(data), total),
		Data: data,
	})
}

type createRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ServeCreate handles POST /users.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProfile(req.Name, req.Email); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validatePassword(req.Password, req.PasswordConfirm); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Users.Create(ctx, req.Name, req.Email, hash)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, http.StatusConflict, "a user with this email already exists")
		return
	case err != nil:
		h.Log.Error("create user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(&created))
}

// ServeGet handles GET /users/{userID}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.Log.Error("get user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(user))
}

type updateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ServeUpdate handles PUT /users/{userID}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProfile(req.Name, req.Email); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	taken, err := h.Users.EmailExistsForOther(ctx, req.Email, id)
	if err != nil {
		h.Log.Error("email check failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if taken {
		respond.Error(w, http.StatusConflict, "a user with this email already exists")
		return
	}

	err = h.Users.Update(ctx, id, req.Name, req.Email)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, userstore.ErrDuplicateEmail):
		respond.Error(w, http.StatusConflict, "a user with this email already exists")
		return
	case err != nil:
		h.Log.Error("update user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.Log.Error("reload user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, toResponse(user))
}

// ServeDelete handles DELETE /users/{userID}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.Delete(ctx, id)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.Log.Error("delete user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// ServeChangePassword handles PUT /users/{userID}/password. The caller
// must present the current password before the hash is replaced.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OldPassword == "" {
		respond.Error(w, http.StatusBadRequest, "old_password is required")
		return
	}
	if msg := validatePassword(req.Password, req.PasswordConfirm); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.Log.Error("load user failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !credentials.Verify(req.OldPassword, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	err = h.Users.ChangePassword(ctx, id, hash)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.Log.Error("change password failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func parseID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func validateProfile(name, email string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "email is required"
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return "email is invalid"
	}
	return ""
}

func validatePassword(password, confirm string) string {
	if len(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	if password != confirm {
		return "passwords do not match"
	}
	return ""
}
