package authentication_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ledgerhub/internal/app/features/authentication"
	userstore "github.com/dalemusser/ledgerhub/internal/app/store/users"
	"github.com/dalemusser/ledgerhub/internal/app/system/auth"
	"github.com/dalemusser/ledgerhub/internal/app/system/throttle"
	"github.com/dalemusser/ledgerhub/internal/app/system/token"
	"github.com/dalemusser/ledgerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeUsers struct {
	byEmail map[string]*models.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, userstore.ErrNotFound
}

func newTestHandler(t *testing.T, users *fakeUsers) *authentication.Handler {
	t.Helper()
	tracker := throttle.New(5, 30*time.Minute)
	tokens, err := token.NewManager(testSecret, time.Hour, "ledgerhub")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	authenticator := auth.New(users, tracker, tokens, zap.NewNop())
	return authentication.NewHandler(authenticator, zap.NewNop())
}

func usersWith(t *testing.T, email, password string) *fakeUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return &fakeUsers{byEmail: map[string]*models.User{
		email: {
			ID:           primitive.NewObjectID(),
			Name:         "Test User",
			Email:        email,
			PasswordHash: string(hash),
		},
	}}
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestServeLogin_Success(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	rec := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"jane@example.com","password":"correct-horse"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		UserID string `json:"user_id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if strings.Count(resp.Token, ".") != 2 {
		t.Errorf("expected a compact JWT, got %q", resp.Token)
	}
	if resp.Email != "jane@example.com" || resp.Name != "Test User" || resp.UserID == "" {
		t.Errorf("unexpected login response: %+v", resp)
	}
}

func TestServeLogin_WrongPassword(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	rec := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"jane@example.com","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeLogin_UnknownEmailSameResponse(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	known := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"jane@example.com","password":"wrong"}`)
	unknown := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"nobody@example.com","password":"wrong"}`)

	if known.Code != unknown.Code {
		t.Errorf("status differs: known %d, unknown %d", known.Code, unknown.Code)
	}
	if known.Body.String() != unknown.Body.String() {
		t.Errorf("body differs: known %q, unknown %q", known.Body.String(), unknown.Body.String())
	}
}

func TestServeLogin_RateLimited(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	for i := 0; i < 5; i++ {
		rec := postJSON(t, h.ServeLogin, "/auth/login",
			`{"email":"jane@example.com","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want %d", i+1, rec.Code, http.StatusUnauthorized)
		}
	}

	rec := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"jane@example.com","password":"correct-horse"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestServeLogin_BadRequests(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	for _, body := range []string{
		`not json`,
		`{}`,
		`{"email":"jane@example.com"}`,
		`{"password":"correct-horse"}`,
	} {
		rec := postJSON(t, h.ServeLogin, "/auth/login", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: got %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestServeLogout(t *testing.T) {
	h := newTestHandler(t, usersWith(t, "jane@example.com", "correct-horse"))

	login := postJSON(t, h.ServeLogin, "/auth/login",
		`{"email":"jane@example.com","password":"correct-horse"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("login failed: %d", login.Code)
	}

	rec := postJSON(t, h.ServeLogout, "/auth/logout", `{"email":"jane@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp struct {
		LoggedOut bool `json:"logged_out"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.LoggedOut {
		t.Error("expected logged_out=true after login")
	}

	// Second logout is still 200 but reports no session.
	rec = postJSON(t, h.ServeLogout, "/auth/logout", `{"email":"jane@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.LoggedOut {
		t.Error("expected logged_out=false on second logout")
	}
}
