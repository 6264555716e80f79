package token_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ledgerhub/internal/app/system/token"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewManager_Validation(t *testing.T) {
	if _, err := token.NewManager("short", time.Hour, "ledgerhub"); err == nil {
		t.Error("expected error for short secret")
	}
	if _, err := token.NewManager(testSecret, 0, "ledgerhub"); err == nil {
		t.Error("expected error for zero TTL")
	}
	if _, err := token.NewManager(testSecret, time.Hour, "ledgerhub"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIssueAndParse(t *testing.T) {
	mgr, err := token.NewManager(testSecret, time.Hour, "ledgerhub")
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	tok, err := mgr.Issue("a@x.com", "64f000000000000000000001")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Errorf("expected a compact JWT, got %q", tok)
	}

	claims, err := mgr.Parse(tok)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email: got %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Subject != "64f000000000000000000001" {
		t.Errorf("subject: got %q, want %q", claims.Subject, "64f000000000000000000001")
	}
	if claims.ID == "" {
		t.Error("expected a token id (jti)")
	}
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	mgr, _ := token.NewManager(testSecret, time.Hour, "ledgerhub")
	other, _ := token.NewManager("fedcba9876543210fedcba9876543210", time.Hour, "ledgerhub")

	tok, err := mgr.Issue("a@x.com", "id")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Parse(tok); !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParse_RejectsExpired(t *testing.T) {
	mgr, _ := token.NewManager(testSecret, time.Millisecond, "ledgerhub")

	tok, err := mgr.Issue("a@x.com", "id")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := mgr.Parse(tok); !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	mgr, _ := token.NewManager(testSecret, time.Hour, "ledgerhub")
	for _, in := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := mgr.Parse(in); !errors.Is(err, token.ErrInvalidToken) {
			t.Errorf("Parse(%q): expected ErrInvalidToken, got %v", in, err)
		}
	}
}
