package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestService() *Service {
	cfg := DefaultConfig()
	cfg.JWTSecret = "test-secret"
	return NewService(cfg)
}

func TestIssueAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	subject, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if subject != "ops" {
		t.Errorf("subject = %q, want %q", subject, "ops")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := newTestService().IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	other := NewService(Config{JWTSecret: "different-secret", JWTIssuer: "buzzwatch", TokenTTL: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected error for token signed with a different secret")
	}
}

func TestValidateTokenWrongIssuer(t *testing.T) {
	issuer := NewService(Config{JWTSecret: "test-secret", JWTIssuer: "someone-else", TokenTTL: time.Hour})
	token, err := issuer.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := newTestService().ValidateToken(token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewService(Config{JWTSecret: "test-secret", JWTIssuer: "buzzwatch", TokenTTL: -time.Minute})
	token, err := svc.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	if _, err := newTestService().ValidateToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestRequireAuth(t *testing.T) {
	svc := newTestService()
	mw := NewMiddleware(svc)

	var gotSubject string
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Missing token.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d without token, want 401", rec.Code)
	}

	// Valid token.
	token, err := svc.IssueToken("ops")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d with valid token, want 200", rec.Code)
	}
	if gotSubject != "ops" {
		t.Errorf("subject = %q", gotSubject)
	}
}

func TestRequireAuthDisabled(t *testing.T) {
	mw := NewMiddleware(nil)

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d with auth disabled, want 200", rec.Code)
	}
}
