package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIssueAndVerify(t *testing.T) {
	v, err := NewVerifier(Options{Enabled: true, Secret: "s3cret", Issuer: "chat-api", Audience: "clients"})
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	token, err := v.Issue("user-1", "chat")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "user-1" || claims.Scope != "chat" {
		t.Errorf("unexpected claims %+v", claims)
	}

	other, _ := NewVerifier(Options{Enabled: true, Secret: "different", Issuer: "chat-api", Audience: "clients"})
	if _, err := other.Verify(token); err == nil {
		t.Error("expected signature mismatch")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	v, _ := NewVerifier(Options{Enabled: true, Secret: "s3cret", TTL: -time.Minute})
	token, err := v.Issue("user-1", "")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := v.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(Options{Enabled: true}); err == nil {
		t.Error("expected missing secret to be rejected")
	}
	if _, err := NewVerifier(Options{}); err != nil {
		t.Errorf("disabled verifier needs no secret: %v", err)
	}
}

func TestGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, _ := NewVerifier(Options{Enabled: true, Secret: "s3cret"})
	token, _ := v.Issue("user-1", "")

	r := gin.New()
	r.GET("/private", v.Guard(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeySubject))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, w.Code)
			}
			if tc.status == http.StatusOK && w.Body.String() != "user-1" {
				t.Errorf("expected subject in context, got %q", w.Body.String())
			}
		})
	}
}

func TestGuardDisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, _ := NewVerifier(Options{})
	r := gin.New()
	r.GET("/open", v.Guard(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("expected pass-through, got %d", w.Code)
	}
}
