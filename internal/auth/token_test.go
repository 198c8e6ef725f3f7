package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueParse(t *testing.T) {
	iss, err := NewIssuer("s3cret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	tok, err := iss.Issue("ops@example.com", RoleAnalyst)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := iss.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "ops@example.com" || claims.Role != RoleAnalyst {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseRejects(t *testing.T) {
	iss, _ := NewIssuer("s3cret", time.Minute)
	other, _ := NewIssuer("different", time.Minute)

	tok, _ := other.Issue("x", RoleAdmin)
	if _, err := iss.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign signature err = %v", err)
	}
	if _, err := iss.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v", err)
	}

	past := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return past }
	old, _ := iss.Issue("x", RoleAnalyst)
	iss.now = time.Now
	if _, err := iss.Parse(old); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired err = %v", err)
	}
}

func TestNewIssuerEmptySecret(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestHasRole(t *testing.T) {
	cases := []struct {
		role  string
		want  []string
		allow bool
	}{
		{RoleAnalyst, []string{RoleAnalyst}, true},
		{RoleViewer, []string{RoleAnalyst}, false},
		{RoleAdmin, []string{RoleAnalyst}, true},
		{"", []string{RoleViewer}, false},
	}
	for _, c := range cases {
		claims := &Claims{Role: c.role}
		if got := claims.HasRole(c.want...); got != c.allow {
			t.Errorf("HasRole(%q, %v) = %v, want %v", c.role, c.want, got, c.allow)
		}
	}
}
