package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/homebarber/internal/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	tok, err := issuer.Issue(models.User{ID: "u-1", Role: string(RoleBarber)}, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := issuer.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != RoleBarber {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := models.User{ID: "u-1", Role: string(RoleCustomer)}

	expired, _ := issuer.Issue(u, time.Now().Add(-2*time.Hour))
	foreign, _ := NewTokenIssuer("other", time.Hour).Issue(u, time.Now())

	for name, tok := range map[string]string{
		"expired": expired,
		"foreign": foreign,
		"garbage": "not.a.jwt",
	} {
		if _, err := issuer.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}
