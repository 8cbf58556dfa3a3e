package identity

import (
	"testing"

	"github.com/BruksfildServices01/homebarber/internal/httperr"
)

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@B.Com "); got != "a@b.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("a@b.com"); err != nil {
		t.Errorf("a@b.com rejected: %v", err)
	}
	for _, bad := range []string{"", "nope", "Name <a@b.com>"} {
		if err := ValidateEmail(bad); !httperr.IsBusiness(err, "invalid_email") {
			t.Errorf("ValidateEmail(%q) = %v", bad, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !httperr.IsBusiness(err, "password_too_short") {
		t.Errorf("short password error = %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("6-char password rejected: %v", err)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw-secret")
	if err != nil {
		t.Fatal(err)
	}
	if err := CheckPassword(hash, "pw-secret"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !httperr.IsBusiness(err, "invalid_credentials") {
		t.Errorf("CheckPassword(wrong) = %v", err)
	}
}

func TestRole_Valid(t *testing.T) {
	if !RoleCustomer.Valid() || !RoleBarber.Valid() {
		t.Error("known roles reported invalid")
	}
	if Role("admin").Valid() {
		t.Error("admin reported valid")
	}
}
