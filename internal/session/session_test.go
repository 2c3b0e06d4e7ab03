package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestFromTokenParsesClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	s := FromToken(signedToken(t, "maria", exp), User{Role: "user"})

	if s.User.Username != "maria" {
		t.Errorf("username = %q, want maria (from sub claim)", s.User.Username)
	}
	if !s.Expiry.Equal(exp) {
		t.Errorf("expiry = %v, want %v", s.Expiry, exp)
	}
	if !s.Valid() {
		t.Error("fresh session should be valid")
	}
	if s.IsAdmin() {
		t.Error("role user must not be admin")
	}
}

func TestFromTokenKeepsExplicitUsername(t *testing.T) {
	s := FromToken(signedToken(t, "ignored", time.Now().Add(time.Hour)), User{Username: "ana", Role: "admin"})
	if s.User.Username != "ana" {
		t.Errorf("username = %q, want ana", s.User.Username)
	}
	if !s.IsAdmin() {
		t.Error("admin role lost")
	}
}

func TestValid(t *testing.T) {
	if (Session{}).Valid() {
		t.Error("empty session must be invalid")
	}
	expired := FromToken(signedToken(t, "maria", time.Now().Add(-time.Minute)), User{})
	if expired.Valid() {
		t.Error("expired token must be invalid")
	}
	opaque := Session{Token: "not-a-jwt"}
	if !opaque.Valid() {
		t.Error("opaque token without claims is still offered to the server")
	}
}
