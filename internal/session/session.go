// Package session holds the identity captured at login. A Session is an
// explicit value handed to whoever needs it; nothing in this module keeps
// identity in package-level state.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type Session struct {
	// Token is the bearer credential returned by the login endpoint. It is
	// held in memory only; the backend also sets it as an HTTP-only cookie
	// that the client's jar carries on every request.
	Token  string
	User   User
	Expiry time.Time
}

// FromToken builds a Session around a freshly issued token. The token is
// parsed without signature verification purely to surface its expiry; the
// backend remains the only authority on whether it is actually valid.
func FromToken(token string, user User) Session {
	s := Session{Token: token, User: user}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.Expiry = exp.Time
		}
		if s.User.Username == "" {
			if sub, err := claims.GetSubject(); err == nil {
				s.User.Username = sub
			}
		}
	}

	return s
}

func (s Session) IsAdmin() bool {
	return s.User.Role == RoleAdmin
}

// Valid reports whether the session can back a bearer handshake at all.
// The expiry check is best-effort: a token without parseable claims is
// still offered to the server, which will reject it if stale.
func (s Session) Valid() bool {
	if s.Token == "" {
		return false
	}
	if !s.Expiry.IsZero() && time.Now().After(s.Expiry) {
		return false
	}
	return true
}
