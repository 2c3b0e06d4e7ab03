// Package gate decides, before any panel code runs, whether the current page
// may load at all. Public pages pass straight through; protected pages cost
// one identity round-trip; the admin page additionally requires the admin
// role. The decision is the only output; navigation is the caller's job.
package gate

import (
	"context"

	"relaydash/internal/session"
)

type Class int

const (
	Public Class = iota
	Protected
	Admin
)

// Unknown page ids classify as Public so they degrade to a no-op instead of
// bouncing the user to login.
var classes = map[string]Class{
	"landing":   Public,
	"login":     Public,
	"register":  Public,
	"pricing":   Public,
	"dashboard": Protected,
	"accounts":  Protected,
	"rules":     Protected,
	"joiner":    Protected,
	"autoreply": Protected,
	"smartsell": Protected,
	"validator": Protected,
	"extractor": Protected,
	"forwarder": Protected,
	"logs":      Protected,
	"admin":     Admin,
}

func Classify(pageID string) Class {
	return classes[pageID]
}

type Outcome int

const (
	// Allow means the page may initialize; Decision.Session is populated
	// for protected pages.
	Allow Outcome = iota
	// RedirectLogin means the identity check failed and nothing else may run.
	RedirectLogin
	// RedirectHome means the user is authenticated but lacks the admin role.
	RedirectHome
)

type Decision struct {
	Outcome Outcome
	Session session.Session
	// Notice is a user-facing message to show alongside a redirect.
	Notice string
}

// Identity is the slice of the API client the gate needs.
type Identity interface {
	Me(ctx context.Context) (session.User, error)
	Token() string
}

// Check runs the per-page authorization sequence. It never caches: every
// load of a protected page re-validates against the backend.
func Check(ctx context.Context, id Identity, pageID string) Decision {
	class := Classify(pageID)
	if class == Public {
		return Decision{Outcome: Allow}
	}

	user, err := id.Me(ctx)
	if err != nil {
		return Decision{Outcome: RedirectLogin}
	}

	s := session.FromToken(id.Token(), user)
	if class == Admin && !s.IsAdmin() {
		return Decision{
			Outcome: RedirectHome,
			Session: s,
			Notice:  "Access denied: administrator role required.",
		}
	}
	return Decision{Outcome: Allow, Session: s}
}
