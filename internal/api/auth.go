package api

import (
	"context"
	"net/url"

	"relaydash/internal/session"
)

// Login exchanges credentials at /api/token. The backend answers with the
// bearer token in the body and also sets it as an HTTP-only cookie, which
// lands in the client's jar; we keep both so the websocket handshake (query
// parameter, no cookie) works too.
func (c *Client) Login(ctx context.Context, username, password string) (session.Session, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		Role        string `json:"role"`
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := c.postForm(ctx, "/api/token", form, &resp); err != nil {
		return session.Session{}, err
	}

	s := session.FromToken(resp.AccessToken, session.User{Username: username, Role: resp.Role})
	c.SetToken(resp.AccessToken)
	return s, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}
	return c.sendJSON(ctx, "POST", "/api/register", body, nil)
}

// Me is the identity check the page gate runs before any panel loads.
func (c *Client) Me(ctx context.Context) (session.User, error) {
	var u session.User
	if err := c.getJSON(ctx, "/api/users/me", &u); err != nil {
		return session.User{}, err
	}
	return u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	err := c.sendJSON(ctx, "POST", "/api/logout", struct{}{}, nil)
	c.SetToken("")
	return err
}

// Plans is public; the pricing page renders it without a session.
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.getJSON(ctx, "/api/plans", &plans); err != nil {
		return nil, err
	}
	return plans, nil
}
