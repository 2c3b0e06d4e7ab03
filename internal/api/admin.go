package api

import (
	"context"
	"net/http"
	"net/url"
)

// Admin surface. The backend enforces the role; these methods just speak
// the endpoints.

func (c *Client) AdminUsers(ctx context.Context) ([]AdminUser, error) {
	var users []AdminUser
	if err := c.getJSON(ctx, "/api/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminDeleteUser(ctx context.Context, username string) error {
	return c.deleteJSON(ctx, "/api/admin/users/"+url.PathEscape(username), nil)
}

func (c *Client) AdminGrantSubscription(ctx context.Context, username, planID string) error {
	path := "/api/admin/users/" + url.PathEscape(username) + "/subscription"
	return c.sendJSON(ctx, http.MethodPut, path, Subscription{PlanID: planID}, nil)
}

func (c *Client) AdminCreatePlan(ctx context.Context, plan Plan) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/admin/plans", plan, nil)
}

func (c *Client) AdminUpdatePlan(ctx context.Context, id string, plan Plan) error {
	return c.sendJSON(ctx, http.MethodPut, "/api/admin/plans/"+url.PathEscape(id), plan, nil)
}

func (c *Client) AdminDeletePlan(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "/api/admin/plans/"+url.PathEscape(id), nil)
}
