package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.getJSON(ctx, "/api/accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) DeleteAccount(ctx context.Context, phone string) error {
	return c.deleteJSON(ctx, "/api/accounts/"+url.PathEscape(phone), nil)
}

func (c *Client) ForwardingRules(ctx context.Context) ([]ForwardingRule, error) {
	var rules []ForwardingRule
	if err := c.getJSON(ctx, "/api/rules/forwarding", &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *Client) CreateForwardingRule(ctx context.Context, rule ForwardingRule) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/rules/forwarding", rule, nil)
}

func (c *Client) DeleteForwardingRule(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "/api/rules/forwarding/"+url.PathEscape(id), nil)
}

func (c *Client) JoinGroups(ctx context.Context, phone string, links []string) ([]JoinResult, error) {
	body := struct {
		AccountPhone string   `json:"account_phone"`
		GroupLinks   []string `json:"group_links"`
	}{phone, links}
	var resp struct {
		Status  string       `json:"status"`
		Results []JoinResult `json:"results"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/joiner/join_groups", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) AutoReplySettings(ctx context.Context, phone string) (AutoReplySettings, error) {
	var s AutoReplySettings
	if err := c.getJSON(ctx, "/api/settings/auto_reply/"+url.PathEscape(phone), &s); err != nil {
		return AutoReplySettings{}, err
	}
	s.AccountPhone = phone
	return s, nil
}

func (c *Client) SaveAutoReplySettings(ctx context.Context, s AutoReplySettings) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/settings/auto_reply", s, nil)
}

func (c *Client) SmartSellingSettings(ctx context.Context, phone string) (SmartSellingSettings, error) {
	var s SmartSellingSettings
	if err := c.getJSON(ctx, "/api/settings/smart_selling/"+url.PathEscape(phone), &s); err != nil {
		return SmartSellingSettings{}, err
	}
	s.AccountPhone = phone
	return s, nil
}

func (c *Client) SaveSmartSellingSettings(ctx context.Context, s SmartSellingSettings) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/settings/smart_selling", s, nil)
}

func (c *Client) ValidateLink(ctx context.Context, link string) (ValidationResult, error) {
	body := struct {
		Link string `json:"link"`
	}{link}
	var res ValidationResult
	if err := c.sendJSON(ctx, http.MethodPost, "/api/validator/validate_link", body, &res); err != nil {
		return ValidationResult{}, err
	}
	return res, nil
}

func (c *Client) Extract(ctx context.Context, req ExtractionRequest) (ExtractionResult, error) {
	var res ExtractionResult
	if err := c.sendJSON(ctx, http.MethodPost, "/api/extractor/extract", req, &res); err != nil {
		return ExtractionResult{}, err
	}
	return res, nil
}

func (c *Client) StartForwarding(ctx context.Context, job ForwardingJob) (JobResult, error) {
	var res JobResult
	if err := c.sendJSON(ctx, http.MethodPost, "/api/forwarder/start_forwarding", job, &res); err != nil {
		return JobResult{}, err
	}
	return res, nil
}
