package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
)

// AccountsPanel lists connected accounts and deletes them by phone.
type AccountsPanel struct {
	API     *api.Client
	Log     zerolog.Logger
	View    ListView
	Confirm ConfirmFunc
}

func (p *AccountsPanel) Load(ctx context.Context) {
	accounts, err := p.API.Accounts(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("load accounts")
		p.View.SetError("Could not load accounts: " + err.Error())
		return
	}
	if len(accounts) == 0 {
		p.View.SetPlaceholder("No accounts added yet.")
		return
	}
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.Phone, a.Status, a.AddedOn})
	}
	p.View.SetRows(rows)
}

func (p *AccountsPanel) Delete(ctx context.Context, phone string) {
	if !p.Confirm("Delete account " + phone + "?") {
		return
	}
	if err := p.API.DeleteAccount(ctx, phone); err != nil {
		p.Log.Error().Err(err).Str("phone", phone).Msg("delete account")
		p.View.SetError("Delete failed: " + err.Error())
		return
	}
	p.Load(ctx)
}

// RulesPanel lists forwarding rules and creates/deletes them.
type RulesPanel struct {
	API     *api.Client
	Log     zerolog.Logger
	View    ListView
	Confirm ConfirmFunc
}

func (p *RulesPanel) Load(ctx context.Context) {
	rules, err := p.API.ForwardingRules(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("load rules")
		p.View.SetError("Could not load forwarding rules: " + err.Error())
		return
	}
	if len(rules) == 0 {
		p.View.SetPlaceholder("No forwarding rules configured.")
		return
	}
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.ID, r.AccountPhone, r.SourceChat, r.DestinationChat, r.Filters, r.Status})
	}
	p.View.SetRows(rows)
}

// Create validates the required fields, posts the rule, and re-fetches the
// list on success. Validation failures never reach the network.
func (p *RulesPanel) Create(ctx context.Context, rule api.ForwardingRule) {
	if rule.AccountPhone == "" || rule.SourceChat == "" || rule.DestinationChat == "" {
		p.View.SetError("Account, source chat and destination chat are required.")
		return
	}
	if err := p.API.CreateForwardingRule(ctx, rule); err != nil {
		p.Log.Error().Err(err).Msg("create rule")
		p.View.SetError("Could not save rule: " + err.Error())
		return
	}
	p.Load(ctx)
}

func (p *RulesPanel) Delete(ctx context.Context, id string) {
	if !p.Confirm("Delete this forwarding rule?") {
		return
	}
	if err := p.API.DeleteForwardingRule(ctx, id); err != nil {
		p.Log.Error().Err(err).Str("rule_id", id).Msg("delete rule")
		p.View.SetError("Delete failed: " + err.Error())
		return
	}
	p.Load(ctx)
}

// JoinerPanel submits a batch of group links for one account and renders the
// per-link outcome.
type JoinerPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View ListView
}

func (p *JoinerPanel) Join(ctx context.Context, phone, linksText string) {
	links := splitLines(linksText)
	if phone == "" || len(links) == 0 {
		p.View.SetError("Select an account and enter at least one group link.")
		return
	}
	results, err := p.API.JoinGroups(ctx, phone, links)
	if err != nil {
		p.Log.Error().Err(err).Msg("join groups")
		p.View.SetError("Join request failed: " + err.Error())
		return
	}
	if len(results) == 0 {
		p.View.SetPlaceholder("No links processed.")
		return
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Link, r.Status, r.Reason})
	}
	p.View.SetRows(rows)
}

// AutoReplyPanel edits one account's auto-reply record wholesale.
type AutoReplyPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View FormView
}

func (p *AutoReplyPanel) Load(ctx context.Context, phone string) {
	if phone == "" {
		p.View.SetError("Select an account first.")
		return
	}
	s, err := p.API.AutoReplySettings(ctx, phone)
	if err != nil {
		p.Log.Error().Err(err).Str("phone", phone).Msg("load auto-reply settings")
		p.View.SetError("Could not load settings: " + err.Error())
		return
	}
	p.View.SetFields(map[string]string{
		"message":  s.Message,
		"keywords": s.Keywords,
	})
}

func (p *AutoReplyPanel) Save(ctx context.Context, s api.AutoReplySettings) {
	if s.AccountPhone == "" || s.Message == "" {
		p.View.SetError("Account and reply message are required.")
		return
	}
	if err := p.API.SaveAutoReplySettings(ctx, s); err != nil {
		p.Log.Error().Err(err).Msg("save auto-reply settings")
		p.View.SetError("Could not save settings: " + err.Error())
		return
	}
	p.View.Notify("Auto-reply settings saved.")
	p.Load(ctx, s.AccountPhone)
}

// SmartSellingPanel mirrors AutoReplyPanel for the smart-selling record.
type SmartSellingPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View FormView
}

func (p *SmartSellingPanel) Load(ctx context.Context, phone string) {
	if phone == "" {
		p.View.SetError("Select an account first.")
		return
	}
	s, err := p.API.SmartSellingSettings(ctx, phone)
	if err != nil {
		p.Log.Error().Err(err).Str("phone", phone).Msg("load smart-selling settings")
		p.View.SetError("Could not load settings: " + err.Error())
		return
	}
	p.View.SetFields(map[string]string{
		"enabled":       fmt.Sprintf("%t", s.Enabled),
		"must_contain":  s.MustContain,
		"maybe_contain": s.MaybeContain,
		"message":       s.Message,
	})
}

func (p *SmartSellingPanel) Save(ctx context.Context, s api.SmartSellingSettings) {
	if s.AccountPhone == "" || s.Message == "" {
		p.View.SetError("Account and message are required.")
		return
	}
	if err := p.API.SaveSmartSellingSettings(ctx, s); err != nil {
		p.Log.Error().Err(err).Msg("save smart-selling settings")
		p.View.SetError("Could not save configuration: " + err.Error())
		return
	}
	p.View.Notify("Smart-selling configuration saved.")
	p.Load(ctx, s.AccountPhone)
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}
