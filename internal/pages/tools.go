package pages

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
)

// ValidatorPanel checks a single invite link.
type ValidatorPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View StatusView
}

func (p *ValidatorPanel) Validate(ctx context.Context, link string) {
	if link == "" {
		p.View.SetError("Enter a link to validate.")
		return
	}
	res, err := p.API.ValidateLink(ctx, link)
	if err != nil {
		p.Log.Error().Err(err).Str("link", link).Msg("validate link")
		p.View.SetError("Validation request failed: " + err.Error())
		return
	}
	if res.Status != "success" {
		p.View.SetError(res.Result)
		return
	}
	p.View.SetStatus(res.Result)
}

// ExtractorPanel scrapes usernames/links/phones out of a channel.
type ExtractorPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View ListView
}

func (p *ExtractorPanel) Extract(ctx context.Context, phone, channelLink, extractType, limitText string) {
	if phone == "" || channelLink == "" || extractType == "" {
		p.View.SetError("Account, channel link and extraction type are required.")
		return
	}
	limit := 100
	if limitText != "" {
		n, err := strconv.Atoi(limitText)
		if err != nil || n <= 0 {
			p.View.SetError("Limit must be a positive number.")
			return
		}
		limit = n
	}

	res, err := p.API.Extract(ctx, api.ExtractionRequest{
		AccountPhone: phone,
		ChannelLink:  channelLink,
		ExtractType:  extractType,
		Limit:        limit,
	})
	if err != nil {
		p.Log.Error().Err(err).Msg("extract")
		p.View.SetError("Extraction request failed: " + err.Error())
		return
	}
	if res.Status != "success" {
		p.View.SetError(res.Detail)
		return
	}
	if len(res.Data) == 0 {
		p.View.SetPlaceholder("No matches found.")
		return
	}
	rows := make([][]string, 0, len(res.Data))
	for _, item := range res.Data {
		rows = append(rows, []string{item})
	}
	p.View.SetRows(rows)
}

// ForwarderPanel launches a one-shot forwarding job.
type ForwarderPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View StatusView
}

func (p *ForwarderPanel) Start(ctx context.Context, phone, messageLink, delayText, cycleDelayText, targetsText string, hideSender bool) {
	targets := splitLines(targetsText)
	if phone == "" || messageLink == "" || len(targets) == 0 {
		p.View.SetError("Account, message link and at least one target are required.")
		return
	}
	delay, err := atoiDefault(delayText, 0)
	if err != nil {
		p.View.SetError("Delay must be a number of seconds.")
		return
	}
	cycleDelay, err := atoiDefault(cycleDelayText, 5)
	if err != nil {
		p.View.SetError("Cycle delay must be a number of seconds.")
		return
	}

	res, err := p.API.StartForwarding(ctx, api.ForwardingJob{
		AccountPhone: phone,
		MessageLink:  messageLink,
		Delay:        delay,
		CycleDelay:   cycleDelay,
		Targets:      targets,
		HideSender:   hideSender,
	})
	if err != nil {
		p.Log.Error().Err(err).Msg("start forwarding")
		p.View.SetError("Could not start forwarding: " + err.Error())
		return
	}
	if res.Status != "success" {
		p.View.SetError(res.Message)
		return
	}
	p.View.SetStatus(res.Message)
}

// PlansPanel renders the public pricing table.
type PlansPanel struct {
	API  *api.Client
	Log  zerolog.Logger
	View ListView
}

func (p *PlansPanel) Load(ctx context.Context) {
	plans, err := p.API.Plans(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("load plans")
		p.View.SetError("Could not load pricing plans: " + err.Error())
		return
	}
	if len(plans) == 0 {
		p.View.SetPlaceholder("No plans published yet.")
		return
	}
	rows := make([][]string, 0, len(plans))
	for _, plan := range plans {
		rows = append(rows, []string{
			plan.Name,
			strconv.FormatFloat(plan.Price, 'f', 2, 64),
			strconv.Itoa(plan.DurationDays) + " days",
		})
	}
	p.View.SetRows(rows)
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
