package pages

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
)

// AdminPanel drives the admin page: the user table and plan management.
// Role enforcement happens at the gate and again on the backend; this
// controller just speaks the endpoints.
type AdminPanel struct {
	API      *api.Client
	Log      zerolog.Logger
	UserView ListView
	PlanView ListView
	Confirm  ConfirmFunc
}

func (p *AdminPanel) LoadUsers(ctx context.Context) {
	users, err := p.API.AdminUsers(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("load admin users")
		p.UserView.SetError("Could not load users: " + err.Error())
		return
	}
	if len(users) == 0 {
		p.UserView.SetPlaceholder("No registered users.")
		return
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Username, u.Role, u.PlanID, u.SubscriptionEnd})
	}
	p.UserView.SetRows(rows)
}

func (p *AdminPanel) LoadPlans(ctx context.Context) {
	plans, err := p.API.Plans(ctx)
	if err != nil {
		p.Log.Error().Err(err).Msg("load plans")
		p.PlanView.SetError("Could not load plans: " + err.Error())
		return
	}
	if len(plans) == 0 {
		p.PlanView.SetPlaceholder("No plans created yet.")
		return
	}
	rows := make([][]string, 0, len(plans))
	for _, plan := range plans {
		rows = append(rows, []string{
			plan.ID,
			plan.Name,
			strconv.FormatFloat(plan.Price, 'f', 2, 64),
			strconv.Itoa(plan.DurationDays),
		})
	}
	p.PlanView.SetRows(rows)
}

func (p *AdminPanel) CreatePlan(ctx context.Context, name, priceText, durationText string) {
	if name == "" || priceText == "" || durationText == "" {
		p.PlanView.SetError("Name, price and duration are required.")
		return
	}
	price, err := strconv.ParseFloat(priceText, 64)
	if err != nil || price < 0 {
		p.PlanView.SetError("Price must be a non-negative number.")
		return
	}
	days, err := strconv.Atoi(durationText)
	if err != nil || days <= 0 {
		p.PlanView.SetError("Duration must be a positive number of days.")
		return
	}
	plan := api.Plan{Name: name, Price: price, DurationDays: days}
	if err := p.API.AdminCreatePlan(ctx, plan); err != nil {
		p.Log.Error().Err(err).Msg("create plan")
		p.PlanView.SetError("Could not create plan: " + err.Error())
		return
	}
	p.LoadPlans(ctx)
}

func (p *AdminPanel) UpdatePlan(ctx context.Context, id string, plan api.Plan) {
	if id == "" || plan.Name == "" {
		p.PlanView.SetError("Plan id and name are required.")
		return
	}
	if err := p.API.AdminUpdatePlan(ctx, id, plan); err != nil {
		p.Log.Error().Err(err).Str("plan_id", id).Msg("update plan")
		p.PlanView.SetError("Could not update plan: " + err.Error())
		return
	}
	p.LoadPlans(ctx)
}

func (p *AdminPanel) DeletePlan(ctx context.Context, id string) {
	if !p.Confirm("Delete this plan?") {
		return
	}
	if err := p.API.AdminDeletePlan(ctx, id); err != nil {
		p.Log.Error().Err(err).Str("plan_id", id).Msg("delete plan")
		p.PlanView.SetError("Delete failed: " + err.Error())
		return
	}
	p.LoadPlans(ctx)
}

func (p *AdminPanel) GrantSubscription(ctx context.Context, username, planID string) {
	if username == "" || planID == "" {
		p.UserView.SetError("Pick a user and a plan.")
		return
	}
	if err := p.API.AdminGrantSubscription(ctx, username, planID); err != nil {
		p.Log.Error().Err(err).Str("username", username).Msg("grant subscription")
		p.UserView.SetError("Could not grant subscription: " + err.Error())
		return
	}
	p.LoadUsers(ctx)
}

func (p *AdminPanel) DeleteUser(ctx context.Context, username string) {
	if !p.Confirm("Delete user " + username + "?") {
		return
	}
	if err := p.API.AdminDeleteUser(ctx, username); err != nil {
		p.Log.Error().Err(err).Str("username", username).Msg("delete user")
		p.UserView.SetError("Delete failed: " + err.Error())
		return
	}
	p.LoadUsers(ctx)
}
