package pages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"relaydash/internal/api"
)

type fakeListView struct {
	rows        [][]string
	placeholder string
	errMsg      string
}

func (v *fakeListView) SetRows(rows [][]string)   { v.rows = rows; v.placeholder = ""; v.errMsg = "" }
func (v *fakeListView) SetPlaceholder(msg string) { v.placeholder = msg; v.rows = nil }
func (v *fakeListView) SetError(msg string)       { v.errMsg = msg }

type fakeStatusView struct {
	status string
	errMsg string
}

func (v *fakeStatusView) SetStatus(msg string) { v.status = msg; v.errMsg = "" }
func (v *fakeStatusView) SetError(msg string)  { v.errMsg = msg }

type fakeFormView struct {
	fields  map[string]string
	errMsg  string
	notices []string
}

func (v *fakeFormView) SetFields(fields map[string]string) { v.fields = fields }
func (v *fakeFormView) SetError(msg string)                { v.errMsg = msg }
func (v *fakeFormView) Notify(msg string)                  { v.notices = append(v.notices, msg) }

func testClient(t *testing.T, mux *http.ServeMux) *api.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, 5*time.Second, zerolog.Nop())
}

func alwaysConfirm(string) bool { return true }
func neverConfirm(string) bool  { return false }

func TestDispatchRunsExactlyOneInitializer(t *testing.T) {
	var ran []string
	reg := Registry{
		"accounts": func(context.Context) { ran = append(ran, "accounts") },
		"rules":    func(context.Context) { ran = append(ran, "rules") },
	}
	if !reg.Dispatch(context.Background(), "accounts") {
		t.Fatal("known page reported unknown")
	}
	if len(ran) != 1 || ran[0] != "accounts" {
		t.Errorf("ran = %v, want exactly [accounts]", ran)
	}
}

func TestDispatchUnknownPageIsNoOp(t *testing.T) {
	reg := Registry{"accounts": func(context.Context) { t.Fatal("initializer ran for unknown page") }}
	if reg.Dispatch(context.Background(), "bogus") {
		t.Error("unknown page reported as dispatched")
	}
}

func TestAccountsPanelEmptyRendersPlaceholder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Account{})
	})
	view := &fakeListView{}
	p := &AccountsPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view, Confirm: alwaysConfirm}

	p.Load(context.Background())

	if view.placeholder == "" {
		t.Error("empty collection must render a placeholder row")
	}
	if len(view.rows) != 0 {
		t.Errorf("placeholder state must carry no data rows, got %d", len(view.rows))
	}
}

func TestAccountsPanelErrorIsInline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/accounts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "boom"})
	})
	view := &fakeListView{}
	p := &AccountsPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view, Confirm: alwaysConfirm}

	p.Load(context.Background())

	if view.errMsg == "" {
		t.Error("request failure must surface an inline error")
	}
}

func TestAccountsPanelDeleteRefusedWithoutConfirmation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/accounts/{phone}", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("delete hit the network without confirmation")
	})
	p := &AccountsPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: &fakeListView{}, Confirm: neverConfirm}

	p.Delete(context.Background(), "+1555")
}

func TestRulesPanelCreateRefetchesList(t *testing.T) {
	var stored []api.ForwardingRule
	var listCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rules/forwarding", func(w http.ResponseWriter, r *http.Request) {
		var rule api.ForwardingRule
		json.NewDecoder(r.Body).Decode(&rule)
		rule.ID = "r1"
		rule.Status = "active"
		stored = append(stored, rule)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("GET /api/rules/forwarding", func(w http.ResponseWriter, r *http.Request) {
		listCalls++
		json.NewEncoder(w).Encode(stored)
	})
	view := &fakeListView{}
	p := &RulesPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view, Confirm: alwaysConfirm}

	p.Create(context.Background(), api.ForwardingRule{
		AccountPhone:    "+1555",
		SourceChat:      "-100111",
		DestinationChat: "-100222",
		Filters:         "sale",
	})

	if listCalls != 1 {
		t.Errorf("list fetched %d times after create, want 1", listCalls)
	}
	if len(view.rows) != 1 {
		t.Fatalf("rendered %d rows, want 1", len(view.rows))
	}
	row := view.rows[0]
	if row[2] != "-100111" || row[3] != "-100222" || row[4] != "sale" {
		t.Errorf("rendered row = %v, want submitted values", row)
	}
}

func TestRulesPanelCreateValidatesBeforeNetwork(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("validation failure must not reach the network, got %s %s", r.Method, r.URL.Path)
	})
	view := &fakeListView{}
	p := &RulesPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view, Confirm: alwaysConfirm}

	p.Create(context.Background(), api.ForwardingRule{AccountPhone: "+1555"})

	if view.errMsg == "" {
		t.Error("missing fields must surface a validation error")
	}
}

func TestValidatorPanel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/validator/validate_link", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Link string `json:"link"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.Link == "t.me/good" {
			json.NewEncoder(w).Encode(api.ValidationResult{Status: "success", Result: "Active (Public Channel)"})
			return
		}
		json.NewEncoder(w).Encode(api.ValidationResult{Status: "error", Result: "Not Found (Invalid or Expired Link)"})
	})
	view := &fakeStatusView{}
	p := &ValidatorPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view}

	p.Validate(context.Background(), "t.me/good")
	if view.status != "Active (Public Channel)" {
		t.Errorf("status = %q", view.status)
	}

	p.Validate(context.Background(), "t.me/bad")
	if view.errMsg != "Not Found (Invalid or Expired Link)" {
		t.Errorf("errMsg = %q", view.errMsg)
	}
}

func TestAutoReplyPanelSaveNotifiesAndReloads(t *testing.T) {
	var saved api.AutoReplySettings
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/settings/auto_reply", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&saved)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("GET /api/settings/auto_reply/{phone}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": saved.Message, "keywords": saved.Keywords})
	})
	view := &fakeFormView{}
	p := &AutoReplyPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view}

	p.Save(context.Background(), api.AutoReplySettings{
		AccountPhone: "+1555",
		Message:      "Back soon",
		Keywords:     "price, stock",
	})

	if len(view.notices) != 1 {
		t.Fatalf("got %d notices, want 1", len(view.notices))
	}
	if view.fields["message"] != "Back soon" || view.fields["keywords"] != "price, stock" {
		t.Errorf("reloaded fields = %v", view.fields)
	}
}

func TestExtractorPanelRendersMatches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/extractor/extract", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "data": []string{"@one", "@two"}})
	})
	view := &fakeListView{}
	p := &ExtractorPanel{API: testClient(t, mux), Log: zerolog.Nop(), View: view}

	p.Extract(context.Background(), "+1555", "t.me/chan", "usernames", "")

	if len(view.rows) != 2 {
		t.Fatalf("rendered %d rows, want 2", len(view.rows))
	}
}

func TestAdminPanelPlanCreateRoundTrip(t *testing.T) {
	var plans []api.Plan
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/plans", func(w http.ResponseWriter, r *http.Request) {
		var plan api.Plan
		json.NewDecoder(r.Body).Decode(&plan)
		plan.ID = "p1"
		plans = append(plans, plan)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	mux.HandleFunc("GET /api/plans", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(plans)
	})
	planView := &fakeListView{}
	p := &AdminPanel{
		API:      testClient(t, mux),
		Log:      zerolog.Nop(),
		UserView: &fakeListView{},
		PlanView: planView,
		Confirm:  alwaysConfirm,
	}

	p.CreatePlan(context.Background(), "Pro", "19.99", "30")

	if len(planView.rows) != 1 {
		t.Fatalf("rendered %d plan rows, want 1", len(planView.rows))
	}
	if planView.rows[0][1] != "Pro" || planView.rows[0][2] != "19.99" {
		t.Errorf("plan row = %v", planView.rows[0])
	}
}

func TestAdminPanelCreatePlanValidatesNumbers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid plan input must not reach the network")
	})
	planView := &fakeListView{}
	p := &AdminPanel{API: testClient(t, mux), Log: zerolog.Nop(), UserView: &fakeListView{}, PlanView: planView, Confirm: alwaysConfirm}

	p.CreatePlan(context.Background(), "Pro", "not-a-price", "30")

	if planView.errMsg == "" {
		t.Error("bad price must surface a validation error")
	}
}
