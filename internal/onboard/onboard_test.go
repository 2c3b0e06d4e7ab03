package onboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
)

type fakeEvents struct {
	mu         sync.Mutex
	prompts    []string
	processing int
	succeeded  []string
	failed     []string
	connErrs   []string

	prompted chan string
	terminal chan struct{}
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{
		prompted: make(chan string, 8),
		terminal: make(chan struct{}),
	}
}

func (e *fakeEvents) PromptShown(text string) {
	e.mu.Lock()
	e.prompts = append(e.prompts, text)
	e.mu.Unlock()
	e.prompted <- text
}

func (e *fakeEvents) Processing() {
	e.mu.Lock()
	e.processing++
	e.mu.Unlock()
}

func (e *fakeEvents) Succeeded(msg string) {
	e.mu.Lock()
	e.succeeded = append(e.succeeded, msg)
	e.mu.Unlock()
	close(e.terminal)
}

func (e *fakeEvents) Failed(msg string) {
	e.mu.Lock()
	e.failed = append(e.failed, msg)
	e.mu.Unlock()
	close(e.terminal)
}

func (e *fakeEvents) ConnError(msg string) {
	e.mu.Lock()
	e.connErrs = append(e.connErrs, msg)
	e.mu.Unlock()
}

func (e *fakeEvents) waitTerminal(t *testing.T) {
	t.Helper()
	select {
	case <-e.terminal:
	case <-time.After(5 * time.Second):
		t.Fatal("flow never reached a terminal state")
	}
}

func (e *fakeEvents) waitPrompt(t *testing.T) string {
	t.Helper()
	select {
	case p := <-e.prompted:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no prompt arrived")
		return ""
	}
}

// wsServer runs script against every accepted connection.
func wsServer(t *testing.T, script func(ctx context.Context, c *websocket.Conn, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer c.CloseNow()
		script(r.Context(), c, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func TestPromptResponseSuccess(t *testing.T) {
	var gotToken string
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		gotToken = r.URL.Query().Get("token")

		wsjson.Write(ctx, c, serverMsg{Type: "prompt", Message: "Enter code"})
		var resp clientMsg
		if err := wsjson.Read(ctx, c, &resp); err != nil {
			t.Errorf("read response: %v", err)
			return
		}
		if resp.Type != "response" || resp.Data != "123456" {
			t.Errorf("got %+v, want {response 123456}", resp)
		}
		wsjson.Write(ctx, c, serverMsg{Type: "success", Message: "Account added"})
	})

	events := newFakeEvents()
	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: events}

	if err := r.Start(context.Background(), "tok-123"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if p := events.waitPrompt(t); p != "Enter code" {
		t.Errorf("prompt = %q", p)
	}
	if err := r.Submit(context.Background(), "  123456  "); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	events.waitTerminal(t)

	if gotToken != "tok-123" {
		t.Errorf("handshake token = %q", gotToken)
	}
	if len(events.succeeded) != 1 || events.succeeded[0] != "Account added" {
		t.Errorf("succeeded = %v, want exactly one success", events.succeeded)
	}
	if events.processing != 1 {
		t.Errorf("processing fired %d times, want 1", events.processing)
	}
	if s := r.State(); s != StateSucceeded {
		t.Errorf("state = %v, want StateSucceeded", s)
	}
}

func TestMultiStepPrompts(t *testing.T) {
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		steps := []string{"Please enter your phone number", "Enter the code you received", "Enter your password"}
		for _, prompt := range steps {
			wsjson.Write(ctx, c, serverMsg{Type: "prompt", Message: prompt})
			var resp clientMsg
			if err := wsjson.Read(ctx, c, &resp); err != nil {
				t.Errorf("read: %v", err)
				return
			}
		}
		wsjson.Write(ctx, c, serverMsg{Type: "success", Message: "Done"})
	})

	events := newFakeEvents()
	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: events}
	if err := r.Start(context.Background(), "tok"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for _, answer := range []string{"+15551234567", "99999", "hunter2"} {
		events.waitPrompt(t)
		if err := r.Submit(context.Background(), answer); err != nil {
			t.Fatalf("Submit(%q): %v", answer, err)
		}
	}
	events.waitTerminal(t)

	if len(events.prompts) != 3 {
		t.Errorf("saw %d prompts, want 3", len(events.prompts))
	}
}

func TestServerErrorIsTerminal(t *testing.T) {
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		wsjson.Write(ctx, c, serverMsg{Type: "error", Message: "The code is invalid"})
	})

	events := newFakeEvents()
	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: events}
	if err := r.Start(context.Background(), "tok"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	events.waitTerminal(t)

	if len(events.failed) != 1 || events.failed[0] != "The code is invalid" {
		t.Errorf("failed = %v", events.failed)
	}
	if r.Running() {
		t.Error("runner still reports running after terminal error")
	}
	// Submits after a terminal state are silent no-ops.
	if err := r.Submit(context.Background(), "anything"); err != nil {
		t.Errorf("post-terminal submit: %v", err)
	}
}

func TestStartWithoutTokenRefused(t *testing.T) {
	dialed := false
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		dialed = true
	})

	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: newFakeEvents()}
	if err := r.Start(context.Background(), ""); err != ErrNoToken {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
	if dialed {
		t.Error("refused start must not dial")
	}
}

func TestStartWhileRunningRefused(t *testing.T) {
	release := make(chan struct{})
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		wsjson.Write(ctx, c, serverMsg{Type: "prompt", Message: "Enter phone"})
		<-release
	})

	events := newFakeEvents()
	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: events}
	if err := r.Start(context.Background(), "tok"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	events.waitPrompt(t)

	if err := r.Start(context.Background(), "tok"); err != ErrAlreadyRunning {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
	close(release)
	r.Stop()
}

func TestEmptySubmitIsSilentNoOp(t *testing.T) {
	gotResponse := make(chan clientMsg, 1)
	srv := wsServer(t, func(ctx context.Context, c *websocket.Conn, r *http.Request) {
		wsjson.Write(ctx, c, serverMsg{Type: "prompt", Message: "Enter code"})
		var resp clientMsg
		if err := wsjson.Read(ctx, c, &resp); err == nil {
			gotResponse <- resp
		}
	})

	events := newFakeEvents()
	r := &Runner{URL: wsURL(srv, "/ws/add_account"), Log: zerolog.Nop(), Events: events}
	if err := r.Start(context.Background(), "tok"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	events.waitPrompt(t)

	if err := r.Submit(context.Background(), "   "); err != nil {
		t.Fatalf("empty submit: %v", err)
	}
	select {
	case resp := <-gotResponse:
		t.Fatalf("empty submit reached the wire: %+v", resp)
	case <-time.After(200 * time.Millisecond):
	}
	if events.processing != 0 {
		t.Error("empty submit must not flip the UI to processing")
	}
	r.Stop()
}
