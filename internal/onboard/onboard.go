// Package onboard drives the interactive add-account exchange over the
// /ws/add_account websocket. The server asks for an unpredictable number of
// inputs (phone, login code, sometimes a two-factor password) before it
// settles on success or error, so the flow is modeled as an explicit state
// machine over a typed message union rather than ad hoc branching.
package onboard

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StateConnecting
	StateAwaitingPrompt
	StateAwaitingInput
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// serverMsg is everything the server sends: prompt, success or error.
type serverMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// clientMsg is the only frame the client sends.
type clientMsg struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Events is how the state machine reaches the UI. Implementations decide
// what "enable the input" looks like; the runner only reports transitions.
type Events interface {
	// PromptShown fires on every server prompt: show text, enable input.
	PromptShown(text string)
	// Processing fires after a submission: disable input, show progress.
	Processing()
	// Succeeded is terminal; the account list should be refreshed once.
	Succeeded(msg string)
	// Failed is terminal; no automatic retry.
	Failed(msg string)
	// ConnError reports a transport-level failure.
	ConnError(msg string)
}

var (
	ErrAlreadyRunning = errors.New("an add-account session is already running")
	ErrNoToken        = errors.New("no session token: please log in again")
)

// Runner owns one onboarding connection at a time. Starting a new flow while
// one is live is refused; starting after a terminal state closes the old
// connection before dialing the next. This is deliberate: the connection is
// never silently replaced with its handlers left dangling.
type Runner struct {
	URL         string // ws endpoint without the token parameter
	DialTimeout time.Duration
	Log         zerolog.Logger
	Events      Events

	mu     sync.Mutex
	state  State
	conn   *websocket.Conn
	cancel context.CancelFunc
}

func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) Running() bool {
	s := r.State()
	return s != StateIdle && !s.Terminal()
}

// Start dials the onboarding endpoint with the bearer token in the URL (the
// handshake cannot carry custom headers through every proxy, and the server
// reads the query parameter). It refuses to run without a token and while a
// previous flow is still live.
func (r *Runner) Start(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}

	r.mu.Lock()
	if r.state != StateIdle && !r.state.Terminal() {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	// Terminal leftovers: release the old connection before replacing it.
	r.closeLocked()
	r.state = StateConnecting
	r.mu.Unlock()

	dialCtx := ctx
	if r.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, r.DialTimeout)
		defer cancel()
	}

	conn, _, err := websocket.Dial(dialCtx, r.URL+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		r.mu.Lock()
		r.state = StateFailed
		r.mu.Unlock()
		r.Log.Error().Err(err).Msg("onboarding dial failed")
		r.Events.ConnError("Could not connect to the server.")
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.conn = conn
	r.cancel = cancel
	r.state = StateAwaitingPrompt
	r.mu.Unlock()

	go r.readLoop(runCtx, conn)
	return nil
}

func (r *Runner) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var msg serverMsg
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			r.handleReadError(ctx, err)
			return
		}
		if done := r.handle(msg); done {
			return
		}
	}
}

// handle applies one server frame to the machine and reports whether the
// flow reached a terminal state.
func (r *Runner) handle(msg serverMsg) bool {
	switch msg.Type {
	case "prompt":
		r.setState(StateAwaitingInput)
		r.Events.PromptShown(msg.Message)
		return false
	case "success":
		r.setState(StateSucceeded)
		r.close()
		r.Events.Succeeded(msg.Message)
		return true
	case "error":
		r.setState(StateFailed)
		r.close()
		r.Events.Failed(msg.Message)
		return true
	default:
		r.Log.Warn().Str("type", msg.Type).Msg("onboarding: unknown message type")
		return false
	}
}

func (r *Runner) handleReadError(ctx context.Context, err error) {
	if r.State().Terminal() || ctx.Err() != nil {
		return
	}
	// A close frame without a preceding success/error is logged but not
	// promoted to an outcome; the server's explicit messages are the only
	// source of truth. A genuine transport error is surfaced.
	if websocket.CloseStatus(err) != -1 {
		r.Log.Info().Err(err).Msg("onboarding connection closed")
		return
	}
	r.Log.Error().Err(err).Msg("onboarding connection error")
	r.setState(StateFailed)
	r.close()
	r.Events.ConnError("Connection to the server was lost.")
}

// Submit sends the user's answer to the current prompt. Empty input is a
// silent no-op, as is a submit outside the AwaitingInput state (the UI keeps
// the control disabled there, this is the second line of defense).
func (r *Runner) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	r.mu.Lock()
	if r.state != StateAwaitingInput || r.conn == nil {
		r.mu.Unlock()
		return nil
	}
	conn := r.conn
	r.state = StateSubmitting
	r.mu.Unlock()

	r.Events.Processing()
	if err := wsjson.Write(ctx, conn, clientMsg{Type: "response", Data: text}); err != nil {
		r.Log.Error().Err(err).Msg("onboarding send failed")
		r.setState(StateFailed)
		r.close()
		r.Events.ConnError("Connection to the server was lost.")
		return err
	}
	return nil
}

// Stop tears the flow down, e.g. when the dialog is dismissed.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.state.Terminal() {
		r.state = StateIdle
	}
	r.closeLocked()
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Runner) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Runner) closeLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.conn != nil {
		r.conn.Close(websocket.StatusNormalClosure, "")
		r.conn = nil
	}
}
