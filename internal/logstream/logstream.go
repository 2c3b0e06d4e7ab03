// Package logstream tails the backend's /ws/logs push stream. The stream is
// one-way: every text frame is a log line handed to the Append callback in
// arrival order. When the connection drops, for any reason, exactly one
// reconnect is scheduled after a fixed delay and the cycle repeats forever,
// with no backoff growth and no retry cap. A rate limiter floors the spacing between
// dial attempts so an instantly failing dial still cannot spin.
package logstream

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// RetryNotice is appended in place of a log line when a connection attempt
// fails, so the viewer shows the gap instead of silently stalling.
const RetryNotice = "[log stream] connection error, retrying..."

type Tailer struct {
	URL         string
	Delay       time.Duration // fixed reconnect delay
	DialTimeout time.Duration
	Log         zerolog.Logger
	// Append receives each log line; the caller renders and scrolls.
	Append func(line string)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches the tail loop. Calling Start on a running tailer restarts
// it: the old loop is stopped first, never abandoned.
func (t *Tailer) Start(ctx context.Context) {
	t.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	t.mu.Lock()
	t.cancel = cancel
	t.done = done
	t.mu.Unlock()

	go func() {
		defer close(done)
		t.run(runCtx)
	}()
}

// Stop cancels the loop and waits for it to exit.
func (t *Tailer) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (t *Tailer) run(ctx context.Context) {
	limiter := rate.NewLimiter(rate.Every(t.Delay), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		t.tailOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(t.Delay):
		}
	}
}

func (t *Tailer) tailOnce(ctx context.Context) {
	dialCtx := ctx
	if t.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, t.DialTimeout)
		defer cancel()
	}

	conn, _, err := websocket.Dial(dialCtx, t.URL, nil)
	if err != nil {
		if ctx.Err() == nil {
			t.Log.Error().Err(err).Msg("log stream dial failed")
			t.Append(RetryNotice)
		}
		return
	}
	defer conn.CloseNow()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if websocket.CloseStatus(err) != -1 {
				// Normal or server-initiated close: the retry loop handles it.
				t.Log.Info().Err(err).Msg("log stream closed")
			} else {
				t.Log.Error().Err(err).Msg("log stream error")
				t.Append(RetryNotice)
			}
			return
		}
		t.Append(string(data))
	}
}
