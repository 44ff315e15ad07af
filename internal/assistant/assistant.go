// Package assistant produces the simulated assistant turns. No model is
// ever called; replies are composed from the user's message and delivered
// after a fixed delay so the surrounding stores behave like they would
// against a real backend.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultReplyDelay is the pause between a user message and the simulated
// assistant reply.
const DefaultReplyDelay = time.Second

// SendOptions carries the per-message toggles chosen by the user.
type SendOptions struct {
	Thinking bool
	Search   bool
}

// ComposeReply builds the canned assistant reply for a user message. The
// first exchange of a brand-new chat gets a greeting prefix; follow-ups in
// an existing chat do not. Enabled options are echoed back in a trailing
// line, always in Thinking, Search order.
func ComposeReply(content string, opts SendOptions, greet bool) string {
	var b strings.Builder
	if greet {
		b.WriteString("Hello! ")
	}
	fmt.Fprintf(&b, "This is a simulated response to your message: %q", content)

	var used []string
	if opts.Thinking {
		used = append(used, "Thinking")
	}
	if opts.Search {
		used = append(used, "Search")
	}
	if len(used) > 0 {
		b.WriteString("\n\nOptions used: ")
		b.WriteString(strings.Join(used, ", "))
	}
	return b.String()
}

// Responder schedules delayed reply deliveries. Every scheduled task gets
// an id so callers can cancel a pending reply, e.g. when the chat it
// belongs to is deleted before the delay elapses.
type Responder struct {
	delay  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]context.CancelFunc
}

// NewResponder creates a responder. A non-positive delay falls back to
// DefaultReplyDelay; tests pass a short delay explicitly.
func NewResponder(delay time.Duration, logger *slog.Logger) *Responder {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{
		delay:   delay,
		logger:  logger,
		pending: make(map[string]context.CancelFunc),
	}
}

// Schedule runs deliver after the configured delay and returns the task id.
// The delivery is skipped if the task is cancelled or ctx is done before
// the delay elapses.
func (r *Responder) Schedule(ctx context.Context, deliver func(ctx context.Context)) string {
	taskCtx, cancel := context.WithCancel(ctx)
	id := uuid.New().String()

	r.mu.Lock()
	r.pending[id] = cancel
	r.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			r.mu.Lock()
			delete(r.pending, id)
			r.mu.Unlock()
		}()

		timer := time.NewTimer(r.delay)
		defer timer.Stop()

		select {
		case <-taskCtx.Done():
			r.logger.Debug("reply delivery cancelled", "task", id)
			return
		case <-timer.C:
		}

		deliver(taskCtx)
	}()

	return id
}

// Cancel stops a pending delivery. Unknown ids are ignored; the task may
// already have fired.
func (r *Responder) Cancel(taskID string) {
	r.mu.Lock()
	cancel, ok := r.pending[taskID]
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

// CancelAll stops every pending delivery. Used on shutdown.
func (r *Responder) CancelAll() {
	r.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(r.pending))
	for _, cancel := range r.pending {
		cancels = append(cancels, cancel)
	}
	r.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Pending reports the number of replies not yet delivered.
func (r *Responder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
