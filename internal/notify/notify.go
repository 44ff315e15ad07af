// Package notify is the user-facing notification surface. Store operations
// report short success and failure messages here instead of re-throwing
// errors to a global handler; the host (web UI, CLI) decides how to render
// them.
package notify

import (
	"log/slog"
	"sync"
)

// Notifier receives short human-readable notifications.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Logger adapts a slog.Logger into a Notifier. Useful as the default sink
// when no UI is attached.
type Logger struct {
	Log *slog.Logger
}

func (l Logger) Success(msg string) {
	l.Log.Info("notify", "kind", "success", "message", msg)
}

func (l Logger) Error(msg string) {
	l.Log.Warn("notify", "kind", "error", "message", msg)
}

// Recorder captures notifications in memory for tests and for feeds that
// replay recent notifications to late subscribers.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

// Successes returns a copy of the recorded success messages.
func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.successes))
	copy(out, r.successes)
	return out
}

// Errors returns a copy of the recorded error messages.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}
