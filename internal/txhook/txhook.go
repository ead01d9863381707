// Package txhook buffers actions on a per-transaction context so they
// run only after the enclosing transaction commits. Postgres has no
// native commit hooks, so dbpool.Pool.WithTx attaches a Hooks buffer to
// the context it hands the transaction body and flushes it once Commit
// returns nil. A rolled-back transaction never flushes its buffer.
package txhook

import (
	"context"
	"sync"
)

type contextKey struct{}

// Hook is an action deferred until the owning transaction commits.
type Hook func(ctx context.Context)

// Hooks is the commit-hook buffer for a single transaction. Safe for
// concurrent registration; each in-flight transaction owns its own
// buffer, never shared across transactions.
type Hooks struct {
	mu  sync.Mutex
	fns []Hook
}

// New creates an empty hook buffer.
func New() *Hooks {
	return &Hooks{}
}

// Add registers a hook to run after commit.
func (h *Hooks) Add(fn Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

// Flush runs all registered hooks in registration order and clears the
// buffer. Called by the transaction owner after a successful commit.
func (h *Hooks) Flush(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// With attaches a hook buffer to the context.
func With(ctx context.Context, h *Hooks) context.Context {
	return context.WithValue(ctx, contextKey{}, h)
}

// FromContext returns the transaction's hook buffer, if any.
func FromContext(ctx context.Context) (*Hooks, bool) {
	h, ok := ctx.Value(contextKey{}).(*Hooks)

	return h, ok
}

// OnCommit registers fn on the ambient transaction's buffer. It returns
// false when no transaction is ambient, in which case the caller should
// run the action immediately.
func OnCommit(ctx context.Context, fn Hook) bool {
	h, ok := FromContext(ctx)
	if !ok {
		return false
	}
	h.Add(fn)

	return true
}
