// Package pipeline defines the wrap-point over document mutations.
//
// The mutation implementations themselves (create/update/publish/
// unpublish) live outside this engine; callers dispatch them through a
// Pipeline so registered middlewares can observe each call. Middlewares
// are composed at dispatch time into a single chain; each must call its
// successor exactly once and propagate its result and error unchanged
// unless explicitly short-circuiting.
package pipeline

import (
	"context"
	"sync"

	"github.com/chroniclehq/chronicle/internal/models"
)

// Params carries the caller-supplied arguments of a document mutation.
type Params struct {
	DocumentID string
	Locale     *string
	Data       map[string]any
}

// Result is what a mutation produced. Downstream layers populate it;
// middlewares running post-processing read it off the Context.
type Result struct {
	DocumentID string
	Data       map[string]any
	Status     *models.Status
}

// Context describes one in-flight document mutation. It is owned by
// the dispatching call and discarded when the chain unwinds.
type Context struct {
	Action      models.Action
	ContentType string
	Params      Params

	// Result is set once the downstream mutation completes, before
	// middleware post-processing runs.
	Result *Result
}

// Handler executes a document mutation.
type Handler func(ctx context.Context, pc *Context) (*Result, error)

// Middleware wraps a mutation call. It must invoke next and return
// what next returns; observation is a side effect, never a
// caller-visible control-flow branch.
type Middleware func(ctx context.Context, pc *Context, next Handler) (*Result, error)

// Pipeline is an ordered middleware chain over document mutations.
type Pipeline struct {
	mu          sync.RWMutex
	middlewares []Middleware
}

// New creates an empty pipeline.
func New() *Pipeline {
	return &Pipeline{}
}

// Use appends a middleware to the chain. Middlewares run in
// registration order, outermost first.
func (p *Pipeline) Use(mw Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.middlewares = append(p.middlewares, mw)
}

// Len reports the number of registered middlewares.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return len(p.middlewares)
}

// Dispatch runs the mutation through the middleware chain down to base.
// The base handler's result is recorded on pc.Result before middlewares
// unwind, so post-processing sees what the mutation produced.
func (p *Pipeline) Dispatch(ctx context.Context, pc *Context, base Handler) (*Result, error) {
	p.mu.RLock()
	mws := make([]Middleware, len(p.middlewares))
	copy(mws, p.middlewares)
	p.mu.RUnlock()

	handler := func(ctx context.Context, pc *Context) (*Result, error) {
		res, err := base(ctx, pc)
		if err == nil {
			pc.Result = res
		}

		return res, err
	}

	for i := len(mws) - 1; i >= 0; i-- {
		mw := mws[i]
		next := handler
		handler = func(ctx context.Context, pc *Context) (*Result, error) {
			return mw(ctx, pc, next)
		}
	}

	return handler(ctx, pc)
}
