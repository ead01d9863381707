// Package actor carries the acting user's identity through request
// contexts. Identity resolution itself happens upstream; this package
// only reads and writes the resolved id.
package actor

import "context"

type contextKey struct{}

// WithID returns a context carrying the acting user's id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the acting user's id, if the call runs in a user
// request context. System jobs have no actor.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
