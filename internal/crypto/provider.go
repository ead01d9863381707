// Package crypto provides AES-256-GCM encryption for snapshot payloads.
package crypto

import "context"

// KeyProvider returns AES-256 encryption keys.
type KeyProvider interface {
	// GetKey returns the 32-byte AES-256 key for the given scope.
	// Scope is the content-type UID the payload belongs to.
	GetKey(ctx context.Context, scope string) ([]byte, error)
}
