// Package store provides data access for the content history engine.
//
// Each store embeds shared helpers (Pool, crypto, logger) via the Base
// struct. All storage access goes through store methods; no other
// component touches the database directly.
package store

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/crypto"
	"github.com/chroniclehq/chronicle/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger

	// Crypto, when non-nil, encrypts snapshot payloads at rest.
	Crypto *crypto.Service
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}
