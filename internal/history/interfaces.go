// Package history records a snapshot of every committed document
// mutation and purges old snapshots on a retention schedule.
package history

import (
	"context"
	"time"

	"github.com/chroniclehq/chronicle/internal/models"
)

// VersionCreator persists history versions. Implemented by
// store.VersionStore.
type VersionCreator interface {
	CreateVersion(ctx context.Context, v models.HistoryVersion) (models.HistoryVersion, error)
}

// VersionPurger removes versions older than a cutoff. Implemented by
// store.VersionStore.
type VersionPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SchemaRegistry is the read-only content-type registry collaborator.
// Lookup returns the live definition for a content-type UID.
type SchemaRegistry interface {
	Lookup(ctx context.Context, uid string) (models.ContentType, error)
}

// PublishState reports whether a document currently has a published
// variant. The mutation pipeline host supplies the implementation;
// create and update snapshots use it to resolve their status.
type PublishState interface {
	IsPublished(ctx context.Context, contentType, documentID string, locale *string) (bool, error)
}
