package api

import (
	"context"

	"github.com/chroniclehq/chronicle/internal/models"
)

// HistoryRepository defines the version read operations used by
// HistoryHandler.
type HistoryRepository interface {
	FindVersionsPage(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error)
	GetVersion(ctx context.Context, id int64) (models.HistoryVersion, error)
}

// SchemaRepository defines the content-type registry operations used
// by SchemaHandler.
type SchemaRepository interface {
	UpsertContentType(ctx context.Context, ct models.ContentType) error
	Lookup(ctx context.Context, uid string) (models.ContentType, error)
	DeleteContentType(ctx context.Context, uid string) error
}
