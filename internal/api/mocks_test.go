package api_test

import (
	"context"

	"github.com/chroniclehq/chronicle/internal/models"
)

// mockHistoryRepo implements api.HistoryRepository for testing.
type mockHistoryRepo struct {
	findPageFn   func(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error)
	getVersionFn func(ctx context.Context, id int64) (models.HistoryVersion, error)
}

func (m *mockHistoryRepo) FindVersionsPage(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error) {
	return m.findPageFn(ctx, q)
}

func (m *mockHistoryRepo) GetVersion(ctx context.Context, id int64) (models.HistoryVersion, error) {
	return m.getVersionFn(ctx, id)
}
