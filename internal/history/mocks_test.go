package history

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/models"
)

// mockVersionStore records created versions and supports failure injection.
type mockVersionStore struct {
	mu        sync.Mutex
	created   []models.HistoryVersion
	createErr error
	purgeFn   func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *mockVersionStore) CreateVersion(_ context.Context, v models.HistoryVersion) (models.HistoryVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return models.HistoryVersion{}, m.createErr
	}

	v.ID = int64(len(m.created) + 1)
	v.CreatedAt = time.Now()
	m.created = append(m.created, v)

	return v, nil
}

func (m *mockVersionStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return m.purgeFn(ctx, cutoff)
}

// versions returns a copy of the recorded versions, oldest first.
func (m *mockVersionStore) versions() []models.HistoryVersion {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.HistoryVersion, len(m.created))
	copy(out, m.created)

	return out
}

// mockRegistry serves content-type definitions from a fixed map.
type mockRegistry struct {
	types map[string]models.ContentType
	err   error
}

func (m *mockRegistry) Lookup(_ context.Context, uid string) (models.ContentType, error) {
	if m.err != nil {
		return models.ContentType{}, m.err
	}

	ct, ok := m.types[uid]
	if !ok {
		return models.ContentType{}, models.ErrContentTypeNotFound
	}

	return ct, nil
}

// mockPublishState reports a fixed publish state.
type mockPublishState struct {
	published bool
	err       error
}

func (m *mockPublishState) IsPublished(context.Context, string, string, *string) (bool, error) {
	return m.published, m.err
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	return log
}

const testUID = "api::article.article"

func articleType() models.ContentType {
	return models.ContentType{
		UID: testUID,
		Attributes: models.AttributeMap{
			"title": {Type: "string", Required: true},
			"body":  {Type: "richtext"},
		},
		DraftAndPublish: true,
	}
}

func newTestEngine(store *mockVersionStore, registry *mockRegistry, publish *mockPublishState) *Engine {
	if registry == nil {
		registry = &mockRegistry{types: map[string]models.ContentType{testUID: articleType()}}
	}
	if publish == nil {
		publish = &mockPublishState{}
	}

	log := testLogger()

	return NewEngine(NewWriter(store, log), registry, publish, nil, log)
}
