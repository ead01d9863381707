// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chroniclehq/chronicle/internal/drift"
	"github.com/chroniclehq/chronicle/internal/history"
	"github.com/chroniclehq/chronicle/internal/models"
)

// VersionReader is the data-access interface HistoryService depends on.
type VersionReader interface {
	FindVersionsPage(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error)
	GetVersion(ctx context.Context, id int64) (models.HistoryVersion, error)
}

// HistoryService wraps VersionReader with read-time schema drift
// decoration: every version served carries the difference between its
// frozen schema and the current live one.
type HistoryService struct {
	versions VersionReader
	registry history.SchemaRegistry
	log      *logrus.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(versions VersionReader, registry history.SchemaRegistry, log *logrus.Logger) *HistoryService {
	return &HistoryService{versions: versions, registry: registry, log: log}
}

// FindVersionsPage returns one page of a document's version history,
// newest first, each version annotated with schema drift.
func (s *HistoryService) FindVersionsPage(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error) {
	s.log.WithFields(logrus.Fields{
		"content_type": q.ContentType,
		"document_id":  q.DocumentID,
		"page":         q.Page,
	}).Debug("history.find_versions_page")

	page, err := s.versions.FindVersionsPage(ctx, q)
	if err != nil {
		return models.VersionPage{}, err
	}

	live, ok := s.liveSchema(ctx, q.ContentType)
	if !ok {
		return page, nil
	}

	for i := range page.Versions {
		s.decorate(&page.Versions[i], live)
	}

	return page, nil
}

// GetVersion returns a single version by id with schema drift
// annotation.
func (s *HistoryService) GetVersion(ctx context.Context, id int64) (models.HistoryVersion, error) {
	v, err := s.versions.GetVersion(ctx, id)
	if err != nil {
		return models.HistoryVersion{}, err
	}

	if live, ok := s.liveSchema(ctx, v.ContentType); ok {
		s.decorate(&v, live)
	}

	return v, nil
}

// liveSchema resolves the current schema of a content type. A type
// that no longer exists (deleted since the versions were written) is
// not an error; its versions are served undecorated.
func (s *HistoryService) liveSchema(ctx context.Context, uid string) (models.AttributeMap, bool) {
	ct, err := s.registry.Lookup(ctx, uid)
	if err != nil {
		s.log.WithError(err).WithField("content_type", uid).
			Debug("live schema unavailable, serving versions undecorated")

		return nil, false
	}

	return ct.Attributes, true
}

func (s *HistoryService) decorate(v *models.HistoryVersion, live models.AttributeMap) {
	diff := drift.UnknownAttributes(v.Schema, live)
	if diff.Empty() {
		return
	}

	v.Meta = &models.VersionMeta{UnknownAttributes: diff}
}
