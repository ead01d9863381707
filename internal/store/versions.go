package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chroniclehq/chronicle/internal/models"
)

// VersionStore provides data access for the content_history_versions
// table. The table is append-only: versions are inserted and purged,
// never updated.
type VersionStore struct {
	Base
}

// NewVersionStore creates a VersionStore.
func NewVersionStore(base Base) *VersionStore {
	return &VersionStore{Base: base}
}

// versionColumns lists the columns selected for version queries.
const versionColumns = `id, content_type, document_id, locale, status, data, schema, created_by, created_at`

// Pagination bounds for version listings.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CreateVersion inserts a new history version and returns it with its
// storage-assigned id and timestamp. Existing rows are never touched.
func (s *VersionStore) CreateVersion(ctx context.Context, v models.HistoryVersion) (models.HistoryVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	dataJSON, err := s.encodeData(ctx, v.ContentType, v.Data)
	if err != nil {
		return models.HistoryVersion{}, &models.StorageError{Op: "create version", Err: err}
	}

	schemaJSON, err := json.Marshal(v.Schema)
	if err != nil {
		return models.HistoryVersion{}, &models.StorageError{Op: "create version", Err: fmt.Errorf("marshalling schema snapshot: %w", err)}
	}

	var status *string
	if v.Status != nil {
		st := string(*v.Status)
		status = &st
	}

	err = s.Pool.QueryRow(ctx, `
		INSERT INTO content_history_versions
			(content_type, document_id, locale, status, data, schema, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		v.ContentType, v.DocumentID, v.Locale, status, dataJSON, schemaJSON, v.CreatedBy,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return models.HistoryVersion{}, &models.StorageError{Op: "create version", Err: err}
	}

	return v, nil
}

// FindVersionsPage returns one page of versions scoped to the exact
// (contentType, documentID, locale) triple, newest first. A scope with
// no versions (including an unknown content type) yields an empty page,
// not an error.
func (s *VersionStore) FindVersionsPage(ctx context.Context, q models.VersionPageQuery) (models.VersionPage, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	page := q.Page
	if page < 1 {
		page = 1
	}

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	const scope = `content_type = $1 AND document_id = $2 AND locale IS NOT DISTINCT FROM $3`

	var total int64
	err := s.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_history_versions WHERE `+scope,
		q.ContentType, q.DocumentID, q.Locale,
	).Scan(&total)
	if err != nil {
		return models.VersionPage{}, &models.StorageError{Op: "count versions", Err: err}
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT `+versionColumns+`
		FROM content_history_versions
		WHERE `+scope+`
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		q.ContentType, q.DocumentID, q.Locale, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return models.VersionPage{}, &models.StorageError{Op: "list versions", Err: err}
	}
	defer rows.Close()

	versions := make([]models.HistoryVersion, 0, pageSize)
	for rows.Next() {
		v, scanErr := s.scanVersion(ctx, rows.Scan)
		if scanErr != nil {
			return models.VersionPage{}, &models.StorageError{Op: "list versions", Err: scanErr}
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return models.VersionPage{}, &models.StorageError{Op: "list versions", Err: err}
	}

	return models.VersionPage{
		Versions: versions,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// GetVersion returns a single version by id, for restore workflows.
func (s *VersionStore) GetVersion(ctx context.Context, id int64) (models.HistoryVersion, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, `
		SELECT `+versionColumns+`
		FROM content_history_versions
		WHERE id = $1`,
		id,
	)

	v, err := s.scanVersion(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.HistoryVersion{}, models.ErrVersionNotFound
		}

		return models.HistoryVersion{}, &models.StorageError{Op: "get version", Err: err}
	}

	return v, nil
}

// HasPublishedVersion reports whether the newest recorded version for
// the exact (contentType, documentID, locale) scope is published.
func (s *VersionStore) HasPublishedVersion(ctx context.Context, contentType, documentID string, locale *string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var status *string
	err := s.Pool.QueryRow(ctx, `
		SELECT status
		FROM content_history_versions
		WHERE content_type = $1 AND document_id = $2 AND locale IS NOT DISTINCT FROM $3
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		contentType, documentID, locale,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, &models.StorageError{Op: "check published version", Err: err}
	}

	return status != nil && *status == string(models.StatusPublished), nil
}

// PurgeOlderThan deletes all versions created strictly before cutoff
// and returns the number of rows removed. Rows at or after cutoff are
// untouched.
func (s *VersionStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		`DELETE FROM content_history_versions WHERE created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, &models.StorageError{Op: "purge versions", Err: err}
	}

	return tag.RowsAffected(), nil
}

// scanVersion scans a single row into a models.HistoryVersion,
// decoding (and if needed decrypting) the data and schema snapshots.
func (s *VersionStore) scanVersion(ctx context.Context, scan func(dest ...any) error) (models.HistoryVersion, error) {
	var v models.HistoryVersion
	var status *string
	var dataRaw, schemaRaw []byte

	err := scan(
		&v.ID,
		&v.ContentType,
		&v.DocumentID,
		&v.Locale,
		&status,
		&dataRaw,
		&schemaRaw,
		&v.CreatedBy,
		&v.CreatedAt,
	)
	if err != nil {
		return models.HistoryVersion{}, err
	}

	if status != nil {
		st := models.Status(*status)
		v.Status = &st
	}

	v.Data, err = s.decodeData(ctx, v.ContentType, dataRaw)
	if err != nil {
		return models.HistoryVersion{}, fmt.Errorf("version %d: %w", v.ID, err)
	}

	if err := json.Unmarshal(schemaRaw, &v.Schema); err != nil {
		return models.HistoryVersion{}, fmt.Errorf("version %d: unmarshalling schema snapshot: %w", v.ID, err)
	}

	return v, nil
}
