package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chroniclehq/chronicle/internal/models"
)

// SchemaStore provides data access for the content_type_schemas table,
// the registry of live content-type definitions. The table is synced
// by the host application whenever a content type changes.
type SchemaStore struct {
	Base
}

// NewSchemaStore creates a SchemaStore.
func NewSchemaStore(base Base) *SchemaStore {
	return &SchemaStore{Base: base}
}

// UpsertContentType inserts or replaces a content-type definition.
func (s *SchemaStore) UpsertContentType(ctx context.Context, ct models.ContentType) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	attrsJSON, err := json.Marshal(ct.Attributes)
	if err != nil {
		return &models.StorageError{Op: "upsert content type", Err: fmt.Errorf("marshalling attributes: %w", err)}
	}

	_, err = s.Pool.Exec(ctx, `
		INSERT INTO content_type_schemas (uid, attributes, draft_and_publish, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (uid) DO UPDATE SET
			attributes = EXCLUDED.attributes,
			draft_and_publish = EXCLUDED.draft_and_publish,
			updated_at = NOW()`,
		ct.UID, attrsJSON, ct.DraftAndPublish,
	)
	if err != nil {
		return &models.StorageError{Op: "upsert content type", Err: err}
	}

	return nil
}

// Lookup returns the live definition of a content type. It satisfies
// the registry interface the history engine and service consume.
func (s *SchemaStore) Lookup(ctx context.Context, uid string) (models.ContentType, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	ct := models.ContentType{UID: uid}
	var attrsRaw []byte

	err := s.Pool.QueryRow(ctx, `
		SELECT attributes, draft_and_publish
		FROM content_type_schemas
		WHERE uid = $1`,
		uid,
	).Scan(&attrsRaw, &ct.DraftAndPublish)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ContentType{}, models.ErrContentTypeNotFound
		}

		return models.ContentType{}, &models.StorageError{Op: "lookup content type", Err: err}
	}

	if err := json.Unmarshal(attrsRaw, &ct.Attributes); err != nil {
		return models.ContentType{}, &models.StorageError{Op: "lookup content type", Err: fmt.Errorf("unmarshalling attributes: %w", err)}
	}

	return ct, nil
}

// DeleteContentType removes a definition from the registry. Versions
// recorded under the UID stay readable; they are just served without
// drift decoration.
func (s *SchemaStore) DeleteContentType(ctx context.Context, uid string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx, `DELETE FROM content_type_schemas WHERE uid = $1`, uid)
	if err != nil {
		return &models.StorageError{Op: "delete content type", Err: err}
	}

	return nil
}
