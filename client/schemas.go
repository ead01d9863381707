package client

import (
	"context"
	"net/url"
)

// SchemaService syncs and reads content-type definitions.
type SchemaService struct {
	c *Client
}

// upsertSchemaRequest mirrors the registry sync payload.
type upsertSchemaRequest struct {
	Attributes      map[string]Attribute `json:"attributes"`
	DraftAndPublish bool                 `json:"draftAndPublish"`
}

// Upsert pushes a content-type definition into the registry.
func (s *SchemaService) Upsert(ctx context.Context, ct *ContentType) (*ContentType, error) {
	req := upsertSchemaRequest{
		Attributes:      ct.Attributes,
		DraftAndPublish: ct.DraftAndPublish,
	}

	var out ContentType
	if err := s.c.put(ctx, "/api/v1/content-types/"+url.PathEscape(ct.UID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the live definition of a content type.
func (s *SchemaService) Get(ctx context.Context, uid string) (*ContentType, error) {
	var ct ContentType
	if err := s.c.get(ctx, "/api/v1/content-types/"+url.PathEscape(uid), nil, &ct); err != nil {
		return nil, err
	}
	return &ct, nil
}

// Delete removes a content type from the registry.
func (s *SchemaService) Delete(ctx context.Context, uid string) error {
	return s.c.del(ctx, "/api/v1/content-types/"+url.PathEscape(uid), nil, nil)
}
