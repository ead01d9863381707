package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// HistoryService reads recorded content versions.
type HistoryService struct {
	c *Client
}

// ListVersions returns one page of a document's version history, newest first.
func (s *HistoryService) ListVersions(
	ctx context.Context, contentType, documentID string, opts *VersionListOptions,
) (*VersionPage, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Locale != "" {
			params.Set("locale", opts.Locale)
		}
		if opts.Page > 0 {
			params.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			params.Set("pageSize", strconv.Itoa(opts.PageSize))
		}
	}

	path := fmt.Sprintf("/api/v1/content-history/%s/%s/versions",
		url.PathEscape(contentType), url.PathEscape(documentID))

	var page VersionPage
	if err := s.c.get(ctx, path, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetVersion returns a single version by id, including its frozen data
// and schema snapshots for restore workflows.
func (s *HistoryService) GetVersion(
	ctx context.Context, contentType, documentID string, id int64,
) (*Version, error) {
	path := fmt.Sprintf("/api/v1/content-history/%s/%s/versions/%d",
		url.PathEscape(contentType), url.PathEscape(documentID), id)

	var v Version
	if err := s.c.get(ctx, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
