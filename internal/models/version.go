package models

import (
	"time"
)

// Status is the publication state a snapshot was taken in.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// HistoryVersion is a full snapshot of a document at the moment a
// mutation committed. Rows are append-only: a version is created whole
// or not at all, and is never updated afterwards.
type HistoryVersion struct {
	ID          int64          `json:"id"`
	ContentType string         `json:"content_type"`
	DocumentID  string         `json:"document_id"`
	Locale      *string        `json:"locale,omitempty"`
	Status      *Status        `json:"status,omitempty"`
	Data        map[string]any `json:"data"`
	Schema      AttributeMap   `json:"schema"`
	CreatedBy   *string        `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`

	// Meta is computed at read time against the live schema.
	// It is never persisted.
	Meta *VersionMeta `json:"meta,omitempty"`
}

// VersionMeta carries read-time decorations for a version.
type VersionMeta struct {
	UnknownAttributes SchemaDiff `json:"unknownAttributes"`
}

// SchemaDiff reports presence drift between a frozen schema snapshot
// and the current live schema. Attributes present in both are omitted.
type SchemaDiff struct {
	Added   map[string]Attribute `json:"added"`
	Removed map[string]Attribute `json:"removed"`
}

// Empty reports whether the diff contains no drift at all.
func (d SchemaDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Attribute describes a single content-type field definition.
// Component attributes carry their sub-field definitions in Attributes.
type Attribute struct {
	Type       string       `json:"type"`
	Required   bool         `json:"required,omitempty"`
	Attributes AttributeMap `json:"attributes,omitempty"`
}

// AttributeMap maps field names to their definitions. Stored as JSONB
// when frozen into a version's schema snapshot.
type AttributeMap map[string]Attribute

// ContentType is the live definition of a content type as reported by
// the schema registry collaborator.
type ContentType struct {
	UID             string       `json:"uid"`
	Attributes      AttributeMap `json:"attributes"`
	DraftAndPublish bool         `json:"draftAndPublish"`
}

// VersionPageQuery holds the filter and pagination parameters for a
// version listing. Locale must match exactly; nil matches locale-less
// versions only.
type VersionPageQuery struct {
	ContentType string
	DocumentID  string
	Locale      *string
	Page        int
	PageSize    int
}

// VersionPage is one page of a version listing, newest first.
type VersionPage struct {
	Versions []HistoryVersion `json:"versions"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int64            `json:"total"`
}
