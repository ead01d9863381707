package client

import "time"

// Version is one recorded content snapshot.
type Version struct {
	ID          int64                `json:"id"`
	ContentType string               `json:"content_type"`
	DocumentID  string               `json:"document_id"`
	Locale      *string              `json:"locale,omitempty"`
	Status      *string              `json:"status,omitempty"`
	Data        map[string]any       `json:"data"`
	Schema      map[string]Attribute `json:"schema"`
	CreatedBy   *string              `json:"created_by,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	Meta        *VersionMeta         `json:"meta,omitempty"`
}

// VersionMeta carries the read-time schema drift annotation.
type VersionMeta struct {
	UnknownAttributes SchemaDiff `json:"unknownAttributes"`
}

// SchemaDiff reports presence drift between a version's frozen schema
// and the current live schema.
type SchemaDiff struct {
	Added   map[string]Attribute `json:"added"`
	Removed map[string]Attribute `json:"removed"`
}

// Attribute describes a single content-type field definition.
type Attribute struct {
	Type       string               `json:"type"`
	Required   bool                 `json:"required,omitempty"`
	Attributes map[string]Attribute `json:"attributes,omitempty"`
}

// VersionPage is one page of a version listing, newest first.
type VersionPage struct {
	Versions []Version `json:"versions"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
	Total    int64     `json:"total"`
}

// VersionListOptions controls version listing pagination and scope.
type VersionListOptions struct {
	Locale   string
	Page     int
	PageSize int
}

// ContentType is a live content-type definition in the registry.
type ContentType struct {
	UID             string               `json:"uid"`
	Attributes      map[string]Attribute `json:"attributes"`
	DraftAndPublish bool                 `json:"draftAndPublish"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
