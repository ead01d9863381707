package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups.
var (
	ErrVersionNotFound     = errors.New("history version not found")
	ErrContentTypeNotFound = errors.New("content type not found")
)

// StorageError wraps a persistence or read failure in the version store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ScheduleError wraps a failed retention purge run.
type ScheduleError struct {
	Err error
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("retention schedule: %v", e.Err)
}

func (e *ScheduleError) Unwrap() error { return e.Err }

// ConfigurationError reports missing or malformed engine configuration,
// such as an absent retention window.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}
