package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by point lookups that match no entry.
	ErrNotFound = errors.New("entry not found")
	// ErrSlugConflict is returned when a save would give two entries the same slug.
	ErrSlugConflict = errors.New("slug already in use")

	ErrInvalidPassword = errors.New("invalid password")
	ErrLoginDisabled   = errors.New("login is disabled")
)

// ValidationError represents a single validation error
type ValidationError struct {
	Record  int         `json:"record,omitempty"` // 1-based position in a seed file
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
