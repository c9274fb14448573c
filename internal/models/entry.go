package models

import (
	"time"
)

// Entry represents a blog entry
type Entry struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Content   string    `json:"content" db:"content"`
	Published bool      `json:"published" db:"published"`
	Timestamp time.Time `json:"timestamp" db:"created_at"`
}

// IsDraft reports whether the entry is hidden from public listings and search
func (e *Entry) IsDraft() bool {
	return !e.Published
}

// SearchResult pairs a published entry with its relevance score
type SearchResult struct {
	Entry *Entry  `json:"entry"`
	Score float64 `json:"score"`
}

// EntrySeed represents an entry record from a YAML seed file
type EntrySeed struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug,omitempty"`
	Content   string `yaml:"content"`
	Published bool   `yaml:"published"`
	Date      string `yaml:"date,omitempty"` // RFC 3339 or YYYY-MM-DD
}

// SeedFile is the top-level document of a seed file
type SeedFile struct {
	Entries []EntrySeed `yaml:"entries"`
}

// SeedReport summarizes a seed run
type SeedReport struct {
	Total   int               `json:"total"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Failed  int               `json:"failed"`
	Errors  []ValidationError `json:"errors,omitempty"`
}
