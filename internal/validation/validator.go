package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/personal-page/site/internal/models"
)

// nonWordRun matches a maximal run of characters that are not letters, digits or '_'.
var nonWordRun = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// Slugify lower-cases title and collapses every run of non-word characters
// into a single '-'. Leading and trailing runs are kept as '-'.
func Slugify(title string) string {
	return nonWordRun.ReplaceAllString(strings.ToLower(title), "-")
}

// Validator provides validation methods
type Validator struct {
	slugCache map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		slugCache: make(map[string]bool),
	}
}

// AddSlug adds a slug to the uniqueness cache
func (v *Validator) AddSlug(slug string) {
	v.slugCache[slug] = true
}

// ValidateEntry validates an entry before it is saved. An empty ID or slug is
// allowed (both are assigned on save); an explicit ID must be a UUID and an
// explicit slug must already be in slug form.
func ValidateEntry(entry *models.Entry) []models.ValidationError {
	var errors []models.ValidationError

	if entry.ID != "" && !isValidUUID(entry.ID) {
		errors = append(errors, models.ValidationError{Field: "id", Message: "invalid UUID format", Value: entry.ID})
	}
	if strings.TrimSpace(entry.Title) == "" {
		errors = append(errors, models.ValidationError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(entry.Content) == "" {
		errors = append(errors, models.ValidationError{Field: "content", Message: "content is required"})
	}
	if entry.Slug != "" && Slugify(entry.Slug) != entry.Slug {
		errors = append(errors, models.ValidationError{Field: "slug", Message: "invalid slug format", Value: entry.Slug})
	}

	return errors
}

// ValidateSeed validates a seed record and checks its slug against the
// slugs already seen in the same file.
func (v *Validator) ValidateSeed(seed *models.EntrySeed) []models.ValidationError {
	entry := &models.Entry{Title: seed.Title, Slug: seed.Slug, Content: seed.Content}
	errors := ValidateEntry(entry)

	slug := seed.Slug
	if slug == "" {
		slug = Slugify(seed.Title)
	}
	if slug != "" && v.slugCache[slug] {
		errors = append(errors, models.ValidationError{Field: "slug", Message: "duplicate slug", Value: slug})
	}

	if seed.Date != "" {
		if _, err := ParseDate(seed.Date); err != nil {
			errors = append(errors, models.ValidationError{Field: "date", Message: "invalid date format", Value: seed.Date})
		}
	}

	return errors
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (UTC).
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
