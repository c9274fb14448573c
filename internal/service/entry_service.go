package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/repository"
	"github.com/personal-page/site/internal/validation"
	"github.com/rs/zerolog"
)

// entryService is the concrete implementation of EntryService
type entryService struct {
	entries repository.EntryRepository
	log     zerolog.Logger
	now     func() time.Time
}

func newEntryService(entries repository.EntryRepository, log zerolog.Logger) *entryService {
	return &entryService{
		entries: entries,
		log:     log.With().Str("service", "entry").Logger(),
		now:     time.Now,
	}
}

// Save validates the entry, fills in slug, ID and timestamp when missing, and
// persists it together with its search index row. The slug is only derived
// when empty, so a saved entry keeps its slug when the title changes.
func (s *entryService) Save(ctx context.Context, entry *models.Entry) error {
	if errs := validation.ValidateEntry(entry); len(errs) > 0 {
		return &errs[0]
	}

	if entry.Slug == "" {
		entry.Slug = validation.Slugify(entry.Title)
	}
	created := entry.ID == ""
	if created {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now().UTC()
	}

	if err := s.entries.Save(ctx, entry); err != nil {
		if created {
			entry.ID = ""
		}
		return err
	}

	s.log.Info().
		Str("entry_id", entry.ID).
		Str("slug", entry.Slug).
		Bool("published", entry.Published).
		Bool("created", created).
		Msg("Entry saved")
	return nil
}

// Get retrieves an entry by ID
func (s *entryService) Get(ctx context.Context, id string) (*models.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	return s.entries.GetByID(ctx, id)
}

// GetBySlug retrieves an entry by slug
func (s *entryService) GetBySlug(ctx context.Context, slug string) (*models.Entry, error) {
	return s.entries.GetBySlug(ctx, slug)
}

// Public returns published entries, most recent first
func (s *entryService) Public(ctx context.Context) ([]*models.Entry, error) {
	return s.entries.ListPublic(ctx)
}

// Drafts returns unpublished entries, most recent first
func (s *entryService) Drafts(ctx context.Context) ([]*models.Entry, error) {
	return s.entries.ListDrafts(ctx)
}

// SetPublished flips the published flag of the entry with the given slug
func (s *entryService) SetPublished(ctx context.Context, slug string, published bool) (*models.Entry, error) {
	entry, err := s.entries.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if entry.Published == published {
		return entry, nil
	}

	entry.Published = published
	if err := s.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("set published on %q: %w", slug, err)
	}
	return entry, nil
}

// Count returns the number of stored entries
func (s *entryService) Count(ctx context.Context) (int, error) {
	return s.entries.Count(ctx)
}
