package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/validation"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// seedService is the concrete implementation of SeedService
type seedService struct {
	entries EntryService
	log     zerolog.Logger
}

func newSeedService(entries EntryService, log zerolog.Logger) *seedService {
	return &seedService{
		entries: entries,
		log:     log.With().Str("service", "seed").Logger(),
	}
}

// Seed decodes a YAML seed file and saves every valid record. Records are
// matched to stored entries by slug: a match is updated in place and keeps
// its ID and creation timestamp, otherwise a new entry is created. Invalid
// records are reported and skipped.
func (s *seedService) Seed(ctx context.Context, r io.Reader) (*models.SeedReport, error) {
	var file models.SeedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}

	report := &models.SeedReport{Total: len(file.Entries)}
	validator := validation.NewValidator()

	for i := range file.Entries {
		seed := &file.Entries[i]
		record := i + 1

		if err := ctx.Err(); err != nil {
			return report, err
		}

		if errs := validator.ValidateSeed(seed); len(errs) > 0 {
			report.Failed++
			for _, e := range errs {
				e.Record = record
				report.Errors = append(report.Errors, e)
			}
			continue
		}

		entry, created, err := s.entryFor(ctx, seed)
		if err != nil {
			return report, err
		}
		validator.AddSlug(entry.Slug)

		if err := s.entries.Save(ctx, entry); err != nil {
			var verr *models.ValidationError
			switch {
			case errors.Is(err, models.ErrSlugConflict):
				report.Failed++
				report.Errors = append(report.Errors, models.ValidationError{
					Record: record, Field: "slug", Message: "slug already in use", Value: entry.Slug,
				})
				continue
			case errors.As(err, &verr):
				report.Failed++
				e := *verr
				e.Record = record
				report.Errors = append(report.Errors, e)
				continue
			default:
				return report, err
			}
		}

		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	s.log.Info().
		Int("total", report.Total).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("failed", report.Failed).
		Msg("Seed completed")
	return report, nil
}

// entryFor builds the entry a seed record should be saved as
func (s *seedService) entryFor(ctx context.Context, seed *models.EntrySeed) (*models.Entry, bool, error) {
	slug := seed.Slug
	if slug == "" {
		slug = validation.Slugify(seed.Title)
	}

	entry, err := s.entries.GetBySlug(ctx, slug)
	created := errors.Is(err, models.ErrNotFound)
	switch {
	case created:
		entry = &models.Entry{Slug: slug}
	case err != nil:
		return nil, false, err
	}

	entry.Title = seed.Title
	entry.Content = seed.Content
	entry.Published = seed.Published
	if created && seed.Date != "" {
		// Validated by ValidateSeed.
		ts, _ := validation.ParseDate(seed.Date)
		entry.Timestamp = ts.UTC()
	}
	return entry, created, nil
}
