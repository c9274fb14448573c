package service

import (
	"context"
	"time"

	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/repository"
	"github.com/personal-page/site/internal/search"
	"github.com/rs/zerolog"
)

// searchService is the concrete implementation of SearchService
type searchService struct {
	index repository.SearchRepository
	log   zerolog.Logger
}

func newSearchService(index repository.SearchRepository, log zerolog.Logger) *searchService {
	return &searchService{
		index: index,
		log:   log.With().Str("service", "search").Logger(),
	}
}

// Search returns published entries matching every token of query, most
// relevant first. A query without tokens matches nothing.
func (s *searchService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	expr, ok := search.Expression(query)
	if !ok {
		return []models.SearchResult{}, nil
	}

	start := time.Now()
	results, err := s.index.Search(ctx, expr)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("expr", expr).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Search completed")
	return results, nil
}

// Reindex rebuilds every search index row from the entries
func (s *searchService) Reindex(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := s.index.Rebuild(ctx)
	if err != nil {
		return 0, err
	}

	s.log.Info().
		Int("entries", n).
		Dur("duration", time.Since(start)).
		Msg("Search index rebuilt")
	return n, nil
}

// IndexedCount returns the number of rows in the search index
func (s *searchService) IndexedCount(ctx context.Context) (int, error) {
	return s.index.IndexedCount(ctx)
}
