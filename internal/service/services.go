package service

import (
	"context"
	"io"

	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/repository"
	"github.com/rs/zerolog"
)

// EntryService defines the interface for blog entry operations
type EntryService interface {
	Save(ctx context.Context, entry *models.Entry) error
	Get(ctx context.Context, id string) (*models.Entry, error)
	GetBySlug(ctx context.Context, slug string) (*models.Entry, error)
	Public(ctx context.Context) ([]*models.Entry, error)
	Drafts(ctx context.Context) ([]*models.Entry, error)
	SetPublished(ctx context.Context, slug string, published bool) (*models.Entry, error)
	Count(ctx context.Context) (int, error)
}

// SearchService defines the interface for ranked search over published entries
type SearchService interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
	Reindex(ctx context.Context) (int, error)
	IndexedCount(ctx context.Context) (int, error)
}

// SeedService loads entries from a YAML seed file
type SeedService interface {
	Seed(ctx context.Context, r io.Reader) (*models.SeedReport, error)
}

// AuthService defines the single-author password login
type AuthService interface {
	Enabled() bool
	Login(password string) (string, error)
	Authenticated(token string) bool
	Logout(token string)
	StartSweeper(ctx context.Context)
	StopSweeper()
}

// Services holds all service interfaces
type Services struct {
	Entry  EntryService
	Search SearchService
	Seed   SeedService
	Auth   AuthService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	entrySvc := newEntryService(repos.Entry, log)

	return &Services{
		Entry:  entrySvc,
		Search: newSearchService(repos.Search, log),
		Seed:   newSeedService(entrySvc, log),
		Auth:   newAuthService(cfg.Site, log),
	}
}
