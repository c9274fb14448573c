package repository

import (
	"context"

	"github.com/personal-page/site/internal/database"
	"github.com/personal-page/site/internal/models"
)

// EntryRepository defines the interface for blog entry data operations
type EntryRepository interface {
	// Save inserts or updates the entry and its search index row in one
	// transaction. A slug collision returns models.ErrSlugConflict and
	// leaves the store unchanged.
	Save(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	GetBySlug(ctx context.Context, slug string) (*models.Entry, error)
	ListPublic(ctx context.Context) ([]*models.Entry, error)
	ListDrafts(ctx context.Context) ([]*models.Entry, error)
	Count(ctx context.Context) (int, error)
}

// SearchRepository defines the interface for search index operations
type SearchRepository interface {
	// Search runs a ranked match of expr against published entries,
	// most relevant first.
	Search(ctx context.Context, expr string) ([]models.SearchResult, error)
	// Rebuild recomputes every index row from its entry.
	Rebuild(ctx context.Context) (int, error)
	IndexedCount(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Entry  EntryRepository
	Search SearchRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Entry:  NewEntryRepo(db),
		Search: NewSearchRepo(db),
	}
}
