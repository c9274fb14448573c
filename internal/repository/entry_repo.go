package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/personal-page/site/internal/database"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/search"
)

const entryColumns = `id, title, slug, content, published, created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// entryRepo is the concrete implementation of EntryRepository
type entryRepo struct {
	db *database.DB
}

// NewEntryRepo creates a new entry repository
func NewEntryRepo(db *database.DB) EntryRepository {
	return &entryRepo{db: db}
}

// Save upserts the entry row and its search index row in a single transaction
func (r *entryRepo) Save(ctx context.Context, entry *models.Entry) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO entries (id, title, slug, content, published, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				title = excluded.title,
				slug = excluded.slug,
				content = excluded.content,
				published = excluded.published
		`
		_, err := tx.ExecContext(ctx, query,
			entry.ID, entry.Title, entry.Slug, entry.Content, entry.Published, entry.Timestamp,
		)
		if err != nil {
			return mapWriteError(err)
		}

		return syncSearchIndex(ctx, tx, entry.ID, entry.Title, entry.Content)
	})
	if err != nil {
		return fmt.Errorf("save entry %q: %w", entry.Slug, err)
	}
	return nil
}

// syncSearchIndex writes the search projection for one entry. It must run in
// the same transaction as the entry write.
func syncSearchIndex(ctx context.Context, tx *sql.Tx, entryID, title, content string) error {
	query := `
		INSERT INTO search_index (entry_id, content)
		VALUES ($1, $2)
		ON CONFLICT (entry_id) DO UPDATE SET content = excluded.content
	`
	if _, err := tx.ExecContext(ctx, query, entryID, search.Document(title, content)); err != nil {
		return fmt.Errorf("sync search index: %w", err)
	}
	return nil
}

// mapWriteError turns a unique violation into models.ErrSlugConflict.
// The primary key is upserted, so slug is the only unique column that can collide.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return models.ErrSlugConflict
	}
	return err
}

// GetByID retrieves an entry by ID
func (r *entryRepo) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves an entry by slug
func (r *entryRepo) GetBySlug(ctx context.Context, slug string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

func (r *entryRepo) getOne(ctx context.Context, query string, arg string) (*models.Entry, error) {
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListPublic returns published entries, most recent first
func (r *entryRepo) ListPublic(ctx context.Context) ([]*models.Entry, error) {
	return r.list(ctx, true)
}

// ListDrafts returns unpublished entries, most recent first
func (r *entryRepo) ListDrafts(ctx context.Context) ([]*models.Entry, error) {
	return r.list(ctx, false)
}

func (r *entryRepo) list(ctx context.Context, published bool) ([]*models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM entries
		WHERE published = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, published)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the total number of entries
func (r *entryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	return count, err
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var entry models.Entry
	err := row.Scan(
		&entry.ID, &entry.Title, &entry.Slug, &entry.Content, &entry.Published, &entry.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
