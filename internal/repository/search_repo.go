package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/personal-page/site/internal/database"
	"github.com/personal-page/site/internal/models"
)

// searchRepo is the Postgres full-text implementation of SearchRepository
type searchRepo struct {
	db *database.DB
}

// NewSearchRepo creates a new search repository
func NewSearchRepo(db *database.DB) SearchRepository {
	return &searchRepo{db: db}
}

// Search matches expr against the index with plainto_tsquery, so every term
// is required, and ranks hits with ts_rank. The simple config neither stems
// nor drops stop words. Drafts are never returned.
func (r *searchRepo) Search(ctx context.Context, expr string) ([]models.SearchResult, error) {
	query := `
		SELECT e.id, e.title, e.slug, e.content, e.published, e.created_at,
		       ts_rank(si.document, query) AS score
		FROM search_index si
		JOIN entries e ON e.id = si.entry_id,
		     plainto_tsquery('simple', $1) query
		WHERE si.document @@ query
		  AND e.published
		ORDER BY score DESC, e.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, expr)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	results := []models.SearchResult{}
	for rows.Next() {
		var entry models.Entry
		var score float64
		err := rows.Scan(
			&entry.ID, &entry.Title, &entry.Slug, &entry.Content, &entry.Published, &entry.Timestamp,
			&score,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, models.SearchResult{Entry: &entry, Score: score})
	}
	return results, rows.Err()
}

// Rebuild rewrites every index row from the entries table in one transaction
func (r *searchRepo) Rebuild(ctx context.Context) (int, error) {
	var rebuilt int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO search_index (entry_id, content)
			SELECT id, title || E'\n' || content FROM entries
			ON CONFLICT (entry_id) DO UPDATE SET content = excluded.content
		`
		res, err := tx.ExecContext(ctx, query)
		if err != nil {
			return fmt.Errorf("rebuild search index: %w", err)
		}
		rebuilt, err = res.RowsAffected()
		return err
	})
	return int(rebuilt), err
}

// IndexedCount returns the number of rows in the search index
func (r *searchRepo) IndexedCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_index").Scan(&count)
	return count, err
}
