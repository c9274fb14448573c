package mocks

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/repository"
	"github.com/personal-page/site/internal/search"
)

// MockStore is an in-memory implementation of EntryRepository and
// SearchRepository. Like the Postgres store, a save writes the entry and its
// index row together or not at all.
type MockStore struct {
	Entries     map[string]*models.Entry
	Index       map[string]string // entry ID -> indexed content
	SaveError   error
	SearchError error
	SaveCalls   int
	SearchCalls int
}

// Verify interface compliance
var (
	_ repository.EntryRepository  = (*MockStore)(nil)
	_ repository.SearchRepository = (*MockStore)(nil)
)

func NewMockStore() *MockStore {
	return &MockStore{
		Entries: make(map[string]*models.Entry),
		Index:   make(map[string]string),
	}
}

// Repositories wires the store into both repository slots
func (m *MockStore) Repositories() *repository.Repositories {
	return &repository.Repositories{Entry: m, Search: m}
}

func (m *MockStore) Save(ctx context.Context, entry *models.Entry) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	for id, existing := range m.Entries {
		if id != entry.ID && existing.Slug == entry.Slug {
			return models.ErrSlugConflict
		}
	}

	stored := *entry
	if existing, ok := m.Entries[entry.ID]; ok {
		stored.Timestamp = existing.Timestamp
	}
	m.Entries[entry.ID] = &stored
	m.Index[entry.ID] = search.Document(entry.Title, entry.Content)
	return nil
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	entry, ok := m.Entries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *entry
	return &copied, nil
}

func (m *MockStore) GetBySlug(ctx context.Context, slug string) (*models.Entry, error) {
	for _, entry := range m.Entries {
		if entry.Slug == slug {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockStore) ListPublic(ctx context.Context) ([]*models.Entry, error) {
	return m.list(true), nil
}

func (m *MockStore) ListDrafts(ctx context.Context) ([]*models.Entry, error) {
	return m.list(false), nil
}

func (m *MockStore) list(published bool) []*models.Entry {
	entries := []*models.Entry{}
	for _, entry := range m.Entries {
		if entry.Published == published {
			copied := *entry
			entries = append(entries, &copied)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries
}

func (m *MockStore) Count(ctx context.Context) (int, error) {
	return len(m.Entries), nil
}

// Search requires every term of expr to appear as a word in the indexed
// content. The score is the share of indexed words that are query terms.
func (m *MockStore) Search(ctx context.Context, expr string) ([]models.SearchResult, error) {
	m.SearchCalls++
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	terms := words(expr)

	results := []models.SearchResult{}
	for id, content := range m.Index {
		entry := m.Entries[id]
		if entry == nil || !entry.Published {
			continue
		}

		counts := make(map[string]int)
		docWords := words(content)
		for _, w := range docWords {
			counts[w]++
		}

		hits := 0
		matched := len(terms) > 0
		for _, term := range terms {
			if counts[term] == 0 {
				matched = false
				break
			}
			hits += counts[term]
		}
		if !matched {
			continue
		}

		copied := *entry
		results = append(results, models.SearchResult{
			Entry: &copied,
			Score: float64(hits) / float64(len(docWords)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Timestamp.After(results[j].Entry.Timestamp)
	})
	return results, nil
}

func (m *MockStore) Rebuild(ctx context.Context) (int, error) {
	for id, entry := range m.Entries {
		m.Index[id] = search.Document(entry.Title, entry.Content)
	}
	return len(m.Entries), nil
}

func (m *MockStore) IndexedCount(ctx context.Context) (int, error) {
	return len(m.Index), nil
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
