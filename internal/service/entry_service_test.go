package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/mocks"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/service"
	"github.com/rs/zerolog"
)

type testHarness struct {
	services *service.Services
	store    *mocks.MockStore
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	store := mocks.NewMockStore()
	cfg := &config.Config{
		Site: config.SiteConfig{SessionTTL: time.Hour},
	}

	return &testHarness{
		services: service.NewServices(store.Repositories(), cfg, zerolog.Nop()),
		store:    store,
	}
}

func at(day int) time.Time {
	return time.Date(2024, time.January, day, 12, 0, 0, 0, time.UTC)
}

func TestEntryService_SaveDerivesSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Hello World!!", Content: "first post", Published: true}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if entry.Slug != "hello-world-" {
		t.Errorf("Expected slug 'hello-world-', got '%s'", entry.Slug)
	}
	if entry.ID == "" {
		t.Error("Expected an ID to be assigned")
	}
	if entry.Timestamp.IsZero() {
		t.Error("Expected a timestamp to be assigned")
	}
}

func TestEntryService_SaveKeepsExplicitSlug(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Hello World", Slug: "greetings", Content: "x"}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.Slug != "greetings" {
		t.Errorf("Expected explicit slug to be kept, got '%s'", entry.Slug)
	}
}

func TestEntryService_SlugNotRecomputedOnTitleChange(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Original Title", Content: "body"}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	id := entry.ID

	entry.Title = "A Completely New Title"
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}

	stored, err := h.services.Entry.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Slug != "original-title" {
		t.Errorf("Expected slug 'original-title', got '%s'", stored.Slug)
	}
	if stored.Title != "A Completely New Title" {
		t.Errorf("Expected updated title, got '%s'", stored.Title)
	}
	if len(h.store.Entries) != 1 {
		t.Errorf("Expected 1 entry after update, got %d", len(h.store.Entries))
	}
}

func TestEntryService_SlugConflict(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	first := &models.Entry{Title: "Hello World", Content: "first"}
	if err := h.services.Entry.Save(ctx, first); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	second := &models.Entry{Title: "hello, world", Content: "second"}
	err := h.services.Entry.Save(ctx, second)
	if !errors.Is(err, models.ErrSlugConflict) {
		t.Fatalf("Expected ErrSlugConflict, got %v", err)
	}
	if second.ID != "" {
		t.Errorf("Expected failed save to leave ID empty, got '%s'", second.ID)
	}

	if len(h.store.Entries) != 1 {
		t.Errorf("Expected store to be unchanged with 1 entry, got %d", len(h.store.Entries))
	}
	if len(h.store.Index) != 1 {
		t.Errorf("Expected index to be unchanged with 1 row, got %d", len(h.store.Index))
	}
	if got := h.store.Index[first.ID]; got != "Hello World\nfirst" {
		t.Errorf("Expected first entry's index row to be untouched, got %q", got)
	}
}

func TestEntryService_IndexProjection(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Hello World!!", Content: "first post"}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := h.store.Index[entry.ID]; got != "Hello World!!\nfirst post" {
		t.Errorf("Unexpected index content after insert: %q", got)
	}

	// Re-saving unchanged content leaves the projection unchanged
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}
	if got := h.store.Index[entry.ID]; got != "Hello World!!\nfirst post" {
		t.Errorf("Unexpected index content after idempotent save: %q", got)
	}

	entry.Content = "edited post"
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save after edit failed: %v", err)
	}
	if got := h.store.Index[entry.ID]; got != "Hello World!!\nedited post" {
		t.Errorf("Unexpected index content after overwrite: %q", got)
	}
	if len(h.store.Index) != 1 {
		t.Errorf("Expected exactly one index row per entry, got %d", len(h.store.Index))
	}
}

func TestEntryService_Validation(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		entry *models.Entry
		field string
	}{
		{"missing title", &models.Entry{Content: "body"}, "title"},
		{"missing content", &models.Entry{Title: "Title"}, "content"},
		{"bad slug", &models.Entry{Title: "Title", Slug: "Not A Slug", Content: "body"}, "slug"},
		{"non-UUID id", &models.Entry{ID: "42", Title: "Title", Content: "body"}, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.services.Entry.Save(ctx, tt.entry)
			var verr *models.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected error on field '%s', got '%s'", tt.field, verr.Field)
			}
		})
	}

	if h.store.SaveCalls != 0 {
		t.Errorf("Expected no repository writes, got %d", h.store.SaveCalls)
	}
}

func TestEntryService_StoreErrorPropagates(t *testing.T) {
	h := newTestHarness(t)
	h.store.SaveError = errors.New("disk full")

	err := h.services.Entry.Save(context.Background(), &models.Entry{Title: "T", Content: "C"})
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Expected store error to surface, got %v", err)
	}
}

func TestEntryService_Lookups(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Lookup Me", Content: "body", Published: true}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	byID, err := h.services.Entry.Get(ctx, entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	bySlug, err := h.services.Entry.GetBySlug(ctx, "lookup-me")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if diff := cmp.Diff(byID, bySlug); diff != "" {
		t.Errorf("Lookups disagree (-byID +bySlug):\n%s", diff)
	}

	if _, err := h.services.Entry.GetBySlug(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing slug, got %v", err)
	}
	if _, err := h.services.Entry.Get(ctx, "not-a-uuid"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := h.services.Entry.Get(ctx, "7b0d3a4e-3c1f-4a43-9a77-2f7a0a0f0c11"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestEntryService_PublicAndDrafts(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entries := []*models.Entry{
		{Title: "Old Post", Content: "a", Published: true, Timestamp: at(1)},
		{Title: "New Post", Content: "b", Published: true, Timestamp: at(3)},
		{Title: "Middle Post", Content: "c", Published: true, Timestamp: at(2)},
		{Title: "Draft One", Content: "d", Timestamp: at(4)},
		{Title: "Draft Two", Content: "e", Timestamp: at(5)},
	}
	for _, e := range entries {
		if err := h.services.Entry.Save(ctx, e); err != nil {
			t.Fatalf("Save %q failed: %v", e.Title, err)
		}
	}

	public, err := h.services.Entry.Public(ctx)
	if err != nil {
		t.Fatalf("Public failed: %v", err)
	}
	if diff := cmp.Diff([]string{"new-post", "middle-post", "old-post"}, slugs(public)); diff != "" {
		t.Errorf("Public order mismatch (-want +got):\n%s", diff)
	}

	drafts, err := h.services.Entry.Drafts(ctx)
	if err != nil {
		t.Fatalf("Drafts failed: %v", err)
	}
	if diff := cmp.Diff([]string{"draft-two", "draft-one"}, slugs(drafts)); diff != "" {
		t.Errorf("Drafts order mismatch (-want +got):\n%s", diff)
	}

	count, _ := h.services.Entry.Count(ctx)
	if count != 5 {
		t.Errorf("Expected 5 entries, got %d", count)
	}
}

func TestEntryService_SetPublished(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "Flip Me", Content: "body"}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	updated, err := h.services.Entry.SetPublished(ctx, "flip-me", true)
	if err != nil {
		t.Fatalf("SetPublished failed: %v", err)
	}
	if !updated.Published {
		t.Error("Expected entry to be published")
	}
	if updated.ID != entry.ID {
		t.Errorf("Expected ID to be kept, got '%s'", updated.ID)
	}

	// No-op when the flag already matches
	calls := h.store.SaveCalls
	if _, err := h.services.Entry.SetPublished(ctx, "flip-me", true); err != nil {
		t.Fatalf("SetPublished failed: %v", err)
	}
	if h.store.SaveCalls != calls {
		t.Error("Expected no write when the flag is unchanged")
	}

	if _, err := h.services.Entry.SetPublished(ctx, "missing", true); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEntryService_PunctuationOnlyTitle(t *testing.T) {
	h := newTestHarness(t)
	ctx := context.Background()

	entry := &models.Entry{Title: "!!!", Content: "body"}
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if entry.Slug != "-" {
		t.Fatalf("Expected slug '-', got '%s'", entry.Slug)
	}

	entry.Content = "edited body"
	if err := h.services.Entry.Save(ctx, entry); err != nil {
		t.Fatalf("Re-save failed: %v", err)
	}

	published, err := h.services.Entry.SetPublished(ctx, "-", true)
	if err != nil {
		t.Fatalf("SetPublished failed: %v", err)
	}
	if !published.Published || published.Content != "edited body" {
		t.Errorf("Expected published edited entry, got %+v", published)
	}
	if len(h.store.Entries) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(h.store.Entries))
	}
}

func slugs(entries []*models.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Slug)
	}
	return out
}
