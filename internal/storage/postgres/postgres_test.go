package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/samorobo/twitter-trends-bot/internal/storage"
)

func TestPostgresBackend(t *testing.T) {
	// Only run this test if TRENDS_TEST_PG_DSN is set
	dsn := os.Getenv("TRENDS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres backend test: TRENDS_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	b, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create Postgres backend: %v", err)
	}
	defer b.Close()

	now := time.Now().UTC()

	rec := &storage.RunRecord{
		ID:      "testpg1234",
		Country: "Nigeria",
		Source:  "getdaytrends",
		Trends: []storage.Trend{
			{Name: "Peter Obi", ImageURL: "https://example.com/obi.jpg"},
		},
		Duration:  8 * time.Second,
		CreatedAt: now,
	}

	if err := b.Save(ctx, rec); err != nil {
		t.Fatalf("Failed to save record: %v", err)
	}

	results, err := b.Query(ctx, storage.Filter{Country: "Nigeria", Limit: 10})
	if err != nil {
		t.Fatalf("Failed to query records: %v", err)
	}

	found := false
	for _, got := range results {
		if got.ID != rec.ID {
			continue
		}
		found = true
		if got.Source != rec.Source {
			t.Errorf("Expected Source %s, got %s", rec.Source, got.Source)
		}
		if len(got.Trends) != 1 || got.Trends[0].Name != "Peter Obi" {
			t.Errorf("Expected trends to round-trip, got %+v", got.Trends)
		}
		if got.CreatedAt.Unix() != rec.CreatedAt.Unix() {
			t.Errorf("Expected CreatedAt %v, got %v", rec.CreatedAt, got.CreatedAt)
		}
	}
	if !found {
		t.Errorf("Saved record not returned by query")
	}
}
