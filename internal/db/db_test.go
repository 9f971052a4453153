package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"mspro-labs/sole-scout/internal/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// TestShoeUPSERT tests the insert and update logic keyed by shoe name.
func TestShoeUPSERT(t *testing.T) {
	db := openTestDB(t)

	// 1. Test INSERT
	shoe1 := models.ShoeSpecs{
		Name:          "Nike Pegasus 41",
		HeelToToeDrop: "10mm",
		Weight:        "9.8oz",
		Summary:       "A versatile daily trainer.",
		Sources:       []models.ShoeSource{{URL: "https://runrepeat.com/nike-pegasus-41"}},
	}

	count, err := SaveShoes(db, []models.ShoeSpecs{shoe1})
	if err != nil {
		t.Fatalf("SaveShoes (insert) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row affected for insert, got %d", count)
	}

	var drop string
	if err := db.QueryRow("SELECT heel_drop FROM shoe WHERE name = ?", shoe1.Name).Scan(&drop); err != nil {
		t.Fatalf("Failed to query inserted data: %v", err)
	}
	if drop != "10mm" {
		t.Errorf("Inserted drop mismatch. Got '%s'", drop)
	}

	// 2. Test UPDATE (ON CONFLICT)
	shoe2 := shoe1
	shoe2.HeelToToeDrop = "9mm" // revised spec
	shoe2.Summary = "Updated summary."

	if _, err = SaveShoes(db, []models.ShoeSpecs{shoe2}); err != nil {
		t.Fatalf("SaveShoes (update) failed: %v", err)
	}

	var summary string
	if err := db.QueryRow("SELECT heel_drop, summary FROM shoe WHERE name = ?", shoe1.Name).Scan(&drop, &summary); err != nil {
		t.Fatalf("Failed to query updated data: %v", err)
	}
	if drop != "9mm" || summary != "Updated summary." {
		t.Errorf("Update mismatch: drop=%s summary=%s", drop, summary)
	}

	// Still a single row
	var n int
	db.QueryRow("SELECT COUNT(*) FROM shoe").Scan(&n)
	if n != 1 {
		t.Errorf("Expected 1 row after upsert, got %d", n)
	}
}

// Failed lookups must never be cached.
func TestSaveShoesSkipsFailedEntries(t *testing.T) {
	db := openTestDB(t)

	shoes := []models.ShoeSpecs{
		{Name: "Brooks Ghost 16", Summary: "Good shoe."},
		{Name: "Hoka Clifton 9", Summary: "Search failed: outage", SearchError: "outage"},
		{Summary: "nameless"},
	}
	if _, err := SaveShoes(db, shoes); err != nil {
		t.Fatalf("SaveShoes failed: %v", err)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM shoe").Scan(&n)
	if n != 1 {
		t.Errorf("Expected only the successful entry cached, got %d rows", n)
	}
}

func TestGetRecentShoesRestoresSourceURLs(t *testing.T) {
	db := openTestDB(t)

	shoe := models.ShoeSpecs{
		Name:    "Saucony Triumph 22",
		Summary: "Plush.",
		Sources: []models.ShoeSource{
			{URL: "https://runrepeat.com/a"},
			{URL: "https://solereview.com/b"},
		},
	}
	if _, err := SaveShoes(db, []models.ShoeSpecs{shoe}); err != nil {
		t.Fatalf("SaveShoes failed: %v", err)
	}

	recent, err := GetRecentShoes(db, 10)
	if err != nil {
		t.Fatalf("GetRecentShoes failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 shoe, got %d", len(recent))
	}
	urls := recent[0].SourceURLs()
	if len(urls) != 2 || urls[0] != "https://runrepeat.com/a" {
		t.Errorf("source URLs wrong: %v", urls)
	}
}

func TestEmbeddingLifecycle(t *testing.T) {
	db := openTestDB(t)

	if _, err := SaveShoes(db, []models.ShoeSpecs{{Name: "New Balance 1080v14", Summary: "Max cushion."}}); err != nil {
		t.Fatalf("SaveShoes failed: %v", err)
	}

	targets, err := GetUnembeddedShoes(db)
	if err != nil {
		t.Fatalf("GetUnembeddedShoes failed: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("expected 1 unembedded shoe, got %d", len(targets))
	}

	if err := UpdateEmbedding(db, "New Balance 1080v14", []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("UpdateEmbedding failed: %v", err)
	}

	vectors, err := GetShoeVectors(db)
	if err != nil {
		t.Fatalf("GetShoeVectors failed: %v", err)
	}
	if len(vectors) != 1 || vectors[0].Name != "New Balance 1080v14" {
		t.Fatalf("vectors wrong: %+v", vectors)
	}

	// Re-saving the shoe invalidates the stale vector.
	if _, err := SaveShoes(db, []models.ShoeSpecs{{Name: "New Balance 1080v14", Summary: "Refreshed."}}); err != nil {
		t.Fatalf("SaveShoes failed: %v", err)
	}
	targets, _ = GetUnembeddedShoes(db)
	if len(targets) != 1 {
		t.Errorf("expected embedding to be invalidated on update, got %d unembedded", len(targets))
	}
}

func TestSearchHistoryCache(t *testing.T) {
	db := openTestDB(t)

	if err := SaveCachedQuery(db, "plush daily trainer", []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("SaveCachedQuery failed: %v", err)
	}

	blob, err := GetCachedQuery(db, "plush daily trainer")
	if err != nil {
		t.Fatalf("GetCachedQuery failed: %v", err)
	}
	if len(blob) != 4 {
		t.Errorf("blob wrong: %v", blob)
	}

	entries, err := ListSearchHistory(db)
	if err != nil || len(entries) != 1 {
		t.Fatalf("ListSearchHistory wrong: %v, %v", entries, err)
	}

	affected, err := ClearSearchHistory(db, "plush daily trainer")
	if err != nil || affected != 1 {
		t.Fatalf("ClearSearchHistory wrong: %d, %v", affected, err)
	}

	if _, err := GetCachedQuery(db, "plush daily trainer"); err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows after clear, got %v", err)
	}
}
