package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"mspro-labs/sole-scout/internal/models"
)

// Connect opens a connection to the SQLite database and ensures the schema exists.
// It automatically applies recommended settings for concurrency (WAL mode).
func Connect(dbPath string) (*sql.DB, error) {
	// Use robust connection settings to prevent "database locked" errors
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// CreateSchema ensures all tables exist. Exported so tests can build an
// in-memory database.
func CreateSchema(db *sql.DB) error {
	// Looked-up shoes, keyed by name. The embedding column powers the
	// similar-shoe search.
	shoeTable := `
	CREATE TABLE IF NOT EXISTS shoe (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  name TEXT UNIQUE NOT NULL COLLATE NOCASE,
	  heel_drop TEXT,
	  stack_height TEXT,
	  cushioning TEXT,
	  weight TEXT,
	  summary TEXT,
	  source_urls TEXT,
	  first_looked_up_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  last_looked_up_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  summary_embedding BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_shoe_name ON shoe(name);
	`
	if _, err := db.Exec(shoeTable); err != nil {
		return err
	}

	// Search History Table (for local caching of AI query vectors)
	historyTable := `
	CREATE TABLE IF NOT EXISTS search_history (
		query_text TEXT PRIMARY KEY,
		embedding BLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(historyTable); err != nil {
		return err
	}

	return nil
}

// SaveShoes performs a batch UPSERT of looked-up shoes. Entries that failed
// their search (or carry no name) are skipped; a failed lookup should never
// overwrite previously cached specs.
func SaveShoes(db *sql.DB, shoes []models.ShoeSpecs) (int64, error) {
	upsertSQL := `
	INSERT INTO shoe (
	  name, heel_drop, stack_height, cushioning, weight, summary, source_urls,
	  last_looked_up_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
	  heel_drop = excluded.heel_drop,
	  stack_height = excluded.stack_height,
	  cushioning = excluded.cushioning,
	  weight = excluded.weight,
	  summary = excluded.summary,
	  source_urls = excluded.source_urls,
	  last_looked_up_at = CURRENT_TIMESTAMP,
	  summary_embedding = NULL;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64 = 0
	for _, shoe := range shoes {
		if shoe.Name == "" || shoe.SearchError != "" {
			continue
		}
		res, err := stmt.ExecContext(ctx,
			shoe.Name,
			sql.NullString{String: shoe.HeelToToeDrop, Valid: shoe.HeelToToeDrop != ""},
			sql.NullString{String: shoe.StackHeight, Valid: shoe.StackHeight != ""},
			sql.NullString{String: shoe.Cushioning, Valid: shoe.Cushioning != ""},
			sql.NullString{String: shoe.Weight, Valid: shoe.Weight != ""},
			sql.NullString{String: shoe.Summary, Valid: shoe.Summary != ""},
			sql.NullString{String: strings.Join(shoe.SourceURLs(), "\n"), Valid: len(shoe.Sources) > 0},
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to upsert %s: %w", shoe.Name, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return totalAffected, nil
}

// GetRecentShoes returns the most recently looked-up shoes for the web UI.
func GetRecentShoes(db *sql.DB, limit int) ([]models.ShoeSpecs, error) {
	rows, err := db.Query(`
		SELECT name,
		       COALESCE(heel_drop, ''), COALESCE(stack_height, ''),
		       COALESCE(cushioning, ''), COALESCE(weight, ''),
		       COALESCE(summary, ''), COALESCE(source_urls, '')
		FROM shoe
		ORDER BY last_looked_up_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shoes []models.ShoeSpecs
	for rows.Next() {
		var s models.ShoeSpecs
		var urls string
		if err := rows.Scan(&s.Name, &s.HeelToToeDrop, &s.StackHeight, &s.Cushioning, &s.Weight, &s.Summary, &urls); err == nil {
			for _, u := range strings.Split(urls, "\n") {
				if u != "" {
					s.Sources = append(s.Sources, models.ShoeSource{URL: u})
				}
			}
			shoes = append(shoes, s)
		}
	}
	return shoes, nil
}

// --- Embedding & Search Helpers ---

// GetUnembeddedShoes returns a map of name -> text for shoes missing embeddings.
func GetUnembeddedShoes(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT name, COALESCE(cushioning, ''), COALESCE(summary, '') FROM shoe WHERE summary_embedding IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make(map[string]string)
	for rows.Next() {
		var name, cushioning, summary string
		if err := rows.Scan(&name, &cushioning, &summary); err == nil {
			// Combine name, feel and summary for a richer embedding
			results[name] = fmt.Sprintf("Shoe: %s\nCushioning: %s\nSummary: %s", name, cushioning, summary)
		}
	}
	return results, nil
}

// UpdateEmbedding saves the generated vector blob for a specific shoe name.
func UpdateEmbedding(db *sql.DB, name string, embedding []byte) error {
	_, err := db.Exec("UPDATE shoe SET summary_embedding = ? WHERE name = ?", embedding, name)
	return err
}

// ShoeVector is a cached shoe with its embedding, used during similarity search.
type ShoeVector struct {
	Name       string
	Cushioning string
	Summary    string
	Vector     []byte
}

// GetShoeVectors returns all cached shoes that have embeddings.
func GetShoeVectors(db *sql.DB) ([]ShoeVector, error) {
	rows, err := db.Query(`SELECT name, COALESCE(cushioning, ''), COALESCE(summary, ''), summary_embedding FROM shoe WHERE summary_embedding IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ShoeVector
	for rows.Next() {
		var sv ShoeVector
		if err := rows.Scan(&sv.Name, &sv.Cushioning, &sv.Summary, &sv.Vector); err == nil {
			results = append(results, sv)
		}
	}
	return results, nil
}

// GetCachedQuery tries to find a previously searched query vector.
func GetCachedQuery(db *sql.DB, text string) ([]byte, error) {
	var blob []byte
	err := db.QueryRow("SELECT embedding FROM search_history WHERE query_text = ?", text).Scan(&blob)
	return blob, err
}

// SaveCachedQuery saves a new query and its vector to the history table.
func SaveCachedQuery(db *sql.DB, text string, blob []byte) error {
	_, err := db.Exec("INSERT OR IGNORE INTO search_history (query_text, embedding) VALUES (?, ?)", text, blob)
	return err
}

// --- History Management for similar ---

type HistoryEntry struct {
	QueryText string
	CreatedAt time.Time
}

// ListSearchHistory returns all cached queries, newest first.
func ListSearchHistory(db *sql.DB) ([]HistoryEntry, error) {
	rows, err := db.Query("SELECT query_text, created_at FROM search_history ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.QueryText, &e.CreatedAt); err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// ClearSearchHistory removes a specific query from the cache.
func ClearSearchHistory(db *sql.DB, queryText string) (int64, error) {
	res, err := db.Exec("DELETE FROM search_history WHERE query_text = ?", queryText)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearAllSearchHistory wipes the entire cache.
func ClearAllSearchHistory(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM search_history")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
