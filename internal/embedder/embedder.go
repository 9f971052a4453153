package embedder

import (
	"context"
	"database/sql"
	"log"
	"time"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/db"
)

// Run finds all cached shoes missing embeddings and processes them.
func Run(ctx context.Context, database *sql.DB, aiClient *ai.Client) error {
	// 1. Find work to do
	targets, err := db.GetUnembeddedShoes(database)
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		log.Println("✨ All cached shoes are already embedded.")
		return nil
	}
	log.Printf("Found %d new shoes to embed...", len(targets))

	// 2. Process loop
	count := 0
	for name, textToEmbed := range targets {
		log.Printf("Embedding: %s", name)

		// Generate vector
		blob, _, err := aiClient.EmbedString(ctx, textToEmbed)
		if err != nil {
			log.Printf("⚠️ Error embedding %s: %v", name, err)
			time.Sleep(1 * time.Second) // Backoff on error
			continue
		}

		// Save vector
		if err := db.UpdateEmbedding(database, name, blob); err != nil {
			log.Printf("⚠️ Error saving to DB: %v", err)
			continue
		}

		count++
		// Rate limit for free tier safety (approx 60 RPM max)
		time.Sleep(1 * time.Second)
	}

	log.Printf("🎉 Successfully embedded %d shoes.", count)
	return nil
}
