package searcher

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/db"
)

// Result holds a single similar-shoe match.
type Result struct {
	Item  db.ShoeVector
	Score float32
}

// Perform finds cached shoes whose summaries are semantically close to the
// query, e.g. "plush max-cushion daily trainer".
func Perform(ctx context.Context, database *sql.DB, aiClient *ai.Client, queryText string) ([]Result, error) {
	// 1. Get Query Vector (Try cache first, then AI)
	queryVector, err := getQueryVector(ctx, database, aiClient, queryText)
	if err != nil {
		return nil, err
	}

	// 2. Load all shoe vectors
	shoes, err := db.GetShoeVectors(database)
	if err != nil {
		return nil, fmt.Errorf("failed to load cached shoes: %w", err)
	}

	// 3. Compare and score
	var results []Result
	for _, shoe := range shoes {
		shoeFloats, err := ai.BytesToFloats(shoe.Vector)
		if err != nil {
			continue
		}
		score := ai.CosineSimilarity(queryVector, shoeFloats)
		results = append(results, Result{Item: shoe, Score: score})
	}

	// 4. Sort by descending score
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	// Limit to Top 5
	if len(results) > 5 {
		results = results[:5]
	}

	return results, nil
}

// getQueryVector handles the "cache-aside" logic for query embeddings.
func getQueryVector(ctx context.Context, database *sql.DB, aiClient *ai.Client, text string) ([]float32, error) {
	// A. Try Cache
	blob, err := db.GetCachedQuery(database, text)
	if err == nil {
		// Cache hit
		return ai.BytesToFloats(blob)
	}

	// B. Cache Miss - Use AI
	log.Printf("🤖 Cache miss for '%s'. Calling Gemini...", text)
	blob, floats, err := aiClient.EmbedString(ctx, text)
	if err != nil {
		return nil, err
	}

	// C. Save to Cache (don't fail the request if cache save fails)
	if err := db.SaveCachedQuery(database, text, blob); err != nil {
		log.Printf("⚠️ Failed to cache query vector: %v", err)
	}

	return floats, nil
}
