package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/config"
	"mspro-labs/sole-scout/internal/db"
	"mspro-labs/sole-scout/internal/searcher"
)

var similarCmd = &cobra.Command{
	Use:   "similar [query]",
	Short: "Semantic search for cached shoes by feel",
	Long: `Uses AI to find previously looked-up shoes that match the semantic meaning
of your query.
Examples:
  sole-scout similar "plush max-cushion daily trainer"
  sole-scout similar "firm responsive tempo shoe"

History commands:
  sole-scout similar history
  sole-scout similar clear "query string"
  sole-scout similar clear all`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleSimilar(args)
	},
}

func init() {
	rootCmd.AddCommand(similarCmd)
}

func handleSimilar(args []string) {
	// 1. Setup
	appCfg, fileCfg := loadConfigs()
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	command := strings.ToLower(args[0])

	// 2. Commands
	if command == "history" {
		entries, err := db.ListSearchHistory(database)
		if err != nil {
			log.Fatalf("Failed to list history: %v", err)
		}
		fmt.Println("📜 Search History (Cached Queries)")
		fmt.Println("------------------------------------")
		if len(entries) == 0 {
			fmt.Println("No history found.")
			return
		}
		for _, e := range entries {
			fmt.Printf("[%s] %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.QueryText)
		}
		return
	}

	if command == "clear" {
		if len(args) < 2 {
			log.Fatal("Usage: sole-scout similar clear \"query text\" (or 'all')")
		}
		target := strings.ToLower(strings.TrimSpace(strings.Join(args[1:], " ")))
		var affected int64
		var err error

		if target == "all" {
			affected, err = db.ClearAllSearchHistory(database)
		} else {
			affected, err = db.ClearSearchHistory(database, target)
		}

		if err != nil {
			log.Fatalf("Failed to clear history: %v", err)
		}
		fmt.Printf("🗑️ Done. Removed %d entry(s) from cache.\n", affected)
		return
	}

	// 3. Perform regular search
	query := strings.Join(args, " ")
	if err := performSimilar(database, fileCfg, query); err != nil {
		log.Fatalf("Similar search failed: %v", err)
	}
}

func performSimilar(database *sql.DB, fileCfg *config.FileConfig, queryText string) error {
	ctx := context.Background()

	aiClient, err := ai.NewClient(ctx, fileCfg.Model, fileCfg.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("failed to init AI: %w", err)
	}
	defer aiClient.Close()

	results, err := searcher.Perform(ctx, database, aiClient, queryText)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No embedded shoes in the cache yet. Look some up first, then run 'sole-scout embed'.")
		return nil
	}

	fmt.Printf("\n🔍 Top matches for: \"%s\"\n\n", queryText)
	for i, r := range results {
		fmt.Printf("#%d [%.1f%% match] %s\n", i+1, r.Score*100, r.Item.Name)
		fmt.Printf("   %s\n\n", truncate(r.Item.Summary, 150))
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
