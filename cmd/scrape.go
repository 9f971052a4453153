package cmd

import (
	"context"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/db"
	"mspro-labs/sole-scout/internal/embedder"
	"mspro-labs/sole-scout/internal/models"
	"mspro-labs/sole-scout/internal/scraper"
)

// scrapeCmd pulls specs straight from a review page, for shoes the search
// snippets cover poorly.
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url] [shoe name]",
	Short: "Scrape a review page for shoe specs",
	Long: `Fetches a single review page with a headless browser, extracts the shoe
specifications from its text, and caches the result locally. The shoe name
is optional; when omitted it is taken from the page itself.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScrape(args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(pageURL, shoeName string) {
	// 1. Load Config
	appCfg, fileCfg := loadConfigs()

	// 2. Connect to DB
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	// 3. Run Scraper
	specs, err := scraper.Run(&fileCfg.Scrape, pageURL, shoeName)
	if err != nil {
		log.Fatalf("Scraping failed: %v", err)
	}
	log.Printf("Scraped specs for %q (drop=%s stack=%s weight=%s)",
		specs.Name, orDash(specs.HeelToToeDrop), orDash(specs.StackHeight), orDash(specs.Weight))

	// 4. Save to DB
	count, err := db.SaveShoes(database, []models.ShoeSpecs{specs})
	if err != nil {
		log.Fatalf("Failed to save specs: %v", err)
	}
	log.Printf("SUCCESS: Upserted %d record(s).", count)

	// 5. Auto-run Embedder
	log.Println("🤖 Starting automatic embedding...")
	ctx := context.Background()
	aiClient, err := ai.NewClient(ctx, fileCfg.Model, fileCfg.EmbeddingModel)
	if err != nil {
		log.Printf("⚠️ Warning: Could not initialize AI for auto-embedding (check GEMINI_API_KEY): %v", err)
		return // Don't fail the whole scrape if AI fails
	}
	defer aiClient.Close()

	if err := embedder.Run(ctx, database, aiClient); err != nil {
		log.Printf("⚠️ Warning: Auto-embedding failed: %v", err)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
