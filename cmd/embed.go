package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/db"
	"mspro-labs/sole-scout/internal/embedder"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Generate AI embeddings for cached shoes",
	Long:  `Finds cached shoes that are missing semantic vectors and generates them using the Gemini API.`,
	Run: func(cmd *cobra.Command, args []string) {
		runEmbed()
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed() {
	ctx := context.Background()

	// 1. Config & DB
	appCfg, fileCfg := loadConfigs()
	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	// 2. Initialize AI
	aiClient, err := ai.NewClient(ctx, fileCfg.Model, fileCfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	defer aiClient.Close()

	// 3. Run Shared Embedder Logic
	if err := embedder.Run(ctx, database, aiClient); err != nil {
		log.Fatalf("Embedding process failed: %v", err)
	}
}
