package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/cobra"

	"mspro-labs/sole-scout/internal/agent"
	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/config"
	"mspro-labs/sole-scout/internal/db"
	"mspro-labs/sole-scout/internal/models"
	"mspro-labs/sole-scout/internal/search"
	"mspro-labs/sole-scout/internal/tools"
)

var rootCmd = &cobra.Command{
	Use:   "sole-scout [shoe names...]",
	Short: "Find and compare running shoe specifications",
	Long: `Sole Scout looks up running shoe specs (heel-to-toe drop, stack height,
cushioning, weight) from trusted review sites.

With one or more shoe names as arguments it runs a quick lookup and exits:
  sole-scout "Nike Pegasus 41" "Brooks Ghost 16"

With no arguments it starts an interactive chat session with the shoe expert
assistant.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			runQuickSearch(args)
		} else {
			runChat()
		}
	},
}

// Execute is the main CLI entry point.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfigs reads env + YAML settings shared by every command.
func loadConfigs() (config.AppConfig, *config.FileConfig) {
	appCfg, err := config.GetAppConfig()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	fileCfg, err := config.LoadFileConfig(appCfg.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	return appCfg, fileCfg
}

// newSearchSetup builds the Tavily provider and tool config. Missing
// credentials are fatal here, at startup, not per request.
func newSearchSetup(fileCfg *config.FileConfig) (search.Provider, tools.Config) {
	apiKey, err := config.GetTavilyAPIKey()
	if err != nil {
		log.Fatalf("%v", err)
	}
	toolCfg := tools.Config{
		TrustedDomains: fileCfg.Search.TrustedDomains,
		Depth:          fileCfg.Search.Depth,
		MaxResults:     fileCfg.Search.MaxResults,
	}
	return search.NewTavily(apiKey), toolCfg
}

// runQuickSearch bypasses the agent and looks the shoes up directly.
func runQuickSearch(shoeNames []string) {
	appCfg, fileCfg := loadConfigs()
	provider, toolCfg := newSearchSetup(fileCfg)

	fmt.Printf("Searching for: %s\n\n", strings.Join(shoeNames, ", "))

	result, err := tools.QuickSearch(context.Background(), provider, toolCfg, shoeNames)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	for _, shoe := range result.Shoes {
		printShoe(shoe)
	}

	cacheResults(appCfg.DBPath, result.Shoes)
}

func printShoe(shoe models.ShoeSpecs) {
	divider := strings.Repeat("=", 50)
	fmt.Println(divider)
	fmt.Printf("📦 %s\n", strings.ToUpper(shoe.Name))
	fmt.Println(divider)
	fmt.Printf("\n%s\n\n", shoe.Summary)

	if shoe.HeelToToeDrop != "" {
		fmt.Printf("  Drop:        %s\n", shoe.HeelToToeDrop)
	}
	if shoe.StackHeight != "" {
		fmt.Printf("  Stack:       %s\n", shoe.StackHeight)
	}
	if shoe.Weight != "" {
		fmt.Printf("  Weight:      %s\n", shoe.Weight)
	}
	if shoe.Cushioning != "" {
		fmt.Printf("  Cushioning:  %s\n", shoe.Cushioning)
	}

	if len(shoe.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range shoe.Sources {
			fmt.Printf("  - %s\n    %s\n", src.Title, src.URL)
		}
	}
	fmt.Println()
}

// cacheResults stores successful lookups locally so 'similar' and the web UI
// can use them. The cache is best-effort: a broken database only warns.
func cacheResults(dbPath string, shoes []models.ShoeSpecs) {
	database, err := db.Connect(dbPath)
	if err != nil {
		log.Printf("⚠️ Skipping lookup cache (database error: %v)", err)
		return
	}
	defer database.Close()

	if _, err := db.SaveShoes(database, shoes); err != nil {
		log.Printf("⚠️ Failed to cache lookups: %v", err)
	}
}

// runChat starts the interactive agent session.
func runChat() {
	_, fileCfg := loadConfigs()
	provider, toolCfg := newSearchSetup(fileCfg)

	ctx := context.Background()
	aiClient, err := ai.NewClient(ctx, fileCfg.Model, fileCfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to initialize AI: %v", err)
	}
	defer aiClient.Close()

	shoeAgent := agent.New(aiClient, tools.All(provider, toolCfg))

	fmt.Println("🏃 Running Shoe Discovery CLI")
	fmt.Println("Type 'quit' to exit")
	fmt.Println()

	var history []*genai.Content
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Println("Goodbye!")
			return
		case "":
			continue
		}

		fmt.Print("\nAssistant: ")
		reply, err := shoeAgent.Stream(ctx, input, history, func(chunk string) {
			fmt.Print(chunk)
		})
		if err != nil {
			fmt.Println(agent.Apology(err))
			continue
		}
		fmt.Println()
		fmt.Println()

		history = agent.AppendTurn(history, input, reply)
	}
}
