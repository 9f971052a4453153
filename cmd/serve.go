package cmd

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/spf13/cobra"

	"mspro-labs/sole-scout/internal/agent"
	"mspro-labs/sole-scout/internal/ai"
	"mspro-labs/sole-scout/internal/db"
	"mspro-labs/sole-scout/internal/models"
	"mspro-labs/sole-scout/internal/tools"
	"mspro-labs/sole-scout/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web chat UI",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() {
	// 1. Setup
	appCfg, fileCfg := loadConfigs()
	provider, toolCfg := newSearchSetup(fileCfg)

	database, err := db.Connect(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close()

	// 2. Initialize AI
	// We need this alive as long as the server is running.
	ctx := context.Background()
	aiClient, err := ai.NewClient(ctx, fileCfg.Model, fileCfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to initialize AI: %v", err)
	}
	defer aiClient.Close()

	shoeAgent := agent.New(aiClient, tools.All(provider, toolCfg))

	// 3. Pre-build Templates
	homeTmpl, err := template.New("base.html").ParseFS(web.GetTemplatesFS(), "templates/base.html", "templates/home.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// One conversation per server process; a mutex serializes turns. One
	// request is handled per user turn, so this is not a throughput concern.
	var historyMu sync.Mutex
	var history []*genai.Content

	// 4. Define Routes
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		recent, err := db.GetRecentShoes(database, 10)
		if err != nil {
			log.Printf("DB error: %v", err)
			// Recent lookups are decoration; render the chat anyway.
		}

		data := struct {
			Recent []models.ShoeSpecs
		}{Recent: recent}

		if err := homeTmpl.ExecuteTemplate(w, "base.html", data); err != nil {
			log.Printf("Template error: %v", err)
		}
	})

	http.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		message := r.FormValue("message")
		if message == "" {
			http.Error(w, "empty message", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")

		historyMu.Lock()
		defer historyMu.Unlock()

		reply, err := shoeAgent.Stream(r.Context(), message, history, func(chunk string) {
			w.Write([]byte(chunk))
			flusher.Flush()
		})
		if err != nil {
			// Surface as a chat message, never a dead connection.
			log.Printf("Agent error: %v", err)
			w.Write([]byte(agent.Apology(err)))
			flusher.Flush()
			return
		}

		history = agent.AppendTurn(history, message, reply)
	})

	// 5. Start Server
	port := ":8080"
	log.Printf("🌐 Web UI started at http://localhost%s", port)
	server := &http.Server{
		Addr:        port,
		ReadTimeout: 5 * time.Second,
		// Replies stream token by token; give a whole turn time to finish.
		WriteTimeout: 2 * time.Minute,
	}
	log.Fatal(server.ListenAndServe())
}
