package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig holds infrastructure config from standard env vars
type AppConfig struct {
	DBPath     string
	ConfigPath string // Path to the YAML config file
}

// FileConfig holds all application settings loaded from YAML.
type FileConfig struct {
	Model          string       `yaml:"model"`
	EmbeddingModel string       `yaml:"embedding_model"`
	Search         SearchConfig `yaml:"search"`
	Scrape         ScrapeConfig `yaml:"scrape"`
}

// SearchConfig tunes the Tavily search client.
type SearchConfig struct {
	Depth          string   `yaml:"depth"`
	MaxResults     int      `yaml:"max_results"`
	TrustedDomains []string `yaml:"trusted_domains"`
}

// ScrapeConfig holds the selectors for the review-page scraper.
type ScrapeConfig struct {
	Selectors Selectors `yaml:"selectors"`
}

type Selectors struct {
	CookieButton    string `yaml:"cookie_button"`
	NewsletterPopup string `yaml:"newsletter_popup"`
	ContentWait     string `yaml:"content_wait"`
	ProductName     string `yaml:"product_name"`
	Content         string `yaml:"content"`
}

// The six review sites shoe lookups are restricted to. Used when the YAML
// config omits trusted_domains.
var DefaultTrustedDomains = []string{
	"runrepeat.com",
	"solereview.com",
	"believeintherun.com",
	"roadrunnersports.com",
	"runnersworld.com",
	"doctorsofrunning.com",
}

// GetAppConfig reads basic infrastructure settings from environment variables.
func GetAppConfig() (AppConfig, error) {
	dbPath := os.Getenv("DB_PATH")
	configPath := os.Getenv("CONFIG_PATH")

	// Set defaults if not provided
	if dbPath == "" {
		dbPath = "./local-data/shoes.db"
	}
	if configPath == "" {
		configPath = "config.yaml"
	}

	return AppConfig{
		DBPath:     dbPath,
		ConfigPath: configPath,
	}, nil
}

// LoadFileConfig reads the YAML file and fills in defaults for anything the
// file leaves out. A missing file is fine: all settings have defaults.
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *FileConfig) applyDefaults() {
	if c.Model == "" {
		c.Model = "gemini-1.5-flash"
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = "text-embedding-004"
	}
	if c.Search.Depth == "" {
		c.Search.Depth = "advanced"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if len(c.Search.TrustedDomains) == 0 {
		c.Search.TrustedDomains = append([]string(nil), DefaultTrustedDomains...)
	}
}

// GetTavilyAPIKey reads and validates the Tavily API key. Absence is a
// startup-fatal condition for any command that searches.
func GetTavilyAPIKey() (string, error) {
	key := os.Getenv("TAVILY_API_KEY")
	if key == "" {
		return "", fmt.Errorf("TAVILY_API_KEY environment variable is required (get a key at https://tavily.com)")
	}
	return key, nil
}
