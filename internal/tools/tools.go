// Package tools implements the shoe-lookup capabilities the agent can
// invoke: a single-shoe spec search and a parallel multi-shoe search.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"

	"mspro-labs/sole-scout/internal/extract"
	"mspro-labs/sole-scout/internal/models"
	"mspro-labs/sole-scout/internal/search"
)

// At most this many shoes per multi-shoe call.
const maxShoes = 5

// Tool is a capability the agent can call by name.
type Tool interface {
	Name() string
	Declaration() *genai.FunctionDeclaration
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Config carries the search knobs shared by both tools.
type Config struct {
	TrustedDomains []string
	Depth          string
	MaxResults     int
}

func (c Config) options() search.Options {
	return search.Options{
		IncludeDomains: c.TrustedDomains,
		MaxResults:     c.MaxResults,
		Depth:          c.Depth,
		IncludeAnswer:  true,
	}
}

func buildQuery(shoeName string) string {
	return fmt.Sprintf("%s running shoe specs heel drop stack height weight", shoeName)
}

// parseResponse turns a raw search response into structured specs: sources
// are filtered by relevance and truncated, then the extractor takes a
// best-effort pass over the answer and the kept snippets.
func parseResponse(shoeName string, resp *search.Response) models.ShoeSpecs {
	var sources []models.ShoeSource
	for _, r := range resp.Results {
		if r.Score <= 0.5 {
			continue
		}
		content := r.Content
		if len(content) > 500 {
			content = content[:500]
		}
		sources = append(sources, models.ShoeSource{Title: r.Title, URL: r.URL, Content: content, Score: r.Score})
		if len(sources) >= 3 {
			break
		}
	}

	snippets := []string{resp.Answer}
	for _, s := range sources {
		snippets = append(snippets, s.Content)
	}

	specs := extract.FromSnippets(shoeName, snippets)
	specs.Summary = resp.Answer
	if specs.Summary == "" {
		specs.Summary = "No specifications found."
	}
	specs.Sources = sources
	return specs
}

// --- Single-shoe tool ---

// SpecSearch looks up the specifications of one running shoe.
type SpecSearch struct {
	provider search.Provider
	cfg      Config
}

func NewSpecSearch(provider search.Provider, cfg Config) *SpecSearch {
	return &SpecSearch{provider: provider, cfg: cfg}
}

func (t *SpecSearch) Name() string { return "shoe_specs_search" }

func (t *SpecSearch) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: t.Name(),
		Description: "Search for running shoe specifications including heel-to-toe drop, " +
			"stack height, cushioning, and weight. Input should be a shoe name " +
			"like 'Nike Pegasus 41' or 'ASICS Gel-Nimbus 26'.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"shoe_name": {
					Type:        genai.TypeString,
					Description: "Name of the running shoe to search for",
				},
			},
			Required: []string{"shoe_name"},
		},
	}
}

// Lookup performs one search restricted to the trusted domains and extracts
// specs from the results.
func (t *SpecSearch) Lookup(ctx context.Context, shoeName string) (models.ShoeSearchResult, error) {
	shoeName = strings.TrimSpace(shoeName)
	if shoeName == "" {
		return models.ShoeSearchResult{}, fmt.Errorf("no shoe name provided")
	}

	resp, err := t.provider.Search(ctx, buildQuery(shoeName), t.cfg.options())
	if err != nil {
		return models.ShoeSearchResult{}, fmt.Errorf("failed to search for %s: %w", shoeName, err)
	}

	return models.ShoeSearchResult{
		Query:     shoeName,
		Shoes:     []models.ShoeSpecs{parseResponse(shoeName, resp)},
		RawAnswer: resp.Answer,
	}, nil
}

func (t *SpecSearch) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	name, _ := args["shoe_name"].(string)
	result, err := t.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return toMap(result)
}

// --- Multi-shoe tool ---

// MultiSpecSearch looks up several shoes with one independent search per
// shoe, issued concurrently.
type MultiSpecSearch struct {
	single *SpecSearch
}

func NewMultiSpecSearch(provider search.Provider, cfg Config) *MultiSpecSearch {
	return &MultiSpecSearch{single: NewSpecSearch(provider, cfg)}
}

func (t *MultiSpecSearch) Name() string { return "multi_shoe_search" }

func (t *MultiSpecSearch) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name: t.Name(),
		Description: "Search for specifications of multiple running shoes in parallel. " +
			"Input should be comma-separated shoe names like " +
			"'Nike Pegasus 41, ASICS Gel-Nimbus 26, Brooks Ghost 16'. " +
			"Use this when comparing multiple shoes.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"shoe_names": {
					Type:        genai.TypeString,
					Description: "Comma-separated names of the running shoes to compare",
				},
			},
			Required: []string{"shoe_names"},
		},
	}
}

// Compare searches every shoe concurrently and reassembles the results in
// input order. A failed search only affects its own entry: the specs stay
// empty and the error is noted inline, siblings are returned normally.
func (t *MultiSpecSearch) Compare(ctx context.Context, shoeNames []string) (models.ShoeSearchResult, error) {
	var names []string
	for _, n := range shoeNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return models.ShoeSearchResult{}, fmt.Errorf("no valid shoe names provided")
	}
	if len(names) > maxShoes {
		names = names[:maxShoes]
	}

	shoes := make([]models.ShoeSpecs, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			result, err := t.single.Lookup(ctx, name)
			if err != nil {
				shoes[i] = models.ShoeSpecs{
					Name:        name,
					Summary:     fmt.Sprintf("Search failed: %v", err),
					SearchError: err.Error(),
				}
				return
			}
			shoes[i] = result.Shoes[0]
		}(i, name)
	}
	wg.Wait()

	return models.ShoeSearchResult{
		Query: strings.Join(names, ", "),
		Shoes: shoes,
	}, nil
}

func (t *MultiSpecSearch) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	raw, _ := args["shoe_names"].(string)
	result, err := t.Compare(ctx, strings.Split(raw, ","))
	if err != nil {
		return nil, err
	}
	return toMap(result)
}

// --- Helpers ---

// All returns the tools the agent can call.
func All(provider search.Provider, cfg Config) []Tool {
	return []Tool{
		NewSpecSearch(provider, cfg),
		NewMultiSpecSearch(provider, cfg),
	}
}

// QuickSearch bypasses the agent and runs the multi-shoe tool directly.
// Useful when the caller already knows it wants a spec lookup.
func QuickSearch(ctx context.Context, provider search.Provider, cfg Config, shoeNames []string) (models.ShoeSearchResult, error) {
	return NewMultiSpecSearch(provider, cfg).Compare(ctx, shoeNames)
}

// toMap converts a result into the generic map shape the model API expects
// for function responses.
func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
