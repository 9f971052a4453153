package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// Tavily calls the Tavily search API.
type Tavily struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewTavily constructs a Tavily search provider. Advanced-depth searches can
// be slow, hence the generous client timeout.
func NewTavily(apiKey string) *Tavily {
	return &Tavily{
		apiKey:   apiKey,
		endpoint: tavilyEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewTavilyWithClient constructs a Tavily provider with a custom HTTP client
// and endpoint. Used by tests to point at a local server.
func NewTavilyWithClient(apiKey, endpoint string, client *http.Client) *Tavily {
	return &Tavily{apiKey: apiKey, endpoint: endpoint, client: client}
}

// Search posts a query to Tavily. Exactly one attempt is made per call.
func (t *Tavily) Search(ctx context.Context, query string, opts Options) (*Response, error) {
	if strings.TrimSpace(t.apiKey) == "" {
		return nil, fmt.Errorf("%w: tavily API key is missing", ErrUnavailable)
	}

	body := map[string]any{
		"query":   query,
		"api_key": t.apiKey,
	}
	if opts.Depth != "" {
		body["search_depth"] = opts.Depth
	}
	if opts.MaxResults > 0 {
		body["max_results"] = opts.MaxResults
	}
	if opts.IncludeAnswer {
		body["include_answer"] = "advanced"
	}
	if len(opts.IncludeDomains) > 0 {
		body["include_domains"] = opts.IncludeDomains
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tavily http %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	max := opts.MaxResults
	if max <= 0 {
		max = 5
	}
	out := &Response{Query: query, Answer: decoded.Answer}
	for _, r := range decoded.Results {
		out.Results = append(out.Results, Result{Title: r.Title, URL: r.URL, Content: r.Content, Score: r.Score})
		if len(out.Results) >= max {
			break
		}
	}
	return out, nil
}
