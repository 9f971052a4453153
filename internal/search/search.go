package search

import (
	"context"
	"errors"
)

// ErrUnavailable reports that the external search call failed or timed out.
// Lookups make a single attempt; the caller decides whether to retry.
var ErrUnavailable = errors.New("search unavailable")

// Result is a single item returned by a Provider.
type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is everything a Provider returns for one query.
type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// Options constrains a single search request.
type Options struct {
	IncludeDomains []string
	MaxResults     int
	Depth          string
	IncludeAnswer  bool
}

// Provider executes a query and returns ranked results.
type Provider interface {
	Search(ctx context.Context, query string, opts Options) (*Response, error)
}
