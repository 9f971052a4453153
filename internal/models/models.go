package models

// ShoeSource is a single search hit backing a spec lookup.
type ShoeSource struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"` // provider relevance, 0-1
}

// ShoeSpecs holds the extracted specifications for one running shoe.
// Extraction from free text is best-effort, so every spec field is
// optional; an empty field means "not found", not an error.
type ShoeSpecs struct {
	Name          string       `json:"name"`
	HeelToToeDrop string       `json:"heel_to_toe_drop,omitempty"`
	StackHeight   string       `json:"stack_height,omitempty"`
	Cushioning    string       `json:"cushioning,omitempty"`
	Weight        string       `json:"weight,omitempty"`
	Summary       string       `json:"summary"`
	Sources       []ShoeSource `json:"sources,omitempty"`
	SearchError   string       `json:"search_error,omitempty"`
}

// SourceURLs returns the URLs consulted for this shoe.
func (s ShoeSpecs) SourceURLs() []string {
	urls := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		urls = append(urls, src.URL)
	}
	return urls
}

// ShoeSearchResult pairs the original query with the shoes found for it.
// Shoes keeps the same order as the requested names.
type ShoeSearchResult struct {
	Query     string      `json:"query"`
	Shoes     []ShoeSpecs `json:"shoes"`
	RawAnswer string      `json:"raw_answer,omitempty"`
}
