package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jobscout/internal/model"
)

const (
	// DefaultTavilyEndpoint is the Tavily search API.
	DefaultTavilyEndpoint = "https://api.tavily.com/search"

	tavilyMaxResults = 20
	snippetBytes     = 200
)

var _ model.Searcher = (*TavilySearcher)(nil)

// tavilyRequest mirrors the Tavily /search request body.
type tavilyRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
	Days        int    `json:"days,omitempty"`
}

// tavilyResponse mirrors the relevant fields of the Tavily response.
type tavilyResponse struct {
	Results []struct {
		URL     string `json:"url"`
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"results"`
}

// TavilySearcher runs Boolean queries against the Tavily search API.
type TavilySearcher struct {
	endpoint    string
	apiKey      string
	searchDepth string
	maxResults  int
	daysBack    int
	client      *http.Client
}

// NewTavilySearcher creates a searcher. maxResults is capped at the API limit of 20.
func NewTavilySearcher(endpoint, apiKey, searchDepth string, maxResults, daysBack int, client *http.Client) *TavilySearcher {
	if endpoint == "" {
		endpoint = DefaultTavilyEndpoint
	}
	if searchDepth == "" {
		searchDepth = "basic"
	}
	return &TavilySearcher{
		endpoint:    endpoint,
		apiKey:      apiKey,
		searchDepth: searchDepth,
		maxResults:  min(maxResults, tavilyMaxResults),
		daysBack:    daysBack,
		client:      client,
	}
}

// Search runs a single query. Non-200 responses are returned as *model.HTTPError.
func (s *TavilySearcher) Search(ctx context.Context, q model.Query) ([]model.SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{
		APIKey:      s.apiKey,
		Query:       q.String,
		SearchDepth: s.searchDepth,
		MaxResults:  s.maxResults,
		Days:        s.daysBack,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily search %q: marshal request: %w", q.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily search %q: %w", q.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily search %q: %w", q.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily search %q: %w", q.Name, statusError(resp))
	}

	var tr tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("tavily search %q: decode response: %w", q.Name, err)
	}

	results := make([]model.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		results = append(results, model.SearchResult{
			Query:   q.Name,
			URL:     r.URL,
			Title:   extractText(r.Title),
			Snippet: truncateBytes(extractText(r.Content), snippetBytes),
		})
	}
	return results, nil
}
