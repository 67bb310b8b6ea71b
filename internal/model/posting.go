package model

import "context"

// SalaryNotSpecified replaces an absent or null salary.
const SalaryNotSpecified = "Not specified"

// Posting is one scored job listing candidate.
type Posting struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary"`
	Link           string   `json:"link"`
	Qualifications []string `json:"qualifications"`
	Score          float64  `json:"score"`
	Reasoning      string   `json:"reasoning"`
	IsNew          bool     `json:"is_new"`
}

// AnalysisResult is one run's aggregate over all scored postings.
type AnalysisResult struct {
	Total    int       `json:"total"`
	TopScore float64   `json:"top_score"`
	AvgScore float64   `json:"avg_score"`
	Jobs     []Posting `json:"jobs"`
}

// EmptyAnalysis returns the well-formed empty result every degraded stage falls back to.
func EmptyAnalysis() AnalysisResult {
	return AnalysisResult{Jobs: []Posting{}}
}

// SearchResult is one raw hit returned by the search collaborator.
type SearchResult struct {
	Query   string // name of the query that produced it
	URL     string
	Title   string
	Snippet string
}

// Query is one configured Boolean search.
type Query struct {
	Name   string
	String string
}

// Searcher runs a single query against the external search API.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]SearchResult, error)
}

// ResultFilter decides whether a raw search hit looks like a job posting.
type ResultFilter interface {
	Match(r SearchResult) bool
}
