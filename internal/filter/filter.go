package filter

import (
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

// Default heuristics. A hit whose URL contains any ATS pattern is always a posting.
var (
	DefaultURLPatterns = []string{
		"greenhouse.io",
		"lever.co",
		"myworkdayjobs.com",
		"careers.icims.com",
		"/jobs/",
		"/job/",
		"/careers/",
		"/opening/",
		"/apply/",
		"/position/",
	}

	DefaultExcludeURLPatterns = []string{
		"/blog/", "/news/", "/press/", "/about/", "/company/", "/search?",
	}

	DefaultTitleSignals = []string{
		"manager", "director", "engineer", "analyst",
		"specialist", "lead", "associate", "coordinator",
	}
)

// JobPostingFilter matches search hits that look like individual job postings.
// Matching is case-insensitive substring. Empty lists fall back to the defaults.
type JobPostingFilter struct {
	urlPatterns     []string
	excludePatterns []string
	titleSignals    []string
}

// NewJobPostingFilter returns a filter that accepts a hit when its URL contains an ATS
// pattern, or, failing that, when its URL has no excluded path and its title carries a
// role signal.
func NewJobPostingFilter(urlPatterns, excludePatterns, titleSignals []string) *JobPostingFilter {
	return &JobPostingFilter{
		urlPatterns:     lowerAll(orDefault(urlPatterns, DefaultURLPatterns)),
		excludePatterns: lowerAll(orDefault(excludePatterns, DefaultExcludeURLPatterns)),
		titleSignals:    lowerAll(orDefault(titleSignals, DefaultTitleSignals)),
	}
}

// Match reports whether r looks like a job posting.
func (f *JobPostingFilter) Match(r model.SearchResult) bool {
	urlLower := strings.ToLower(r.URL)
	titleLower := strings.ToLower(r.Title)

	if containsAny(urlLower, f.urlPatterns) {
		return true
	}
	if containsAny(urlLower, f.excludePatterns) {
		return false
	}
	return containsAny(titleLower, f.titleSignals)
}

// AcceptAll matches every hit.
type AcceptAll struct{}

func (AcceptAll) Match(model.SearchResult) bool { return true }

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
