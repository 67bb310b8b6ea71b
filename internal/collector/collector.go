package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/ratelimit"
)

// Stats counts what one collection pass saw.
type Stats struct {
	Queries  int
	Failed   int
	RawHits  int
	Postings int // hits accepted by the job-posting filter
}

// Collector runs the configured queries one after another and turns each query's hits
// into a text blob for Merge.
type Collector struct {
	searcher model.Searcher
	filter   model.ResultFilter
	policy   ratelimit.Policy
	upstream string // rate-limit key
	logger   *slog.Logger
}

// New creates a collector. All queries share one upstream key, so the policy's delay
// applies between every pair of consecutive queries.
func New(searcher model.Searcher, filter model.ResultFilter, policy ratelimit.Policy, upstream string, logger *slog.Logger) *Collector {
	return &Collector{
		searcher: searcher,
		filter:   filter,
		policy:   policy,
		upstream: upstream,
		logger:   logger,
	}
}

// Collect runs every query sequentially and returns one blob per query that produced
// postings. A failing query is logged and contributes nothing. The only error returned
// is a cancelled context, together with the blobs gathered so far.
func (c *Collector) Collect(ctx context.Context, queries []model.Query) ([]string, Stats, error) {
	var blobs []string
	var stats Stats

	for _, q := range queries {
		if err := c.policy.Wait(ctx, c.upstream); err != nil {
			return blobs, stats, fmt.Errorf("collect: %w", err)
		}

		stats.Queries++
		c.logger.Info("running query", "query", q.Name)

		raw, err := c.searcher.Search(ctx, q)
		if err != nil {
			stats.Failed++
			c.logger.Warn("query failed, skipping", "query", q.Name, "error", err)
			if ctx.Err() != nil {
				return blobs, stats, fmt.Errorf("collect: %w", ctx.Err())
			}
			continue
		}

		var postings []model.SearchResult
		for _, r := range raw {
			if c.filter.Match(r) {
				postings = append(postings, r)
			}
		}
		stats.RawHits += len(raw)
		stats.Postings += len(postings)

		c.logger.Info("query complete",
			"query", q.Name,
			"results", len(raw),
			"job_postings", len(postings),
		)

		if blob := FormatResults(q.Name, postings); blob != "" {
			blobs = append(blobs, blob)
		}
	}

	return blobs, stats, nil
}

// FormatResults renders one query's hits as a blob: a header line followed by one line
// per hit, so identical hits from overlapping queries become identical lines.
// Returns "" when there are no hits.
func FormatResults(queryName string, results []model.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", queryName)
	for _, r := range results {
		fmt.Fprintf(&b, "- %s | %s | %s\n", r.Title, r.URL, r.Snippet)
	}
	return b.String()
}
