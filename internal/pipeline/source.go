package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/amishk599/jobscout/internal/collector"
	"github.com/amishk599/jobscout/internal/model"
)

// Source yields one text blob per query for a run.
type Source interface {
	Collect(ctx context.Context) ([]string, collector.Stats, error)
}

// LiveSource runs the configured queries against the search API.
type LiveSource struct {
	collector *collector.Collector
	queries   []model.Query
}

func NewLiveSource(c *collector.Collector, queries []model.Query) *LiveSource {
	return &LiveSource{collector: c, queries: queries}
}

func (s *LiveSource) Collect(ctx context.Context) ([]string, collector.Stats, error) {
	return s.collector.Collect(ctx, s.queries)
}

// FileSource reads pre-collected blobs, one per file, such as the output of
// `jobscout search --output`.
type FileSource struct {
	paths []string
}

func NewFileSource(paths ...string) *FileSource {
	return &FileSource{paths: paths}
}

func (s *FileSource) Collect(_ context.Context) ([]string, collector.Stats, error) {
	var stats collector.Stats
	blobs := make([]string, 0, len(s.paths))
	for _, p := range s.paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, stats, fmt.Errorf("reading input %s: %w", p, err)
		}
		stats.Queries++
		blobs = append(blobs, string(data))
	}
	return blobs, stats, nil
}
