package history

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

// Match selects how a link is looked up in the history blob.
type Match string

const (
	// MatchSubstring treats a link as seen when it occurs anywhere in the blob.
	MatchSubstring Match = "substring"
	// MatchExact treats a link as seen only when it equals a whole stored line.
	MatchExact Match = "exact"
)

// IsNew reports whether link is absent from the history blob. A link that is a
// substring of a stored link counts as seen. Postings without a link are always new.
func IsNew(link, history string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return true
	}
	return !strings.Contains(history, link)
}

// Store is the deduplication store for one run: load once, tag postings, append the
// new links once at the end.
type Store struct {
	backend Backend
	match   Match
	logger  *slog.Logger

	blob  string
	lines map[string]bool
}

func NewStore(backend Backend, match Match, logger *slog.Logger) *Store {
	if match == "" {
		match = MatchSubstring
	}
	return &Store{
		backend: backend,
		match:   match,
		logger:  logger,
		lines:   make(map[string]bool),
	}
}

// Load reads the persisted history. A missing history is empty; an unreadable one is a
// model.ErrPersistence.
func (s *Store) Load(ctx context.Context) error {
	blob, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load history: %w", model.ErrPersistence, err)
	}
	s.blob = blob
	s.lines = make(map[string]bool)
	for _, line := range strings.Split(blob, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			s.lines[line] = true
		}
	}
	s.logger.Debug("history loaded", "entries", len(s.lines), "bytes", len(blob))
	return nil
}

// IsNew reports whether link has not been seen by a previous run.
func (s *Store) IsNew(link string) bool {
	if s.match == MatchExact {
		link = strings.TrimSpace(link)
		return link == "" || !s.lines[link]
	}
	return IsNew(link, s.blob)
}

// Tag sets IsNew on every posting and returns the distinct non-empty links of the new
// ones, in posting order. A link spanning several lines cannot be stored as one history
// entry: its posting is reported new and the link is not recorded.
func (s *Store) Tag(postings []model.Posting) []string {
	var links []string
	queued := make(map[string]bool)
	for i := range postings {
		link := strings.TrimSpace(postings[i].Link)
		if strings.ContainsAny(link, "\r\n") {
			s.logger.Warn("link spans several lines, not recorded", "link", link)
			postings[i].IsNew = true
			continue
		}
		postings[i].IsNew = s.IsNew(link)
		if !postings[i].IsNew || link == "" || queued[link] {
			continue
		}
		queued[link] = true
		links = append(links, link)
	}
	return links
}

// Save appends links to the persisted history. Failure is a model.ErrPersistence.
func (s *Store) Save(ctx context.Context, links []string) error {
	if len(links) == 0 {
		return nil
	}
	if err := s.backend.Append(ctx, links); err != nil {
		return fmt.Errorf("%w: append %d links: %w", model.ErrPersistence, len(links), err)
	}
	s.blob += joinLines(links)
	for _, l := range links {
		s.lines[l] = true
	}
	s.logger.Info("history updated", "appended", len(links), "entries", len(s.lines))
	return nil
}

// Entries returns the number of distinct links currently known.
func (s *Store) Entries() int {
	return len(s.lines)
}
