package scorer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/jobscout/internal/model"
)

// Scorer renders the scoring prompt and performs the single model call of a run.
type Scorer struct {
	provider LLMProvider
	tmpl     *template.Template
	profile  string
	logger   *slog.Logger
}

// New creates a scorer that sends profile and the collected buffer through tmpl.
func New(provider LLMProvider, tmpl *template.Template, profile string, logger *slog.Logger) *Scorer {
	return &Scorer{
		provider: provider,
		tmpl:     tmpl,
		profile:  profile,
		logger:   logger,
	}
}

// Score asks the model to score the postings in results and returns its raw reply.
// There is no retry: any failure is wrapped with model.ErrScoringUnavailable.
func (s *Scorer) Score(ctx context.Context, results string) (string, error) {
	var prompt bytes.Buffer
	if err := s.tmpl.Execute(&prompt, struct {
		Profile string
		Results string
	}{
		Profile: s.profile,
		Results: results,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w: %w", model.ErrScoringUnavailable, err)
	}

	start := time.Now()
	raw, err := s.provider.Complete(ctx, prompt.String())
	if err != nil {
		return "", fmt.Errorf("llm complete: %w: %w", model.ErrScoringUnavailable, err)
	}

	s.logger.Info("scoring complete",
		"prompt_bytes", prompt.Len(),
		"response_bytes", len(raw),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return raw, nil
}

// LoadProfile reads the candidate profile document. An empty profile is an error.
func LoadProfile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read profile %s: %w", path, err)
	}
	profile := strings.TrimSpace(string(data))
	if profile == "" {
		return "", fmt.Errorf("profile %s is empty", path)
	}
	return profile, nil
}
