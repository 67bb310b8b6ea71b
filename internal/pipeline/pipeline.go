package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/jobscout/internal/alert"
	"github.com/amishk599/jobscout/internal/analysis"
	"github.com/amishk599/jobscout/internal/collector"
	"github.com/amishk599/jobscout/internal/history"
	"github.com/amishk599/jobscout/internal/metrics"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/rank"
	"github.com/amishk599/jobscout/internal/report"
)

// Scorer turns the collected buffer into the model's raw reply.
type Scorer interface {
	Score(ctx context.Context, results string) (string, error)
}

// Deps wires a Pipeline. Reports and Metrics may be nil.
type Deps struct {
	Source   Source
	Scorer   Scorer
	History  *history.Store
	Notifier model.Notifier
	Reports  *report.Writer
	Metrics  *metrics.Recorder

	MetricsTextfile string
	TopN            int     // defaults to rank.DefaultTopN
	Threshold       float64 // defaults to alert.DefaultThreshold
	Logger          *slog.Logger
}

// Pipeline owns one run: collect → score → parse/normalize → dedup → rank → alert →
// notify → persist history → report.
type Pipeline struct {
	deps  Deps
	now   func() time.Time
	newID func() string
}

func New(deps Deps) *Pipeline {
	if deps.TopN <= 0 {
		deps.TopN = rank.DefaultTopN
	}
	if deps.Threshold <= 0 {
		deps.Threshold = alert.DefaultThreshold
	}
	return &Pipeline{deps: deps, now: time.Now, newID: uuid.NewString}
}

// Run executes one run. Stage failures degrade the result and are recorded in
// RunSummary.Degraded. Only a history failure (model.ErrPersistence) or a cancelled
// context is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (model.RunSummary, error) {
	start := p.now()
	sum := model.RunSummary{
		RunID:     p.newID(),
		StartedAt: start,
		Analysis:  model.EmptyAnalysis(),
		Top:       []model.Posting{},
	}
	logger := p.deps.Logger.With("run_id", sum.RunID)
	logger.Info("run started")

	if err := p.deps.History.Load(ctx); err != nil {
		p.degrade(&sum, logger, "history", err)
		return sum, err
	}

	blobs, stats, err := p.deps.Source.Collect(ctx)
	sum.Queries = stats.Queries
	p.deps.Metrics.Queries(stats.Queries-stats.Failed, stats.Failed)
	if err != nil {
		return sum, fmt.Errorf("run %s: %w", sum.RunID, err)
	}

	sum.Analysis = p.analyze(ctx, &sum, logger, blobs)

	links := p.deps.History.Tag(sum.Analysis.Jobs)
	sum.Appended = len(links)
	sum.Top = rank.Rank(sum.Analysis.Jobs, p.deps.TopN)
	sum.Decision = alert.Decide(sum.Analysis.Jobs, p.deps.Threshold)

	if err := p.deps.Notifier.Notify(sum.Decision); err != nil {
		if !errors.Is(err, model.ErrDispatch) {
			err = fmt.Errorf("%w: %w", model.ErrDispatch, err)
		}
		p.degrade(&sum, logger, "notify", err)
	}

	var runErr error
	if err := p.deps.History.Save(ctx, links); err != nil {
		p.degrade(&sum, logger, "history", err)
		sum.Appended = 0
		runErr = err
	}

	// The report reflects the final appended count and every degraded stage.
	if p.deps.Reports != nil {
		if _, _, err := p.deps.Reports.Write(sum); err != nil {
			p.degrade(&sum, logger, "report", err)
		}
	}

	elapsed := p.now().Sub(start)
	p.deps.Metrics.Run(sum, elapsed)
	if err := p.deps.Metrics.WriteTextfile(p.deps.MetricsTextfile); err != nil {
		logger.Warn("metrics not written", "error", err)
	}

	logger.Info("run complete",
		"queries", sum.Queries,
		"postings", sum.Analysis.Total,
		"top_score", sum.Analysis.TopScore,
		"new", sum.Appended,
		"alert", sum.Decision.Kind.String(),
		"degraded", len(sum.Degraded),
		"elapsed", elapsed.Round(time.Millisecond),
	)
	return sum, runErr
}

// analyze merges, scores, parses and normalizes. Any failure yields the empty result.
func (p *Pipeline) analyze(ctx context.Context, sum *model.RunSummary, logger *slog.Logger, blobs []string) model.AnalysisResult {
	buf, err := collector.Merge(blobs, collector.MaxBufferBytes)
	if errors.Is(err, model.ErrCollectionEmpty) {
		sum.Empty = true
		logger.Info("no search results collected, skipping scoring")
		return model.EmptyAnalysis()
	}
	sum.Bytes = buf.Bytes
	sum.Truncated = buf.Truncated
	logger.Info("results collected",
		"blobs", buf.Blobs,
		"bytes", buf.Bytes,
		"duplicate_lines", buf.DroppedLines,
		"truncated", buf.Truncated,
	)

	scoreStart := p.now()
	raw, err := p.deps.Scorer.Score(ctx, buf.Text)
	p.deps.Metrics.ScoringLatency(p.now().Sub(scoreStart))
	if err != nil {
		p.degrade(sum, logger, "score", err)
		return model.EmptyAnalysis()
	}

	result, err := analysis.Analyze(raw)
	if err != nil {
		stage := "parse"
		if errors.Is(err, model.ErrNormalization) {
			stage = "normalize"
		}
		p.degrade(sum, logger, stage, err)
		return model.EmptyAnalysis()
	}
	return result
}

func (p *Pipeline) degrade(sum *model.RunSummary, logger *slog.Logger, stage string, err error) {
	logger.Error("stage failed", "stage", stage, "error", err)
	sum.Degraded = append(sum.Degraded, fmt.Sprintf("%s: %v", stage, err))
	p.deps.Metrics.StageError(stage)
}
