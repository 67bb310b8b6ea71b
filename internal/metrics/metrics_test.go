package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobscout/internal/model"
)

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.Queries(3, 1)
	r.StageError("scoring")
	r.ScoringLatency(4 * time.Second)
	r.Run(model.RunSummary{
		StartedAt: time.Unix(1_700_000_000, 0),
		Bytes:     1234,
		Analysis:  model.AnalysisResult{Total: 5, TopScore: 8.5, AvgScore: 6},
		Decision:  model.Decision{Qualifying: make([]model.Posting, 2)},
		Appended:  4,
	}, 30*time.Second)

	path := filepath.Join(t.TempDir(), "jobscout.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`jobscout_search_queries_total{outcome="ok"} 3`,
		`jobscout_search_queries_total{outcome="failed"} 1`,
		`jobscout_stage_errors_total{stage="scoring"} 1`,
		`jobscout_scoring_duration_seconds_count 1`,
		"jobscout_collected_bytes 1234",
		"jobscout_postings 5",
		"jobscout_top_score 8.5",
		"jobscout_new_postings 4",
		"jobscout_qualifying_postings 2",
		"jobscout_run_duration_seconds 30",
		"jobscout_last_run_timestamp_seconds 1.70000003e+09",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "go_goroutines") {
		t.Error("runtime metrics leaked into the textfile")
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Queries(1, 0)
	r.StageError("x")
	r.ScoringLatency(time.Second)
	r.Run(model.RunSummary{}, time.Second)
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile on nil = %v, want nil", err)
	}
}

func TestRecorder_EmptyPathSkipsWrite(t *testing.T) {
	if err := New().WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") = %v, want nil", err)
	}
}
