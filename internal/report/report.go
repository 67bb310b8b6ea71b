package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/jobscout/internal/model"
)

//go:embed templates/report.md.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.md.tmpl").
		Funcs(template.FuncMap{
			"score": func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
			"inc":   func(i int) int { return i + 1 },
		}).
		ParseFS(templateFS, "templates/report.md.tmpl"),
)

// Writer stores a markdown report and a JSON snapshot for every run.
type Writer struct {
	dir    string
	logger *slog.Logger
}

func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write renders sum to <dir>/<date>.md and saves it as <dir>/<date>-<runid8>.json.
// A later run on the same day replaces the markdown but keeps its own snapshot.
func (w *Writer) Write(sum model.RunSummary) (mdPath, jsonPath string, err error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", "", fmt.Errorf("creating report dir: %w", err)
	}

	date := sum.StartedAt.Format("2006-01-02")
	mdPath = filepath.Join(w.dir, date+".md")
	jsonPath = filepath.Join(w.dir, date+"-"+shortID(sum.RunID)+".json")

	var md bytes.Buffer
	if err := Render(&md, sum); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(mdPath, md.Bytes(), 0644); err != nil {
		return "", "", fmt.Errorf("writing report: %w", err)
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return mdPath, "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return mdPath, "", fmt.Errorf("writing snapshot: %w", err)
	}

	w.logger.Info("report written", "markdown", mdPath, "snapshot", jsonPath)
	return mdPath, jsonPath, nil
}

// Render writes the markdown report for sum.
func Render(out io.Writer, sum model.RunSummary) error {
	if err := reportTemplate.Execute(out, sum); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// Snapshot describes one saved run on disk.
type Snapshot struct {
	Path    string
	RunID   string
	Started time.Time
	Total   int
	Top     float64
}

// ListSnapshots returns the saved runs in dir, newest first. A missing dir has none.
func ListSnapshots(dir string) ([]Snapshot, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	var snaps []Snapshot
	for _, path := range matches {
		sum, err := LoadSnapshot(path)
		if err != nil {
			continue // not ours
		}
		snaps = append(snaps, Snapshot{
			Path:    path,
			RunID:   sum.RunID,
			Started: sum.StartedAt,
			Total:   sum.Analysis.Total,
			Top:     sum.Analysis.TopScore,
		})
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Started.After(snaps[j].Started)
	})
	return snaps, nil
}

// LoadSnapshot reads one saved run.
func LoadSnapshot(path string) (model.RunSummary, error) {
	var sum model.RunSummary
	data, err := os.ReadFile(path)
	if err != nil {
		return sum, fmt.Errorf("reading snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &sum); err != nil {
		return sum, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	if strings.TrimSpace(sum.RunID) == "" {
		return sum, fmt.Errorf("snapshot %s has no run_id", path)
	}
	return sum, nil
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "run"
	}
	return id
}
