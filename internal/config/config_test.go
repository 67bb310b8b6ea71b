package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// clearSecrets keeps the developer's real keys out of the tests.
func clearSecrets(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"BOOLEAN_TAVILY_API_KEY", "TAVILY_API_KEY",
		"BOOLEAN_OPENAI_API_KEY", "OPENAI_API_KEY",
		"BOOLEAN_GEMINI_API_KEY", "GEMINI_API_KEY",
		"BOOLEAN_SLACK_WEBHOOK_URL", "SLACK_WEBHOOK_URL",
		"BOOLEAN_REDIS_URL", "REDIS_URL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearSecrets(t)
	path := writeConfig(t, "config.yaml", `
settings:
  results_per_query: 5
  days_back: 3
queries:
  - name: platform
    string: '"platform engineer" site:greenhouse.io'
  - name: disabled
    string: 'x'
    enabled: false
search:
  api_key: tvly-test
  delay: 500ms
scoring:
  provider: openai
  api_key: sk-test
history:
  path: history.txt
notification:
  type: log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.ResultsPerQuery != 5 {
		t.Errorf("ResultsPerQuery = %d, want 5", cfg.Search.ResultsPerQuery)
	}
	if cfg.Search.DaysBack != 3 {
		t.Errorf("DaysBack = %d, want 3", cfg.Search.DaysBack)
	}
	if cfg.Search.DelayBetweenQueries != 500*time.Millisecond {
		t.Errorf("DelayBetweenQueries = %v, want 500ms", cfg.Search.DelayBetweenQueries)
	}
	if cfg.Search.APIKey != "tvly-test" {
		t.Errorf("Search.APIKey = %q", cfg.Search.APIKey)
	}
	if got := cfg.EnabledQueries(); len(got) != 1 || got[0].Name != "platform" {
		t.Errorf("EnabledQueries = %+v, want only platform", got)
	}
	if cfg.Scoring.Model != defaultOpenAIModel {
		t.Errorf("Scoring.Model = %q, want %q", cfg.Scoring.Model, defaultOpenAIModel)
	}
	if cfg.History.Backend != "file" || cfg.History.Path != "history.txt" || cfg.History.Match != "substring" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Report.Dir != defaultReportDir {
		t.Errorf("Report.Dir = %q, want %q", cfg.Report.Dir, defaultReportDir)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearSecrets(t)
	path := writeConfig(t, "config.yaml", "queries: []\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.ResultsPerQuery != 10 {
		t.Errorf("ResultsPerQuery = %d, want 10", cfg.Search.ResultsPerQuery)
	}
	if cfg.Search.DaysBack != 7 {
		t.Errorf("DaysBack = %d, want 7", cfg.Search.DaysBack)
	}
	if cfg.Search.DelayBetweenQueries != 2*time.Second {
		t.Errorf("DelayBetweenQueries = %v, want 2s", cfg.Search.DelayBetweenQueries)
	}
	if cfg.Search.Endpoint != defaultTavilyEndpoint {
		t.Errorf("Endpoint = %q", cfg.Search.Endpoint)
	}
	if cfg.History.Path != defaultHistoryPath {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, defaultHistoryPath)
	}
}

func TestLoad_OriginalJSONConfig(t *testing.T) {
	clearSecrets(t)
	path := writeConfig(t, "boolean-search-config.json", `{
  "settings": {"results_per_query": 50, "delay_between_queries_seconds": 1.5, "days_back": 14},
  "queries": [
    {"name": "pm", "string": "\"product manager\" (site:lever.co OR site:greenhouse.io)"},
    {"name": "off", "string": "unused", "enabled": false}
  ]
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.ResultsPerQuery != maxResultsPerQuery {
		t.Errorf("ResultsPerQuery = %d, want capped at %d", cfg.Search.ResultsPerQuery, maxResultsPerQuery)
	}
	if cfg.Search.DelayBetweenQueries != 1500*time.Millisecond {
		t.Errorf("DelayBetweenQueries = %v, want 1.5s", cfg.Search.DelayBetweenQueries)
	}
	if cfg.Search.DaysBack != 14 {
		t.Errorf("DaysBack = %d, want 14", cfg.Search.DaysBack)
	}
	if len(cfg.EnabledQueries()) != 1 {
		t.Errorf("EnabledQueries = %d, want 1", len(cfg.EnabledQueries()))
	}
}

func TestLoad_SecretsFromEnvironment(t *testing.T) {
	clearSecrets(t)
	t.Setenv("BOOLEAN_TAVILY_API_KEY", "tvly-prefixed")
	t.Setenv("OPENAI_API_KEY", "sk-unprefixed")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T/B/X")

	path := writeConfig(t, "config.yaml", `
notification:
  type: slack
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.APIKey != "tvly-prefixed" {
		t.Errorf("Search.APIKey = %q, want tvly-prefixed", cfg.Search.APIKey)
	}
	if cfg.Scoring.APIKey != "sk-unprefixed" {
		t.Errorf("Scoring.APIKey = %q, want sk-unprefixed", cfg.Scoring.APIKey)
	}
	if cfg.Notification.WebhookURL != "https://hooks.slack.com/services/T/B/X" {
		t.Errorf("WebhookURL = %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_ExpandsEnvInFile(t *testing.T) {
	clearSecrets(t)
	t.Setenv("JOBSCOUT_TEST_MODEL", "gpt-4.1-mini")
	path := writeConfig(t, "config.yaml", `
scoring:
  model: ${JOBSCOUT_TEST_MODEL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scoring.Model != "gpt-4.1-mini" {
		t.Errorf("Scoring.Model = %q, want gpt-4.1-mini", cfg.Scoring.Model)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "bad.yaml", "queries: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown provider", "scoring:\n  provider: claude\n"},
		{"unknown backend", "history:\n  backend: mongo\n"},
		{"unknown match", "history:\n  match: fuzzy\n"},
		{"redis without url", "history:\n  backend: redis\n"},
		{"slack without webhook", "notification:\n  type: slack\n"},
		{"slack with bad webhook", "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n"},
		{"zero results per query", "settings:\n  results_per_query: 0\n"},
		{"enabled query without string", "queries:\n  - name: empty\n"},
		{"bad delay", "search:\n  delay: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearSecrets(t)
			path := writeConfig(t, "config.yaml", tt.content)
			if _, err := Load(path); err == nil {
				t.Fatalf("Load: expected error for %s", tt.name)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile(missing) = %v, want nil", err)
	}

	t.Setenv("JOBSCOUT_TEST_PRESET", "kept")
	path := writeConfig(t, ".env", "JOBSCOUT_TEST_FROM_FILE=loaded\nJOBSCOUT_TEST_PRESET=overwritten\n")
	t.Cleanup(func() { os.Unsetenv("JOBSCOUT_TEST_FROM_FILE") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("JOBSCOUT_TEST_FROM_FILE"); got != "loaded" {
		t.Errorf("JOBSCOUT_TEST_FROM_FILE = %q, want loaded", got)
	}
	if got := os.Getenv("JOBSCOUT_TEST_PRESET"); got != "kept" {
		t.Errorf("JOBSCOUT_TEST_PRESET = %q, want kept (no override)", got)
	}
}
