package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a jobscout run.
type Config struct {
	Queries      []QueryConfig
	Search       SearchConfig
	Filters      FilterConfig
	Scoring      ScoringConfig
	History      HistoryConfig
	Notification NotificationConfig
	Report       ReportConfig
	Metrics      MetricsConfig
}

// QueryConfig is one Boolean search string sent to the search API.
type QueryConfig struct {
	Name    string
	String  string
	Enabled bool
}

// SearchConfig controls the Tavily search collaborator.
type SearchConfig struct {
	Endpoint            string
	APIKey              string // falls back to BOOLEAN_TAVILY_API_KEY / TAVILY_API_KEY
	SearchDepth         string
	ResultsPerQuery     int
	DaysBack            int
	DelayBetweenQueries time.Duration // blocking pause between consecutive queries
	Timeout             time.Duration // per-request timeout
}

// FilterConfig holds the job-posting heuristics applied to raw search hits.
// Empty lists fall back to the built-in defaults.
type FilterConfig struct {
	URLPatterns        []string
	ExcludeURLPatterns []string
	TitleSignals       []string
}

// ScoringConfig controls the language-model scorer.
type ScoringConfig struct {
	Provider    string // "openai" or "gemini"
	BaseURL     string // openai only; defaults to https://api.openai.com/v1
	Model       string
	APIKey      string
	Timeout     time.Duration
	ProfilePath string // candidate profile document
}

// HistoryConfig selects where seen posting links are persisted.
type HistoryConfig struct {
	Backend  string // "file", "sqlite", "redis" or "memory"
	Path     string // file or sqlite path
	RedisURL string
	RedisKey string
	Match    string // "substring" or "exact"
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ReportConfig controls where run reports are written.
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// MetricsConfig controls the optional Prometheus textfile output.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // empty disables metrics output
}

const (
	defaultTavilyEndpoint  = "https://api.tavily.com/search"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultGeminiModel     = "gemini-2.5-flash"
	defaultHistoryPath     = ".job_history.txt"
	defaultRedisHistoryKey = "jobscout:history"
	defaultReportDir       = "reports"
	defaultProfilePath     = "profile.md"

	// maxResultsPerQuery is the search API's hard cap.
	maxResultsPerQuery = 20
)

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
// The settings block and queries keep the key names of boolean-search-config.json,
// so that file loads unchanged (JSON is valid YAML).
type rawConfig struct {
	Settings     rawSettings        `yaml:"settings"`
	Queries      []rawQuery         `yaml:"queries"`
	Search       rawSearchConfig    `yaml:"search"`
	Filters      rawFilterConfig    `yaml:"filters"`
	Scoring      rawScoringConfig   `yaml:"scoring"`
	History      rawHistoryConfig   `yaml:"history"`
	Notification NotificationConfig `yaml:"notification"`
	Report       ReportConfig       `yaml:"report"`
	Metrics      MetricsConfig      `yaml:"metrics"`
}

type rawSettings struct {
	ResultsPerQuery            *int     `yaml:"results_per_query"`
	DelayBetweenQueriesSeconds *float64 `yaml:"delay_between_queries_seconds"`
	DaysBack                   *int     `yaml:"days_back"`
}

type rawQuery struct {
	Name    string `yaml:"name"`
	String  string `yaml:"string"`
	Enabled *bool  `yaml:"enabled"`
}

type rawSearchConfig struct {
	Endpoint    string `yaml:"endpoint"`
	APIKey      string `yaml:"api_key"`
	SearchDepth string `yaml:"search_depth"`
	Delay       string `yaml:"delay"`
	Timeout     string `yaml:"timeout"`
}

type rawFilterConfig struct {
	URLPatterns        []string `yaml:"url_patterns"`
	ExcludeURLPatterns []string `yaml:"exclude_url_patterns"`
	TitleSignals       []string `yaml:"title_signals"`
}

type rawScoringConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  string `yaml:"timeout"`
	Profile  string `yaml:"profile"`
}

type rawHistoryConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redis_url"`
	RedisKey string `yaml:"redis_key"`
	Match    string `yaml:"match"`
}

// secrets are read from the environment when the YAML leaves them empty.
// With the BOOLEAN prefix, TavilyAPIKey resolves BOOLEAN_TAVILY_API_KEY first
// and TAVILY_API_KEY second.
type secrets struct {
	TavilyAPIKey    string `envconfig:"TAVILY_API_KEY"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	SlackWebhookURL string `envconfig:"SLACK_WEBHOOK_URL"`
	RedisURL        string `envconfig:"REDIS_URL"`
}

const envPrefix = "BOOLEAN"

// LoadEnvFile loads KEY=value pairs from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var env secrets
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg, err := build(raw, env)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func build(raw rawConfig, env secrets) (*Config, error) {
	var err error

	resultsPerQuery := 10
	if raw.Settings.ResultsPerQuery != nil {
		resultsPerQuery = *raw.Settings.ResultsPerQuery
	}
	if resultsPerQuery > maxResultsPerQuery {
		resultsPerQuery = maxResultsPerQuery
	}

	daysBack := 7
	if raw.Settings.DaysBack != nil {
		daysBack = *raw.Settings.DaysBack
	}

	delay := 2 * time.Second // default
	if raw.Settings.DelayBetweenQueriesSeconds != nil {
		delay = time.Duration(*raw.Settings.DelayBetweenQueriesSeconds * float64(time.Second))
	}
	if raw.Search.Delay != "" {
		delay, err = time.ParseDuration(raw.Search.Delay)
		if err != nil {
			return nil, fmt.Errorf("parse search.delay %q: %w", raw.Search.Delay, err)
		}
	}

	searchTimeout := 20 * time.Second
	if raw.Search.Timeout != "" {
		searchTimeout, err = time.ParseDuration(raw.Search.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse search.timeout %q: %w", raw.Search.Timeout, err)
		}
	}

	scoringTimeout := 120 * time.Second
	if raw.Scoring.Timeout != "" {
		scoringTimeout, err = time.ParseDuration(raw.Scoring.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse scoring.timeout %q: %w", raw.Scoring.Timeout, err)
		}
	}

	queries := make([]QueryConfig, 0, len(raw.Queries))
	for _, q := range raw.Queries {
		enabled := true
		if q.Enabled != nil {
			enabled = *q.Enabled
		}
		queries = append(queries, QueryConfig{Name: q.Name, String: q.String, Enabled: enabled})
	}

	provider := strings.ToLower(orDefault(raw.Scoring.Provider, "openai"))
	model := raw.Scoring.Model
	scoringKey := raw.Scoring.APIKey
	switch provider {
	case "openai":
		model = orDefault(model, defaultOpenAIModel)
		scoringKey = orDefault(scoringKey, env.OpenAIAPIKey)
	case "gemini":
		model = orDefault(model, defaultGeminiModel)
		scoringKey = orDefault(scoringKey, env.GeminiAPIKey)
	}

	notification := raw.Notification
	if notification.Type == "slack" {
		notification.WebhookURL = orDefault(notification.WebhookURL, env.SlackWebhookURL)
	}

	return &Config{
		Queries: queries,
		Search: SearchConfig{
			Endpoint:            orDefault(raw.Search.Endpoint, defaultTavilyEndpoint),
			APIKey:              orDefault(raw.Search.APIKey, env.TavilyAPIKey),
			SearchDepth:         orDefault(raw.Search.SearchDepth, "basic"),
			ResultsPerQuery:     resultsPerQuery,
			DaysBack:            daysBack,
			DelayBetweenQueries: delay,
			Timeout:             searchTimeout,
		},
		Filters: FilterConfig{
			URLPatterns:        raw.Filters.URLPatterns,
			ExcludeURLPatterns: raw.Filters.ExcludeURLPatterns,
			TitleSignals:       raw.Filters.TitleSignals,
		},
		Scoring: ScoringConfig{
			Provider:    provider,
			BaseURL:     orDefault(raw.Scoring.BaseURL, defaultOpenAIBaseURL),
			Model:       model,
			APIKey:      scoringKey,
			Timeout:     scoringTimeout,
			ProfilePath: orDefault(raw.Scoring.Profile, defaultProfilePath),
		},
		History: HistoryConfig{
			Backend:  strings.ToLower(orDefault(raw.History.Backend, "file")),
			Path:     orDefault(raw.History.Path, defaultHistoryPath),
			RedisURL: orDefault(raw.History.RedisURL, env.RedisURL),
			RedisKey: orDefault(raw.History.RedisKey, defaultRedisHistoryKey),
			Match:    strings.ToLower(orDefault(raw.History.Match, "substring")),
		},
		Notification: notification,
		Report: ReportConfig{
			Dir: orDefault(raw.Report.Dir, defaultReportDir),
		},
		Metrics: raw.Metrics,
	}, nil
}

func validate(cfg *Config) error {
	if cfg.Search.ResultsPerQuery <= 0 {
		return fmt.Errorf("settings.results_per_query must be positive, got %d", cfg.Search.ResultsPerQuery)
	}
	if cfg.Search.DaysBack < 0 {
		return fmt.Errorf("settings.days_back must not be negative, got %d", cfg.Search.DaysBack)
	}
	if cfg.Search.DelayBetweenQueries < 0 {
		return fmt.Errorf("delay between queries must not be negative, got %v", cfg.Search.DelayBetweenQueries)
	}
	for i, q := range cfg.Queries {
		if q.Enabled && strings.TrimSpace(q.String) == "" {
			return fmt.Errorf("queries[%d] (%q): string is required", i, q.Name)
		}
	}

	switch cfg.Scoring.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("scoring.provider must be \"openai\" or \"gemini\", got %q", cfg.Scoring.Provider)
	}
	if cfg.Scoring.Timeout <= 0 {
		return fmt.Errorf("scoring.timeout must be positive, got %v", cfg.Scoring.Timeout)
	}

	switch cfg.History.Backend {
	case "file", "sqlite":
		if cfg.History.Path == "" {
			return fmt.Errorf("history.path is required for the %s backend", cfg.History.Backend)
		}
	case "redis":
		if cfg.History.RedisURL == "" {
			return fmt.Errorf("history.redis_url (or REDIS_URL) is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("history.backend must be one of file, sqlite, redis, memory; got %q", cfg.History.Backend)
	}
	switch cfg.History.Match {
	case "substring", "exact":
	default:
		return fmt.Errorf("history.match must be \"substring\" or \"exact\", got %q", cfg.History.Match)
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}

// EnabledQueries returns the queries to run, in config order.
func (c *Config) EnabledQueries() []QueryConfig {
	var out []QueryConfig
	for _, q := range c.Queries {
		if q.Enabled {
			out = append(out, q)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
