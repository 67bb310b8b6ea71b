package model

import "time"

// RunSummary is everything one invocation produced. It is also the JSON snapshot that
// `jobscout review` reads back.
type RunSummary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Queries   int       `json:"queries"`
	Bytes     int       `json:"collected_bytes"`
	Empty     bool      `json:"empty"`
	Truncated bool      `json:"truncated"`

	Analysis AnalysisResult `json:"analysis"`
	Top      []Posting      `json:"top"`
	Decision Decision       `json:"decision"`
	Appended int            `json:"appended"` // links added to history

	Degraded []string `json:"degraded,omitempty"` // stage errors that did not abort the run
}
