package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/amishk599/jobscout/internal/model"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{6.5, 6.5},
		{10, 10},
		{11, 1.1},
		{80, 8.0},
		{100, 10},
		{150, 10},
		{-2, 0},
	}
	for _, tt := range tests {
		if got := NormalizeScore(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAnalyze_FencedResponseWithProse(t *testing.T) {
	raw := "Here are the results:\n```json\n" + `{
		"summary": {"total": 9, "top_score": 85, "avg_score": 70},
		"jobs": [
			{"title": "SRE", "company": "Acme", "location": "Remote", "salary": null,
			 "link": "https://boards.greenhouse.io/acme/jobs/1",
			 "qualifications": ["Go", " ", "Kubernetes"], "score": 85, "reasoning": "strong"},
			{"title": "Analyst", "company": "Beta", "location": "NYC", "salary": "$120k",
			 "link": "https://jobs.lever.co/beta/2", "qualifications": "SQL", "score": "5.5"}
		]
	}` + "\n```\nLet me know if you need more."

	result, err := Analyze(raw)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2 (recomputed from jobs)", result.Total)
	}
	if result.TopScore != 8.5 {
		t.Errorf("TopScore = %v, want 8.5", result.TopScore)
	}
	if result.AvgScore != 7.0 {
		t.Errorf("AvgScore = %v, want scorer's 70 normalized to 7", result.AvgScore)
	}

	sre := result.Jobs[0]
	if sre.Score != 8.5 {
		t.Errorf("jobs[0].Score = %v, want 8.5", sre.Score)
	}
	if sre.Salary != model.SalaryNotSpecified {
		t.Errorf("jobs[0].Salary = %q, want %q", sre.Salary, model.SalaryNotSpecified)
	}
	if len(sre.Qualifications) != 2 || sre.Qualifications[1] != "Kubernetes" {
		t.Errorf("jobs[0].Qualifications = %q", sre.Qualifications)
	}

	analyst := result.Jobs[1]
	if analyst.Score != 5.5 {
		t.Errorf("jobs[1].Score = %v, want 5.5 from numeric string", analyst.Score)
	}
	if analyst.Salary != "$120k" {
		t.Errorf("jobs[1].Salary = %q", analyst.Salary)
	}
	if len(analyst.Qualifications) != 1 || analyst.Qualifications[0] != "SQL" {
		t.Errorf("jobs[1].Qualifications = %q, want [SQL]", analyst.Qualifications)
	}
	if analyst.Reasoning != "" {
		t.Errorf("jobs[1].Reasoning = %q, want empty", analyst.Reasoning)
	}
}

func TestAnalyze_DefaultsMissingFields(t *testing.T) {
	result, err := Analyze(`{"summary": {"total": 1}, "jobs": [{"title": 42, "link": "https://x/jobs/1"}]}`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	p := result.Jobs[0]
	if p.Title != "42" {
		t.Errorf("Title = %q, want string form of number", p.Title)
	}
	if p.Score != 0 {
		t.Errorf("Score = %v, want 0 for missing score", p.Score)
	}
	if p.Qualifications == nil || len(p.Qualifications) != 0 {
		t.Errorf("Qualifications = %#v, want empty non-nil slice", p.Qualifications)
	}
	if result.AvgScore != 0 || result.TopScore != 0 {
		t.Errorf("aggregates = %v/%v, want 0/0", result.TopScore, result.AvgScore)
	}
}

func TestAnalyze_AvgComputedWhenAbsent(t *testing.T) {
	result, err := Analyze(`{"summary": {"total": 0}, "jobs": [{"score": 4}, {"score": 8}, {"score": 90}]}`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3", result.Total)
	}
	if result.TopScore != 9 {
		t.Errorf("TopScore = %v, want 9", result.TopScore)
	}
	if result.AvgScore != 7 {
		t.Errorf("AvgScore = %v, want mean 7", result.AvgScore)
	}
}

func TestAnalyze_EmptyJobs(t *testing.T) {
	result, err := Analyze(`{"summary": {"total": 3, "top_score": 9, "avg_score": 6}, "jobs": []}`)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Total != 0 || result.TopScore != 0 || result.AvgScore != 0 {
		t.Errorf("result = %+v, want all zero", result)
	}
	if result.Jobs == nil {
		t.Error("Jobs should be an empty slice, not nil")
	}
}

func TestAnalyze_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose only", "I could not find any jobs."},
		{"invalid json", `{"summary": {"total": 1}, "jobs": [}`},
		{"missing jobs", `{"summary": {"total": 1}}`},
		{"missing summary total", `{"summary": {}, "jobs": []}`},
		{"null summary total", `{"summary": {"total": null}, "jobs": []}`},
		{"jobs not array", `{"summary": {"total": 1}, "jobs": {"title": "x"}}`},
		{"job not object", `{"summary": {"total": 1}, "jobs": ["x"]}`},
		{"two objects", `{"summary": {"total": 0}, "jobs": []} and {"more": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Analyze(tt.raw)
			if !errors.Is(err, model.ErrParse) {
				t.Fatalf("error = %v, want ErrParse", err)
			}
			if result.Total != 0 || len(result.Jobs) != 0 {
				t.Errorf("result = %+v, want empty", result)
			}
		})
	}
}

func TestAnalyze_NormalizationErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"word score", `{"summary": {"total": 1}, "jobs": [{"score": "high"}]}`},
		{"object score", `{"summary": {"total": 1}, "jobs": [{"score": {"value": 8}}]}`},
		{"bool score", `{"summary": {"total": 1}, "jobs": [{"score": true}]}`},
		{"array avg", `{"summary": {"total": 1, "avg_score": [7]}, "jobs": [{"score": 7}]}`},
		{"word top", `{"summary": {"total": 1, "top_score": "best"}, "jobs": [{"score": 7}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(tt.raw)
			if !errors.Is(err, model.ErrNormalization) {
				t.Fatalf("error = %v, want ErrNormalization", err)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`},
		{"Sure! {\"a\":1} Hope this helps.", `{"a":1}`},
	}
	for _, tt := range tests {
		got, err := extractJSON(tt.in)
		if err != nil {
			t.Errorf("extractJSON(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
