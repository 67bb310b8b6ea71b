package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

// MaxScore is the top of the scoring scale.
const MaxScore = 10.0

// Normalize turns a parsed reply into the strict AnalysisResult. Scores above 10 are
// taken to be on a 0-100 scale and divided by 10, then every score is clamped to
// [0, 10]. A non-numeric score fails with model.ErrNormalization.
func Normalize(resp *Response) (model.AnalysisResult, error) {
	result := model.EmptyAnalysis()
	if resp == nil {
		return result, nil
	}

	jobs := make([]model.Posting, 0, len(resp.Jobs))
	var top, sum float64
	for i, rp := range resp.Jobs {
		score, _, err := normalizeScore(rp.Score)
		if err != nil {
			return model.EmptyAnalysis(), fmt.Errorf("jobs[%d].score: %w", i, err)
		}
		jobs = append(jobs, defaultPosting(rp, score))
		top = max(top, score)
		sum += score
	}

	avg, haveAvg, err := normalizeScore(resp.Summary.AvgScore)
	if err != nil {
		return model.EmptyAnalysis(), fmt.Errorf("summary.avg_score: %w", err)
	}
	// top_score is recomputed from the jobs; it is still checked so a garbage value fails.
	if _, _, err := normalizeScore(resp.Summary.TopScore); err != nil {
		return model.EmptyAnalysis(), fmt.Errorf("summary.top_score: %w", err)
	}

	if len(jobs) == 0 {
		return result, nil
	}
	if !haveAvg {
		avg = sum / float64(len(jobs))
	}

	result.Total = len(jobs)
	result.TopScore = top
	result.AvgScore = avg
	result.Jobs = jobs
	return result, nil
}

// Analyze parses and normalizes a raw scorer reply in one step.
func Analyze(raw string) (model.AnalysisResult, error) {
	resp, err := Parse(raw)
	if err != nil {
		return model.EmptyAnalysis(), err
	}
	return Normalize(resp)
}

// NormalizeScore applies the scale correction to a single value: above 10 is divided by
// 10, and the result is clamped to [0, 10]. The boundary is strict, so 10 stays 10.
func NormalizeScore(v float64) float64 {
	if v > MaxScore {
		v /= 10
	}
	return math.Min(math.Max(v, 0), MaxScore)
}

// normalizeScore coerces v to a number and normalizes it. ok is false when v is absent.
func normalizeScore(v any) (score float64, ok bool, err error) {
	f, ok, err := coerceFloat(v)
	if err != nil || !ok {
		return 0, ok, err
	}
	return NormalizeScore(f), true, nil
}

// coerceFloat accepts JSON numbers and numeric strings. nil and blank strings are absent.
func coerceFloat(v any) (float64, bool, error) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q is not a number", model.ErrNormalization, val.String())
		}
		f = parsed
	case float64:
		f = val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0, false, nil
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q is not a number", model.ErrNormalization, val)
		}
		f = parsed
	default:
		return 0, false, fmt.Errorf("%w: unexpected %T score", model.ErrNormalization, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%w: score %v is not finite", model.ErrNormalization, f)
	}
	return f, true, nil
}

// defaultPosting fills the strict Posting from the permissive one.
func defaultPosting(rp rawPosting, score float64) model.Posting {
	salary := coerceString(rp.Salary)
	if salary == "" || strings.EqualFold(salary, "null") {
		salary = model.SalaryNotSpecified
	}
	return model.Posting{
		Title:          coerceString(rp.Title),
		Company:        coerceString(rp.Company),
		Location:       coerceString(rp.Location),
		Salary:         salary,
		Link:           coerceString(rp.Link),
		Qualifications: coerceStrings(rp.Qualifications),
		Score:          score,
		Reasoning:      coerceString(rp.Reasoning),
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// coerceStrings accepts a list of anything or a single string. Blank entries are dropped.
func coerceStrings(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}
