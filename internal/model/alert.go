package model

import "fmt"

// AlertKind selects which notification a run produces.
type AlertKind int

const (
	// AlertNoPostings is the summary sent when the run found no postings at all.
	AlertNoPostings AlertKind = iota
	// AlertNoneQualified is the summary sent when postings exist but none reach the threshold.
	AlertNoneQualified
	// AlertDetailed carries the postings at or above the threshold.
	AlertDetailed
)

func (k AlertKind) String() string {
	switch k {
	case AlertNoPostings:
		return "no_postings"
	case AlertNoneQualified:
		return "none_qualified"
	case AlertDetailed:
		return "detailed"
	default:
		return fmt.Sprintf("AlertKind(%d)", int(k))
	}
}

// Decision is the outcome of comparing a run's postings against the alert threshold.
type Decision struct {
	Kind       AlertKind `json:"kind"`
	Threshold  float64   `json:"threshold"`
	Found      int       `json:"found"`      // postings considered
	Qualifying []Posting `json:"qualifying"` // score >= Threshold, sorted by score descending
}

// Summary reports whether the decision is a one-line summary rather than a detailed alert.
func (d Decision) Summary() bool {
	return d.Kind != AlertDetailed
}

// Message renders the one-line form of the decision.
func (d Decision) Message() string {
	switch d.Kind {
	case AlertNoPostings:
		return "No job postings found in this run."
	case AlertNoneQualified:
		return fmt.Sprintf("%d postings found, none scored %.1f or higher.", d.Found, d.Threshold)
	default:
		return fmt.Sprintf("%d of %d postings scored %.1f or higher.", len(d.Qualifying), d.Found, d.Threshold)
	}
}

// Notifier delivers an alert decision to an external channel.
type Notifier interface {
	Notify(d Decision) error
}

func (k AlertKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AlertKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "no_postings":
		*k = AlertNoPostings
	case "none_qualified":
		*k = AlertNoneQualified
	case "detailed":
		*k = AlertDetailed
	default:
		return fmt.Errorf("unknown alert kind %q", string(b))
	}
	return nil
}
