package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amishk599/jobscout/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// headerMaxRunes is Slack's limit for plain_text in a header block.
const headerMaxRunes = 150

// SlackNotifier sends alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration // between messages of one detailed alert
}

// NewSlackNotifier returns a notifier that posts to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      500 * time.Millisecond,
	}
}

// Notify sends a summary decision as one text message. A detailed decision becomes a
// header message followed by one Block Kit message per qualifying posting. Messages are
// never retried. Returns an error wrapping model.ErrDispatch only if every message
// fails; individual failures are logged.
func (s *SlackNotifier) Notify(d model.Decision) error {
	messages := []slackPayload{{Text: summaryText(d)}}
	if !d.Summary() {
		for _, p := range d.Qualifying {
			messages = append(messages, buildPayload(p))
		}
	}

	failures := 0
	for i, m := range messages {
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}
		if err := s.send(m); err != nil {
			s.logger.Error("slack notification failed", "message", i, "error", err)
			failures++
		}
	}

	if failures == len(messages) {
		return fmt.Errorf("%w: all %d slack messages failed", model.ErrDispatch, failures)
	}
	s.logger.Info("slack notifications complete",
		"kind", d.Kind.String(),
		"sent", len(messages)-failures,
		"failed", failures,
	)
	return nil
}

func (s *SlackNotifier) send(payload slackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: time.Duration(secs) * time.Second,
			Err:        errors.New("slack returned " + strings.TrimSpace(string(msg))),
		}
	}
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Text   string       `json:"text,omitempty"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample alert of the given kind to verify the integration works.
func SendTestMessage(n model.Notifier, kind model.AlertKind) error {
	return n.Notify(SampleDecision(kind))
}

// SampleDecision builds a fake decision of kind with one clearly labelled posting.
func SampleDecision(kind model.AlertKind) model.Decision {
	sample := model.Posting{
		Title:          "Test Notification",
		Company:        "jobscout",
		Location:       "Everywhere",
		Salary:         model.SalaryNotSpecified,
		Link:           "https://example.com/jobs/test",
		Qualifications: []string{"Receives webhooks", "Renders Block Kit"},
		Score:          9.5,
		Reasoning:      "Integration check, not a real posting.",
		IsNew:          true,
	}
	d := model.Decision{Kind: kind, Threshold: 6.5, Qualifying: []model.Posting{}}
	switch kind {
	case model.AlertNoPostings:
	case model.AlertNoneQualified:
		d.Found = 3
	default:
		d.Kind = model.AlertDetailed
		d.Found = 1
		d.Qualifying = []model.Posting{sample}
	}
	return d
}

func summaryText(d model.Decision) string {
	if d.Summary() {
		return "🔎 " + d.Message()
	}
	return "🎯 *" + d.Message() + "*"
}

func formatScore(p model.Posting) string {
	s := strconv.FormatFloat(p.Score, 'f', 1, 64) + "/10"
	if p.IsNew {
		s += "  🆕 new"
	}
	return s
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

func buildPayload(p model.Posting) slackPayload {
	title := orUnknown(p.Title)
	if p.Company != "" {
		title = p.Company + ": " + title
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: truncateRunes("🚀 "+title, headerMaxRunes)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + orUnknown(p.Company)},
				{Type: "mrkdwn", Text: "*Location:*\n" + orUnknown(p.Location)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Salary:*\n" + orUnknown(p.Salary)},
				{Type: "mrkdwn", Text: "*Score:*\n" + formatScore(p)},
			},
		},
	}

	var detail strings.Builder
	for _, q := range p.Qualifications {
		detail.WriteString("• " + q + "\n")
	}
	if p.Reasoning != "" {
		detail.WriteString("_" + p.Reasoning + "_")
	}
	if text := strings.TrimSpace(detail.String()); text != "" {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: text},
		})
	}

	if p.Link != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "Apply Now"},
					URL:   p.Link,
					Style: "primary",
				},
			},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Text: title, Blocks: blocks}
}
