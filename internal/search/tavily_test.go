package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobscout/internal/model"
)

func TestSearch_Success(t *testing.T) {
	var gotReq tavilyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"url": "https://boards.greenhouse.io/acme/jobs/1", "title": "Platform Engineer &amp; SRE", "content": "<p>Build   the\nplatform</p>"},
				{"url": "https://jobs.lever.co/beta/2", "title": "Data Analyst", "content": ""}
			]
		}`))
	}))
	defer srv.Close()

	s := NewTavilySearcher(srv.URL, "tvly-key", "", 50, 7, srv.Client())
	results, err := s.Search(context.Background(), model.Query{Name: "platform", String: `"platform engineer"`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotReq.APIKey != "tvly-key" {
		t.Errorf("api_key = %q, want tvly-key", gotReq.APIKey)
	}
	if gotReq.Query != `"platform engineer"` {
		t.Errorf("query = %q", gotReq.Query)
	}
	if gotReq.MaxResults != 20 {
		t.Errorf("max_results = %d, want capped at 20", gotReq.MaxResults)
	}
	if gotReq.SearchDepth != "basic" {
		t.Errorf("search_depth = %q, want basic", gotReq.SearchDepth)
	}
	if gotReq.Days != 7 {
		t.Errorf("days = %d, want 7", gotReq.Days)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	r := results[0]
	if r.Query != "platform" {
		t.Errorf("Query = %q, want platform", r.Query)
	}
	if r.Title != "Platform Engineer & SRE" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Snippet != "Build the platform" {
		t.Errorf("Snippet = %q, want collapsed plain text", r.Snippet)
	}
}

func TestSearch_SnippetTruncated(t *testing.T) {
	long := strings.Repeat("é", 150) // 300 bytes
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{{"url": "https://x/jobs/1", "title": "t", "content": long}},
		})
	}))
	defer srv.Close()

	s := NewTavilySearcher(srv.URL, "k", "basic", 10, 7, srv.Client())
	results, err := s.Search(context.Background(), model.Query{Name: "q", String: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(results[0].Snippet); got != snippetBytes {
		t.Errorf("snippet length = %d bytes, want %d", got, snippetBytes)
	}
}

func TestSearch_HTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		retryAfter string
		wantMsg    string
		wantRetry  time.Duration
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"detail": {"error": "bad key"}}`, wantMsg: "bad key"},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"detail": "slow down"}`, retryAfter: "30", wantMsg: "slow down", wantRetry: 30 * time.Second},
		{name: "server error without body", status: http.StatusBadGateway, wantMsg: "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewTavilySearcher(srv.URL, "k", "basic", 10, 7, srv.Client())
			_, err := s.Search(context.Background(), model.Query{Name: "q", String: "q"})
			if err == nil {
				t.Fatal("expected error")
			}

			var httpErr *model.HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error %v is not *model.HTTPError", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if httpErr.RetryAfter != tt.wantRetry {
				t.Errorf("RetryAfter = %v, want %v", httpErr.RetryAfter, tt.wantRetry)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	s := NewTavilySearcher(srv.URL, "k", "basic", 10, 7, srv.Client())
	if _, err := s.Search(context.Background(), model.Query{Name: "q", String: "q"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTruncateBytes(t *testing.T) {
	if got := truncateBytes("hello", 10); got != "hello" {
		t.Errorf("truncateBytes short = %q", got)
	}
	if got := truncateBytes("héllo", 2); got != "h" {
		t.Errorf("truncateBytes mid-rune = %q, want %q", got, "h")
	}
}
