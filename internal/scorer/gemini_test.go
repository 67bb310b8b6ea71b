package scorer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"github.com/amishk599/jobscout/internal/model"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel  string
	gotPrompt string
	gotConfig *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = modelName
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotPrompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: content}}}
}

func TestGemini_Complete(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(`{"summary":`, "", `{"total":0},"jobs":[]}`)}
	p := &GeminiProvider{models: gen, modelName: "gemini-test"}

	got, err := p.Complete(context.Background(), "score this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{\"summary\":\n{\"total\":0},\"jobs\":[]}" {
		t.Errorf("got %q", got)
	}
	if gen.gotModel != "gemini-test" {
		t.Errorf("model = %q, want gemini-test", gen.gotModel)
	}
	if gen.gotPrompt != "score this" {
		t.Errorf("prompt = %q", gen.gotPrompt)
	}
	if gen.gotConfig == nil || gen.gotConfig.ResponseMIMEType != "application/json" {
		t.Errorf("config = %+v, want JSON response MIME type", gen.gotConfig)
	}
	if gen.gotConfig.Temperature == nil || *gen.gotConfig.Temperature != 0 {
		t.Error("temperature should be pinned to 0")
	}
}

func TestGemini_EmptyResponse(t *testing.T) {
	p := &GeminiProvider{models: &fakeGenerator{resp: &genai.GenerateContentResponse{}}, modelName: "m"}
	if _, err := p.Complete(context.Background(), "score this"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGemini_EmptyPrompt(t *testing.T) {
	gen := &fakeGenerator{}
	p := &GeminiProvider{models: gen, modelName: "m"}
	if _, err := p.Complete(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if gen.gotModel != "" {
		t.Error("generator should not be called for an empty prompt")
	}
}

func TestGemini_APIErrorBecomesHTTPError(t *testing.T) {
	apiErr := genai.APIError{Code: http.StatusTooManyRequests, Status: "RESOURCE_EXHAUSTED", Message: "quota"}
	p := &GeminiProvider{models: &fakeGenerator{err: apiErr}, modelName: "m"}

	_, err := p.Complete(context.Background(), "score this")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %v is not *model.HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", httpErr.StatusCode)
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), " ", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
