package analysis

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/amishk599/jobscout/internal/model"
)

//go:embed response.schema.json
var responseSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// rawSummary and rawPosting hold the scorer's reply before defaulting. Every field is
// optional and untyped; the scorer is not trusted to follow the requested shape.
type rawSummary struct {
	Total    any `json:"total"`
	TopScore any `json:"top_score"`
	AvgScore any `json:"avg_score"`
}

type rawPosting struct {
	Title          any `json:"title"`
	Company        any `json:"company"`
	Location       any `json:"location"`
	Salary         any `json:"salary"`
	Link           any `json:"link"`
	Qualifications any `json:"qualifications"`
	Score          any `json:"score"`
	Reasoning      any `json:"reasoning"`
}

// Response is a structurally valid scorer reply, not yet normalized.
type Response struct {
	Summary rawSummary   `json:"summary"`
	Jobs    []rawPosting `json:"jobs"`
}

// Parse extracts the JSON object from the scorer's raw reply and checks that it carries
// summary.total and a jobs array. Every failure wraps model.ErrParse.
func Parse(raw string) (*Response, error) {
	cleaned, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrParse, err)
	}

	value, err := decodeJSON([]byte(cleaned))
	if err != nil {
		return nil, fmt.Errorf("%w: decode response JSON: %w", model.ErrParse, err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: load schema: %w", model.ErrParse, err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("%w: schema validation failed: %w", model.ErrParse, err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: re-encode response: %w", model.ErrParse, err)
	}

	var resp Response
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %w", model.ErrParse, err)
	}
	return &resp, nil
}

// extractJSON strips code fences and any prose around the outermost {...}.
func extractJSON(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return "", fmt.Errorf("no JSON object in %d bytes of response", len(raw))
	}
	return raw[start : end+1], nil
}

func decodeJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("response contains trailing content")
	}
	return value, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("response.schema.json", strings.NewReader(responseSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("response.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	return compiledSchema, nil
}
