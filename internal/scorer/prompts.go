package scorer

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/score_postings.md
var scorePromptRaw string

// ScoreTemplate is the instruction template sent with every scoring request.
// Parsed once at package init.
var ScoreTemplate = template.Must(template.New("score_postings").Parse(scorePromptRaw))
