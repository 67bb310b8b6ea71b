package collector

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/amishk599/jobscout/internal/model"
)

// MaxBufferBytes is the scorer's request-size budget for collected results.
const MaxBufferBytes = 50_000

// Buffer is the merged candidate-postings text handed to the scorer.
type Buffer struct {
	Text         string
	Blobs        int  // non-blank blobs merged
	Bytes        int  // size before truncation
	DroppedLines int  // exact duplicate lines removed
	Truncated    bool // Text was cut to the byte cap
}

// Merge concatenates blobs in order, drops exact duplicate non-blank lines, and truncates
// the result to maxBytes on a rune boundary. No other rewriting happens. When no blob
// carries any text it returns model.ErrCollectionEmpty.
func Merge(blobs []string, maxBytes int) (Buffer, error) {
	var buf Buffer
	var b strings.Builder
	seen := make(map[string]bool)

	for _, blob := range blobs {
		if strings.TrimSpace(blob) == "" {
			continue
		}
		buf.Blobs++
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		for _, line := range strings.Split(strings.TrimRight(blob, "\n"), "\n") {
			key := strings.TrimRight(line, "\r")
			if strings.TrimSpace(key) != "" {
				if seen[key] {
					buf.DroppedLines++
					continue
				}
				seen[key] = true
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}

	if buf.Blobs == 0 {
		return Buffer{}, fmt.Errorf("merge %d blobs: %w", len(blobs), model.ErrCollectionEmpty)
	}

	text := b.String()
	buf.Bytes = len(text)
	if maxBytes > 0 && len(text) > maxBytes {
		text = truncate(text, maxBytes)
		buf.Truncated = true
	}
	buf.Text = text
	return buf, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
