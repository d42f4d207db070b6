package agent

import (
	"encoding/json"
	"strings"

	"github.com/dembasy/ranchhand/internal/domain/models"
)

// ExtractAction recovers a structured action descriptor from a language
// model's free-text response. This is best-effort recovery against an
// unreliable generator, not a strict protocol: each tier is tried in order
// and the first one that yields a descriptor with an action name wins.
//
//  1. parse the whole trimmed response as JSON
//  2. parse the contents of a ```json fenced block
//  3. parse the first balanced brace-delimited substring
//
// A nil return means the response is a plain conversational reply.
func ExtractAction(response string) *models.ActionDescriptor {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return nil
	}

	if desc := tryParseDescriptor(trimmed); desc != nil {
		return desc
	}

	if block := fencedBlock(trimmed); block != "" {
		if desc := tryParseDescriptor(block); desc != nil {
			return desc
		}
	}

	if candidate := braceSubstring(trimmed); candidate != "" {
		if desc := tryParseDescriptor(candidate); desc != nil {
			return desc
		}
	}

	return nil
}

// tryParseDescriptor parses candidate JSON into a descriptor. A payload that
// parses but has no action field is not an action; fall through.
func tryParseDescriptor(candidate string) *models.ActionDescriptor {
	var desc models.ActionDescriptor
	if err := json.Unmarshal([]byte(candidate), &desc); err != nil {
		return nil
	}
	if desc.Action == "" {
		return nil
	}
	if desc.Params == nil {
		desc.Params = map[string]any{}
	}
	return &desc
}

// fencedBlock returns the contents of the first triple-backtick block tagged
// as json, or of a bare fenced block, or "" when no closed fence exists.
func fencedBlock(s string) string {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(s, marker)
		if start < 0 {
			continue
		}
		rest := s[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return ""
}

// braceSubstring scans for the first balanced {...} span, tracking nesting
// depth. String literals are not lexed; a brace inside a quoted value can
// truncate the span, which the caller tolerates as a failed parse.
func braceSubstring(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
