// Package sanitize cleans user-supplied form fields before they reach
// prompts, templates or logs.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// Limits applied to every request.
const (
	MaxStringLen = 5000
	MaxListItems = 50
	MaxDepth     = 5
)

// policy is safe for concurrent use once built.
var policy = bluemonday.StrictPolicy()

var dangerous = regexp.MustCompile(`(?i)<\s*/?\s*script|javascript\s*:|vbscript\s*:|data\s*:\s*text/html|\bon\w+\s*=`)

// Fields returns a sanitized deep copy of in. Keys and string values lose
// their markup; lists are capped at MaxListItems and nesting deeper than
// MaxDepth is dropped. Numbers and booleans pass through.
func Fields(in types.Fields) types.Fields {
	if in == nil {
		return types.Fields{}
	}
	return types.Fields(sanitizeMap(in, 1))
}

// String strips markup and script vectors from s and caps its length.
func String(s string) string {
	if s == "" {
		return s
	}
	// Unescaping can resurrect markup from entities, so iterate to a fixed point.
	for range 3 {
		cleaned := html.UnescapeString(policy.Sanitize(s))
		if cleaned == s {
			break
		}
		s = cleaned
	}
	s = stripDangerous(s)
	return truncate(s, MaxStringLen)
}

func stripDangerous(s string) string {
	for dangerous.MatchString(s) {
		s = dangerous.ReplaceAllString(s, "")
	}
	return s
}

func sanitizeMap(in map[string]any, depth int) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		key := strings.TrimSpace(String(k))
		if key == "" {
			continue
		}
		cleaned, ok := sanitizeValue(v, depth)
		if !ok {
			continue
		}
		out[key] = cleaned
	}
	return out
}

func sanitizeValue(v any, depth int) (any, bool) {
	switch t := v.(type) {
	case string:
		return String(t), true
	case map[string]any:
		if depth >= MaxDepth {
			return nil, false
		}
		return sanitizeMap(t, depth+1), true
	case types.Fields:
		if depth >= MaxDepth {
			return nil, false
		}
		return sanitizeMap(t, depth+1), true
	case []any:
		if depth >= MaxDepth {
			return nil, false
		}
		if len(t) > MaxListItems {
			t = t[:MaxListItems]
		}
		out := make([]any, 0, len(t))
		for _, item := range t {
			if cleaned, ok := sanitizeValue(item, depth+1); ok {
				out = append(out, cleaned)
			}
		}
		return out, true
	default:
		return v, true
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
