package prompts

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/outils-citoyens/outils-api/internal/types"
)

const (
	identityHeader = "=== IDENTITÉ ==="
	formHeader     = "=== DONNÉES DU FORMULAIRE ==="
	fewShotsHeader = "=== EXEMPLES ==="
)

var identityLines = []struct{ key, label string }{
	{"nom", "Nom"},
	{"prenom", "Prénom"},
	{"adresse", "Adresse"},
}

// BuildContext renders the form fields as labelled lines: the identity block
// first, then every other field in sorted key order.
func BuildContext(fields types.Fields, schema ToolSchema) string {
	var lines []string

	if identite, ok := fields.Map("identite"); ok && len(identite) > 0 {
		lines = append(lines, identityHeader)
		for _, il := range identityLines {
			if v, ok := identite.String(il.key); ok {
				lines = append(lines, il.label+": "+v)
			}
		}
		lines = append(lines, "")
	}

	lines = append(lines, formHeader)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "identite" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		label := schema.Label(key)
		switch v := fields[key].(type) {
		case map[string]any:
			lines = append(lines, label+":")
			lines = append(lines, mapLines(v)...)
		case types.Fields:
			lines = append(lines, label+":")
			lines = append(lines, mapLines(v)...)
		case []any:
			lines = append(lines, label+":")
			for _, item := range v {
				lines = append(lines, "  - "+formatValue(item))
			}
		default:
			lines = append(lines, label+": "+formatValue(v))
		}
	}

	return strings.Join(lines, "\n")
}

func mapLines(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("  - %s: %s", k, formatValue(m[k])))
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "oui"
		}
		return "non"
	case map[string]any, []any, types.Fields:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	default:
		return fmt.Sprint(t)
	}
}

// humanize turns "date_infraction" into "Date infraction".
func humanize(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
