package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/outils-citoyens/outils-api/internal/schemas"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// Fallback produces a contract-valid result without any external call.
type Fallback interface {
	Generate(toolID types.ToolID, fields types.Fields) types.GenerationResult
}

// Defaults substituted when a list slot holds something other than a list.
var (
	defaultResume    = []string{"Analyser votre situation et rassembler les pièces justificatives."}
	defaultChecklist = []string{"Conserver une copie de chaque document envoyé."}
	defaultPJ        = []string{"Copie des pièces justificatives"}
)

// Validate checks that the candidate carries the four top-level keys and the
// five letter keys, then coerces values into a GenerationResult. Value types
// are never a reason to fail.
func Validate(candidate types.Candidate) (types.GenerationResult, error) {
	if candidate == nil {
		return types.GenerationResult{}, &IncompleteError{Missing: []string{"checklist", "lettre", "mentions", "resume"}}
	}

	if err := schemas.ValidateGenerationResult(map[string]any(candidate)); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return types.GenerationResult{}, &IncompleteError{Missing: ve.Paths(), Cause: err}
		}
		return types.GenerationResult{}, &IncompleteError{Cause: err}
	}

	lettre, _ := candidate["lettre"].(map[string]any)
	return types.GenerationResult{
		Resume: coerceList(candidate["resume"], defaultResume),
		Lettre: types.Letter{
			DestinataireBloc: coerceString(lettre["destinataire_bloc"]),
			Objet:            coerceString(lettre["objet"]),
			Corps:            coerceBody(lettre["corps"]),
			PJ:               coerceList(lettre["pj"], defaultPJ),
			Signature:        coerceString(lettre["signature"]),
		},
		Checklist: coerceList(candidate["checklist"], defaultChecklist),
		Mentions:  coerceString(candidate["mentions"]),
	}, nil
}

// ValidateAndFix returns the validated candidate, or the fallback output for
// the tool when the candidate is structurally incomplete.
func ValidateAndFix(candidate types.Candidate, toolID types.ToolID, fields types.Fields, fb Fallback) types.GenerationResult {
	result, err := Validate(candidate)
	if err != nil {
		return fb.Generate(toolID, fields)
	}
	return result
}

// coerceList turns v into a list of non-empty strings. Anything that is not
// a sequence becomes a copy of def.
func coerceList(v any, def []string) []string {
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []string:
		items = make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
	default:
		return append([]string(nil), def...)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(coerceString(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// coerceBody is coerceString for the letter body: a list holds paragraphs,
// so items are joined with blank lines.
func coerceBody(v any) string {
	list, ok := v.([]any)
	if !ok {
		return coerceString(v)
	}
	paras := make([]string, 0, len(list))
	for _, item := range list {
		if p := strings.TrimSpace(coerceString(item)); p != "" {
			paras = append(paras, p)
		}
	}
	return strings.Join(paras, "\n\n")
}

// coerceString stringifies scalars; a list of lines is joined with newlines.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case []any:
		lines := make([]string, 0, len(s))
		for _, item := range s {
			if line := coerceString(item); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	case map[string]any:
		return ""
	default:
		return fmt.Sprint(s)
	}
}
