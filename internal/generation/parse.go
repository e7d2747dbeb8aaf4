package generation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"

	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/types"
)

var errNotObject = errors.New("output is not a JSON object")

// Parse decodes raw model output into a Candidate. Markdown fences and
// surrounding prose are stripped first; syntactically broken JSON gets one
// local repair pass. The result must be a single JSON object.
func Parse(raw string) (types.Candidate, error) {
	cleaned := llm.CleanJSONBlock(raw)
	candidate, err := decodeObject(cleaned)
	if err == nil {
		return candidate, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return nil, fmt.Errorf("failed to parse output: %w", err)
	}
	candidate, salvageErr := decodeObject(repaired)
	if salvageErr != nil {
		return nil, fmt.Errorf("failed to parse output: %w", err)
	}
	return candidate, nil
}

func decodeObject(text string) (types.Candidate, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return types.Candidate(obj), nil
}
