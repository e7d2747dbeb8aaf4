package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// GenerateRequest is the body of a /generate call.
type GenerateRequest struct {
	ToolID string         `json:"tool_id" validate:"required,max=64"`
	Fields map[string]any `json:"fields"`
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Letter is the formal letter draft returned to the citizen.
type Letter struct {
	DestinataireBloc string   `json:"destinataire_bloc"`
	Objet            string   `json:"objet"`
	Corps            string   `json:"corps"`
	PJ               []string `json:"pj"`
	Signature        string   `json:"signature"`
}

// GenerationResult is the output contract every pipeline path must satisfy.
type GenerationResult struct {
	Resume    []string `json:"resume"`
	Lettre    Letter   `json:"lettre"`
	Checklist []string `json:"checklist"`
	Mentions  string   `json:"mentions"`
}

// Clone returns a deep copy so callers can mutate the result freely.
func (r GenerationResult) Clone() GenerationResult {
	out := r
	out.Resume = cloneStrings(r.Resume)
	out.Checklist = cloneStrings(r.Checklist)
	out.Lettre.PJ = cloneStrings(r.Lettre.PJ)
	return out
}

// MapStrings applies fn to every free-text value of the result, in place on a copy.
func (r GenerationResult) MapStrings(fn func(string) string) GenerationResult {
	out := r.Clone()
	for i := range out.Resume {
		out.Resume[i] = fn(out.Resume[i])
	}
	for i := range out.Checklist {
		out.Checklist[i] = fn(out.Checklist[i])
	}
	for i := range out.Lettre.PJ {
		out.Lettre.PJ[i] = fn(out.Lettre.PJ[i])
	}
	out.Mentions = fn(out.Mentions)
	out.Lettre.DestinataireBloc = fn(out.Lettre.DestinataireBloc)
	out.Lettre.Objet = fn(out.Lettre.Objet)
	out.Lettre.Corps = fn(out.Lettre.Corps)
	out.Lettre.Signature = fn(out.Lettre.Signature)
	return out
}

// MarshalJSON keeps list fields as arrays on the wire, never null.
func (r GenerationResult) MarshalJSON() ([]byte, error) {
	type wire GenerationResult
	w := wire(r)
	if w.Resume == nil {
		w.Resume = []string{}
	}
	if w.Checklist == nil {
		w.Checklist = []string{}
	}
	if w.Lettre.PJ == nil {
		w.Lettre.PJ = []string{}
	}
	return json.Marshal(w)
}

// Candidate is a decoded, not yet validated, generation output.
type Candidate map[string]any

// PromptSpec is the generation request assembled for one tool invocation.
type PromptSpec struct {
	ToolID             ToolID
	System             string
	Instructions       string
	Context            string
	Template           string
	ChecklistBlueprint []string
	MentionsBlueprint  []string
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
