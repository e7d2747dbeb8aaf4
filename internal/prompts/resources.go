package prompts

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path"

	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// ToolSchema is the subset of a tool's form schema the builder reads.
type ToolSchema struct {
	Title         string              `json:"title"`
	Properties    map[string]Property `json:"properties"`
	Modeles       []Modele            `json:"x-modeles"`
	Options       SchemaOptions       `json:"x-options"`
	Destinataires map[string]string   `json:"x-destinataires"`
}

// Property describes one form field.
type Property struct {
	Title string `json:"title"`
	Type  string `json:"type"`
}

// Modele is a pre-written letter offered by the form.
type Modele struct {
	ID                  string `json:"id"`
	Objet               string `json:"objet"`
	Corps               string `json:"corps"`
	TemplateHint        string `json:"template_hint"`
	DestinataireDefault string `json:"destinataire_default"`
}

// SchemaOptions holds the x-options block of a schema.
type SchemaOptions struct {
	PiecesSuggerees []string `json:"pieces_suggerees"`
}

// Label returns the display title of a field, or a humanized key.
func (s ToolSchema) Label(field string) string {
	if p, ok := s.Properties[field]; ok && p.Title != "" {
		return p.Title
	}
	return humanize(field)
}

// FindModele returns the model letter with the given id.
func (s ToolSchema) FindModele(id string) (Modele, bool) {
	for _, m := range s.Modeles {
		if m.ID == id {
			return m, true
		}
	}
	return Modele{}, false
}

// GenericSchema is used when a tool has no readable schema.
func GenericSchema(toolID types.ToolID) ToolSchema {
	return ToolSchema{
		Title: "Outil " + string(toolID),
		Properties: map[string]Property{
			"identite": {Title: "Identité", Type: "object"},
		},
	}
}

// Resources reads per-tool files from an optional filesystem. Missing files
// fall back to defaults silently; unreadable or invalid ones are logged.
type Resources struct {
	fsys fs.FS
	log  *logging.Logger
}

// NewResources wraps fsys. A nil fsys means no resources at all.
func NewResources(fsys fs.FS, log *logging.Logger) *Resources {
	if log == nil {
		log = logging.NewNop()
	}
	return &Resources{fsys: fsys, log: log}
}

// Schema loads schemas/<tool>.json.
func (r *Resources) Schema(toolID types.ToolID) ToolSchema {
	data, ok := r.read(path.Join("schemas", string(toolID)+".json"))
	if !ok {
		return GenericSchema(toolID)
	}
	var schema ToolSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		r.log.Warn("invalid tool schema, using generic schema", "tool_id", toolID, "error", err)
		return GenericSchema(toolID)
	}
	if schema.Title == "" {
		schema.Title = "Outil " + string(toolID)
	}
	return schema
}

// Template loads templates/<tool>.tmpl, then templates/_generic.tmpl, then
// the built-in letter layout.
func (r *Resources) Template(toolID types.ToolID) string {
	for _, name := range []string{string(toolID) + ".tmpl", "_generic.tmpl"} {
		if data, ok := r.read(path.Join("templates", name)); ok && len(data) > 0 {
			return string(data)
		}
	}
	return MustGet("generation.json", "letter-template")
}

// FewShots loads fewshots/<tool>.md, or returns "".
func (r *Resources) FewShots(toolID types.ToolID) string {
	data, _ := r.read(path.Join("fewshots", string(toolID)+".md"))
	return string(data)
}

func (r *Resources) read(name string) ([]byte, bool) {
	if r.fsys == nil {
		return nil, false
	}
	data, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("failed to read prompt resource", "path", name, "error", err)
		}
		return nil, false
	}
	return data, true
}
