package prompts

import (
	"io/fs"
	"strings"

	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/types"
)

const generationFile = "generation.json"

// Builder assembles a PromptSpec per request. It performs no network access
// and never fails: missing resources degrade to built-in defaults.
type Builder struct {
	res *Resources
	log *logging.Logger
}

// NewBuilder creates a builder reading optional resources from fsys.
func NewBuilder(fsys fs.FS, log *logging.Logger) *Builder {
	if log == nil {
		log = logging.NewNop()
	}
	return &Builder{res: NewResources(fsys, log), log: log}
}

// Schema returns the form schema of a tool, or the generic one.
func (b *Builder) Schema(toolID types.ToolID) ToolSchema {
	return b.res.Schema(toolID)
}

// Build gathers everything the model needs for one tool invocation.
func (b *Builder) Build(toolID types.ToolID, fields types.Fields) types.PromptSpec {
	schema := b.res.Schema(toolID)
	context := BuildContext(fields, schema)
	if shots := strings.TrimSpace(b.res.FewShots(toolID)); shots != "" {
		context += "\n\n" + fewShotsHeader + "\n" + shots
	}

	return types.PromptSpec{
		ToolID:             toolID,
		System:             MustGet(generationFile, "system"),
		Instructions:       MustGet(generationFile, "instructions"),
		Context:            context,
		Template:           b.res.Template(toolID),
		ChecklistBlueprint: ChecklistBlueprint(toolID),
		MentionsBlueprint:  MentionsBlueprint(toolID),
	}
}

// Modele renders the model letter requested through fields.modele_id.
// The boolean is false when none was requested or it could not be rendered.
func (b *Builder) Modele(toolID types.ToolID, fields types.Fields) (types.GenerationResult, bool) {
	id, requested := fields.String(ModeleIDField)
	if !requested {
		return types.GenerationResult{}, false
	}
	result, err := BuildFromModele(b.res.Schema(toolID), fields)
	if err != nil {
		b.log.Warn("model letter unavailable", "tool_id", toolID, "modele_id", id, "error", err)
		return types.GenerationResult{}, false
	}
	return result, true
}

// UserPrompt renders the first-pass user message.
func UserPrompt(spec types.PromptSpec) string {
	return Format(MustGet(generationFile, "user"), map[string]string{
		"Instructions": spec.Instructions,
		"Tool":         toolLine(spec.ToolID),
		"Context":      spec.Context,
		"Template":     spec.Template,
		"Checklist":    bullets(spec.ChecklistBlueprint),
		"Mentions":     bullets(spec.MentionsBlueprint),
		"OutputFormat": MustGet(generationFile, "output-format"),
	})
}

// CritiquePrompt renders the second-pass message asking the model to review
// and rewrite its validated first draft.
func CritiquePrompt(spec types.PromptSpec, draft string) string {
	return Format(MustGet(generationFile, "critique"), map[string]string{
		"Tool":         toolLine(spec.ToolID),
		"Draft":        draft,
		"Context":      spec.Context,
		"OutputFormat": MustGet(generationFile, "output-format"),
	})
}

// RepairSystem is the system prompt of a repair call.
func RepairSystem() string {
	return MustGet(generationFile, "repair-system")
}

// RepairPrompt wraps unparseable model output for a repair call.
func RepairPrompt(raw string) string {
	return Format(MustGet(generationFile, "repair-user"), map[string]string{"Raw": raw})
}

func toolLine(id types.ToolID) string {
	if id.Known() {
		return string(id) + " (" + id.Label() + ")"
	}
	return string(id)
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}
