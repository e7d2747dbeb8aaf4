// Package refine runs the two-pass generate-then-critique state machine over
// a generation client.
package refine

import (
	"context"
	"encoding/json"

	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/types"
	"github.com/outils-citoyens/outils-api/internal/validation"
)

// Stage is a state of the refiner.
type Stage string

// Stages in execution order. Fallback is reached from any stage on error.
const (
	StageStart     Stage = "start"
	StagePass1     Stage = "pass1"
	StageValidate1 Stage = "validate1"
	StagePass2     Stage = "pass2"
	StageValidate2 Stage = "validate2"
	StageDone      Stage = "done"
	StageFallback  Stage = "fallback"
)

// next holds the successful transition out of each non-terminal stage.
var next = map[Stage]Stage{
	StageStart:     StagePass1,
	StagePass1:     StageValidate1,
	StageValidate1: StagePass2,
	StagePass2:     StageValidate2,
	StageValidate2: StageDone,
}

// Generator is the generation client contract the refiner needs.
type Generator interface {
	Generate(ctx context.Context, system, user string) (types.Candidate, error)
}

// Options configures a Refiner.
type Options struct {
	Logger *logging.Logger
	// OnStage is called on entering every stage, including the terminal one.
	OnStage func(Stage)
}

// Refiner improves a draft through one self-critique pass. Passes are not
// retried here; retries belong to the generation client.
type Refiner struct {
	gen     Generator
	log     *logging.Logger
	onStage func(Stage)
}

// New builds a Refiner over gen.
func New(gen Generator, opts Options) *Refiner {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Refiner{gen: gen, log: log, onStage: opts.OnStage}
}

// Refine runs start → pass1 → validate1 → pass2 → validate2 → done. Any
// failure moves to fallback and is returned as a *StageError.
func (r *Refiner) Refine(ctx context.Context, spec types.PromptSpec) (types.GenerationResult, error) {
	var (
		candidate types.Candidate
		result    types.GenerationResult
		err       error
	)

	stage := StageStart
	for {
		r.enter(stage)
		switch stage {
		case StagePass1:
			candidate, err = r.gen.Generate(ctx, spec.System, prompts.UserPrompt(spec))
		case StageValidate1, StageValidate2:
			result, err = check(candidate)
		case StagePass2:
			var draft []byte
			draft, err = json.Marshal(result)
			if err == nil {
				candidate, err = r.gen.Generate(ctx, spec.System, prompts.CritiquePrompt(spec, string(draft)))
			}
		case StageDone:
			r.log.Debug("refinement complete", "tool_id", spec.ToolID)
			return result, nil
		}

		if err != nil {
			r.enter(StageFallback)
			return types.GenerationResult{}, &StageError{Stage: stage, Cause: err}
		}
		stage = next[stage]
	}
}

func (r *Refiner) enter(stage Stage) {
	if r.onStage != nil {
		r.onStage(stage)
	}
}

func check(candidate types.Candidate) (types.GenerationResult, error) {
	result, err := validation.Validate(candidate)
	if err != nil {
		return types.GenerationResult{}, err
	}
	return validation.Normalize(result), nil
}
