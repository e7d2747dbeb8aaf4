// Package pipeline orchestrates one generation request: model letter,
// two-pass refinement or deterministic fallback, then normalization.
package pipeline

import (
	"context"
	"errors"

	"github.com/outils-citoyens/outils-api/internal/fallback"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/refine"
	"github.com/outils-citoyens/outils-api/internal/types"
	"github.com/outils-citoyens/outils-api/internal/validation"
)

// Source tells which path produced a result.
type Source string

// Result sources.
const (
	SourceModele     Source = "modele"
	SourceGeneration Source = "generation"
	SourceFallback   Source = "fallback"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	ToolID  string `json:"tool_id"`
	Message string `json:"message,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Options wires the pipeline. Generator is the generation backend; nil means
// none is configured and every request takes the fallback path.
type Options struct {
	Builder    *prompts.Builder
	Generator  refine.Generator
	Fallback   *fallback.Generator
	Logger     *logging.Logger
	OnProgress ProgressCallback
}

// Outcome is the normalized result plus how it was obtained. Failure holds
// the refinement error when the fallback had to take over.
type Outcome struct {
	Result  types.GenerationResult
	Source  Source
	Failure error
}

// Pipeline is safe for concurrent use; it keeps no per-request state.
type Pipeline struct {
	builder    *prompts.Builder
	generator  refine.Generator
	fallback   *fallback.Generator
	log        *logging.Logger
	onProgress ProgressCallback
}

// New builds a Pipeline, filling unset collaborators with defaults.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		builder:    opts.Builder,
		generator:  opts.Generator,
		fallback:   opts.Fallback,
		log:        opts.Logger,
		onProgress: opts.OnProgress,
	}
	if p.log == nil {
		p.log = logging.NewNop()
	}
	if p.builder == nil {
		p.builder = prompts.NewBuilder(nil, p.log)
	}
	if p.fallback == nil {
		p.fallback = fallback.New(fallback.Options{})
	}
	return p
}

// HasBackend reports whether a generation backend is configured.
func (p *Pipeline) HasBackend() bool {
	return p.generator != nil
}

// Fallback exposes the fallback generator.
func (p *Pipeline) Fallback() *fallback.Generator {
	return p.fallback
}

// Generate produces the result for one tool invocation. The only error it
// returns is *types.UnknownToolError; every backend failure is absorbed by
// the fallback generator.
func (p *Pipeline) Generate(ctx context.Context, toolID types.ToolID, fields types.Fields) (Outcome, error) {
	if !toolID.Known() {
		return Outcome{}, &types.UnknownToolError{ToolID: string(toolID)}
	}
	if fields == nil {
		fields = types.Fields{}
	}

	outcome := p.produce(ctx, toolID, fields)
	outcome.Result = validation.Normalize(outcome.Result)
	p.emit(ctx, "normalize", toolID, string(outcome.Source))
	return outcome, nil
}

func (p *Pipeline) produce(ctx context.Context, toolID types.ToolID, fields types.Fields) Outcome {
	if result, ok := p.builder.Modele(toolID, fields); ok {
		p.emit(ctx, "modele", toolID, "model letter rendered")
		return Outcome{Result: result, Source: SourceModele}
	}

	if p.generator != nil {
		result, err := p.refine(ctx, toolID, fields)
		if err == nil {
			return Outcome{Result: result, Source: SourceGeneration}
		}
		p.logFailure(toolID, err)
		p.emit(ctx, "fallback", toolID, "generation failed")
		return Outcome{Result: p.fallback.Generate(toolID, fields), Source: SourceFallback, Failure: err}
	}

	p.emit(ctx, "fallback", toolID, "no generation backend")
	return Outcome{Result: p.fallback.Generate(toolID, fields), Source: SourceFallback}
}

func (p *Pipeline) refine(ctx context.Context, toolID types.ToolID, fields types.Fields) (types.GenerationResult, error) {
	spec := p.builder.Build(toolID, fields)
	r := refine.New(p.generator, refine.Options{
		Logger: p.log,
		OnStage: func(s refine.Stage) {
			p.emit(ctx, string(s), toolID, "")
		},
	})
	return r.Refine(ctx, spec)
}

func (p *Pipeline) logFailure(toolID types.ToolID, err error) {
	stage := refine.StageFallback
	var se *refine.StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	p.log.Warn("generation failed, using fallback", "tool_id", toolID, "stage", stage, "error", err)
}

type progressKey struct{}

// WithProgress attaches a per-request progress callback to ctx. It is called
// in addition to the one given in Options.
func WithProgress(ctx context.Context, cb ProgressCallback) context.Context {
	return context.WithValue(ctx, progressKey{}, cb)
}

// emit calls the progress callbacks if configured
func (p *Pipeline) emit(ctx context.Context, step string, toolID types.ToolID, message string) {
	event := ProgressEvent{Step: step, ToolID: string(toolID), Message: message}
	if p.onProgress != nil {
		p.onProgress(event)
	}
	if cb, ok := ctx.Value(progressKey{}).(ProgressCallback); ok && cb != nil {
		cb(event)
	}
}
