package fallback

import (
	"time"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// Options configures a Generator.
type Options struct {
	// Thresholds defaults to DefaultThresholds when its tables are empty.
	Thresholds Thresholds
	// Strategies replace or extend the default per-tool strategies.
	Strategies map[types.ToolID]Strategy
	// Now fills "[date du jour]" in signatures. Nil leaves the placeholder.
	Now func() time.Time
}

// Generator builds fallback results. It is safe for concurrent use: the
// skeletons and thresholds are read-only and copied per call.
type Generator struct {
	strategies map[types.ToolID]Strategy
	now        func() time.Time
}

// New builds a Generator with one strategy per tool.
func New(opts Options) *Generator {
	t := opts.Thresholds
	if len(t.CSS.Gratuite) == 0 {
		t = DefaultThresholds()
	}
	strategies := DefaultStrategies(t)
	for id, s := range opts.Strategies {
		strategies[id] = s
	}
	return &Generator{strategies: strategies, now: opts.Now}
}

// Generate returns the personalized skeleton for the tool. It never fails:
// tools without a skeleton get the generic one, tools without a strategy get
// the identity strategy.
func (g *Generator) Generate(toolID types.ToolID, fields types.Fields) types.GenerationResult {
	skeleton, _ := Skeleton(toolID)
	strategy, ok := g.strategies[toolID]
	if !ok {
		strategy = IdentityStrategy()
	}
	result := strategy.Personalize(skeleton, fields)
	if g.now != nil {
		result = substitute(result, map[string]string{phDateDuJour: g.now().Format("02/01/2006")})
	}
	return result
}
