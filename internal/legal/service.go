package legal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/types"
)

const (
	legalFile = "legal.json"

	DefaultLimit  = 6
	DefaultMonths = 24
	MaxQuestion   = 500

	contextSources = 6
	excerptLength  = 800
	listedSources  = 3
	temperature    = 0.2
	maxTokens      = 1000
	monthDays      = 30
)

// QueryError reports a rejected search query.
type QueryError struct {
	Message string
	Cause   error
}

func (e *QueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid legal query: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid legal query: %s", e.Message)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Options configures a Service.
type Options struct {
	Store Store
	// Completer synthesises answers. Nil answers from the sources list only.
	Completer llm.Completer
	Logger    *logging.Logger
	Now       func() time.Time
}

// Service answers legal questions from the documents of a Store.
type Service struct {
	store     Store
	completer llm.Completer
	log       *logging.Logger
	now       func() time.Time
}

// NewService creates a Service. A nil store is replaced by an empty
// MemoryStore.
func NewService(opts Options) *Service {
	s := &Service{
		store:     opts.Store,
		completer: opts.Completer,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.store == nil {
		s.store = NewMemoryStore(s.now)
	}
	return s
}

// Search retrieves the most relevant recent sources for q and answers it.
// Only invalid queries and store failures are returned as errors.
func (s *Service) Search(ctx context.Context, q types.LegalQuery) (types.LegalAnswer, error) {
	q, err := normalizeQuery(q)
	if err != nil {
		return types.LegalAnswer{}, err
	}

	since := s.now().AddDate(0, 0, -q.SinceMonths*monthDays)
	hits, err := s.store.Search(ctx, q.Question, 2*q.Limit, since)
	if err != nil {
		return types.LegalAnswer{}, fmt.Errorf("legal search failed: %w", err)
	}

	if len(hits) == 0 {
		s.log.Info("legal search found no sources", "months", q.SinceMonths)
		return types.LegalAnswer{
			Answer: prompts.Format(prompts.MustGet(legalFile, "no-results"), map[string]string{
				"Months":   strconv.Itoa(q.SinceMonths),
				"Question": q.Question,
			}),
			Citations:  []types.LegalCitation{},
			Disclaimer: prompts.MustGet(legalFile, "no-results-disclaimer"),
		}, nil
	}

	if len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	docs := make([]types.LegalDoc, len(hits))
	citations := make([]types.LegalCitation, len(hits))
	for i, h := range hits {
		docs[i] = h.Doc
		citations[i] = Citation(h.Doc)
	}

	return types.LegalAnswer{
		Answer:     s.answer(ctx, q.Question, docs, citations),
		Citations:  citations,
		Disclaimer: prompts.MustGet(legalFile, "disclaimer"),
	}, nil
}

func (s *Service) answer(ctx context.Context, question string, docs []types.LegalDoc, citations []types.LegalCitation) string {
	if s.completer == nil {
		return prompts.Format(prompts.MustGet(legalFile, "fallback-unavailable"), map[string]string{
			"Question": question,
			"Sources":  sourceBullets(citations),
		})
	}

	out, err := s.completer.Complete(ctx, llm.Request{
		System:      prompts.MustGet(legalFile, "system"),
		User:        SynthesisPrompt(question, docs, citations),
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Tier:        llm.TierStandard,
	})
	if err == nil && strings.TrimSpace(out) != "" {
		return strings.TrimSpace(out)
	}
	s.log.Error("legal synthesis failed", "sources", len(docs), "error", err)
	return prompts.Format(prompts.MustGet(legalFile, "fallback-error"), map[string]string{
		"Question": question,
		"Count":    strconv.Itoa(len(docs)),
		"Sources":  sourceBullets(citations),
	})
}

// SynthesisPrompt lists the retrieved sources and the citation keys the
// answer must use.
func SynthesisPrompt(question string, docs []types.LegalDoc, citations []types.LegalCitation) string {
	sources := make([]string, 0, contextSources)
	for i, d := range docs {
		if i == contextSources {
			break
		}
		sources = append(sources, prompts.Format(prompts.MustGet(legalFile, "source"), map[string]string{
			"Index":   strconv.Itoa(i + 1),
			"Title":   d.Title,
			"Source":  SourceName(d.Source),
			"Date":    d.Date.Format(DateLayout),
			"URL":     d.URL,
			"Excerpt": truncate(d.Text, excerptLength),
		}))
	}

	keys := make([]string, len(citations))
	for i, c := range citations {
		keys[i] = fmt.Sprintf("[%d] %s - %s, %s - %s", i+1, c.Title, c.Source, c.Date, c.URL)
	}

	return prompts.Format(prompts.MustGet(legalFile, "user"), map[string]string{
		"Question":  question,
		"Sources":   strings.Join(sources, "\n\n"),
		"Citations": strings.Join(keys, "\n"),
	})
}

func normalizeQuery(q types.LegalQuery) (types.LegalQuery, error) {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return q, &QueryError{Message: "question cannot be empty"}
	}
	if len([]rune(q.Question)) > MaxQuestion {
		return q, &QueryError{Message: fmt.Sprintf("question too long (max %d characters)", MaxQuestion)}
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.SinceMonths == 0 {
		q.SinceMonths = DefaultMonths
	}
	if err := q.Validate(); err != nil {
		return q, &QueryError{Message: "out of range parameter", Cause: err}
	}
	return q, nil
}

func sourceBullets(citations []types.LegalCitation) string {
	lines := make([]string, 0, listedSources)
	for i, c := range citations {
		if i == listedSources {
			break
		}
		lines = append(lines, fmt.Sprintf("• %s (%s, %s)", c.Title, c.Source, c.Date))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// HealthStatus describes whether legal search is operational.
type HealthStatus struct {
	Status             string `json:"status"`
	Store              string `json:"store"`
	CompleterAvailable bool   `json:"completer_available"`
	Error              string `json:"error,omitempty"`
}

// Health runs a trial search against the store.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:             "ok",
		Store:              storeName(s.store),
		CompleterAvailable: s.completer != nil,
	}
	if _, err := s.store.Search(ctx, "test", 1, time.Time{}); err != nil {
		status.Status = "error"
		status.Error = err.Error()
	}
	return status
}

func storeName(st Store) string {
	if n, ok := st.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", st)
}
