// Package legal implements search over recent French legal sources and the
// synthesis of sourced answers.
package legal

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/outils-citoyens/outils-api/internal/types"
)

const (
	scoreWeight     = 0.8
	freshnessWeight = 0.2
	// freshnessHorizon is the age at which freshness bottoms out.
	freshnessHorizon = 730
	minFreshness     = 0.1
	minTermLength    = 3
)

// Store persists legal documents and searches them.
type Store interface {
	Upsert(ctx context.Context, docs []types.LegalDoc) error
	// Search returns at most k documents dated on or after since (no filter
	// when since is zero), best relevance first.
	Search(ctx context.Context, query string, k int, since time.Time) ([]types.ScoredDoc, error)
}

// Named is implemented by stores that report a name in health checks.
type Named interface {
	Name() string
}

// Freshness decays linearly from 1 to 0.1 over two years.
func Freshness(date, now time.Time) float64 {
	days := math.Floor(now.Sub(date).Hours() / 24)
	return math.Max(minFreshness, 1-days/freshnessHorizon)
}

// Relevance combines a similarity score with the freshness of the source.
func Relevance(score float64, date, now time.Time) float64 {
	return score*scoreWeight + Freshness(date, now)*freshnessWeight
}

// Rank sorts hits by relevance, newest first on ties, and keeps k of them.
func Rank(hits []types.ScoredDoc, k int) []types.ScoredDoc {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Relevance != hits[j].Relevance {
			return hits[i].Relevance > hits[j].Relevance
		}
		return hits[i].Doc.Date.After(hits[j].Doc.Date)
	})
	if k >= 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// MemoryStore is an in-process Store scoring documents by query term overlap.
// Documents are keyed by URL and title so chunks of one page coexist.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[docKey]types.LegalDoc
	now  func() time.Time
}

type docKey struct {
	url   string
	title string
}

// NewMemoryStore creates an empty store. now may be nil.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{docs: make(map[docKey]types.LegalDoc), now: now}
}

// Name implements Named.
func (s *MemoryStore) Name() string { return "memory" }

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(ctx context.Context, docs []types.LegalDoc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.docs[docKey{url: d.URL, title: d.Title}] = d
	}
	return nil
}

// Search implements Store. Documents sharing no term with the query are
// not returned.
func (s *MemoryStore) Search(ctx context.Context, query string, k int, since time.Time) ([]types.ScoredDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := Terms(query)
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}
	now := s.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []types.ScoredDoc
	for _, d := range s.docs {
		if !since.IsZero() && d.Date.Before(since) {
			continue
		}
		score := overlap(terms, d)
		if score == 0 {
			continue
		}
		hits = append(hits, types.ScoredDoc{Doc: d, Score: score, Relevance: Relevance(score, d.Date, now)})
	}
	return Rank(hits, k), nil
}

// Terms splits text into distinct lowercase words of at least three letters.
func Terms(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) < minTermLength || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// overlap is the share of query terms found in the document.
func overlap(terms []string, d types.LegalDoc) float64 {
	have := make(map[string]bool)
	for _, w := range Terms(d.Title + " " + d.Text) {
		have[w] = true
	}
	matched := 0
	for _, t := range terms {
		if have[t] {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}
