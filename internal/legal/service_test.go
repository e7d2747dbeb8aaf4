package legal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/llm"
	"github.com/outils-citoyens/outils-api/internal/prompts"
	"github.com/outils-citoyens/outils-api/internal/types"
)

type recordingStore struct {
	hits  []types.ScoredDoc
	err   error
	query string
	k     int
	since time.Time
}

func (r *recordingStore) Upsert(context.Context, []types.LegalDoc) error { return nil }

func (r *recordingStore) Search(_ context.Context, query string, k int, since time.Time) ([]types.ScoredDoc, error) {
	r.query, r.k, r.since = query, k, since
	return r.hits, r.err
}

func hitsFor(n int) []types.ScoredDoc {
	out := make([]types.ScoredDoc, n)
	for i := range out {
		d := doc(strings.Repeat("x", i+1), "cour_cassation", time.Duration(i)*day, strings.Repeat("texte ", 300))
		d.Type = "decision"
		out[i] = types.ScoredDoc{Doc: d, Score: 1, Relevance: 1}
	}
	return out
}

func TestSearch_QueryErrors(t *testing.T) {
	svc := NewService(Options{Now: fixedNow})
	for name, q := range map[string]types.LegalQuery{
		"empty":      {Question: "   "},
		"too long":   {Question: strings.Repeat("a", 501)},
		"bad limit":  {Question: "loyer", Limit: 50},
		"bad months": {Question: "loyer", SinceMonths: 40},
		"neg. limit": {Question: "loyer", Limit: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Search(context.Background(), q)
			var qe *QueryError
			require.ErrorAs(t, err, &qe)
		})
	}
}

func TestSearch_AcceptsMaxLengthQuestion(t *testing.T) {
	svc := NewService(Options{Now: fixedNow})
	_, err := svc.Search(context.Background(), types.LegalQuery{Question: strings.Repeat("é", 500)})
	assert.NoError(t, err)
}

func TestSearch_DefaultsAndWindow(t *testing.T) {
	store := &recordingStore{hits: hitsFor(20)}
	svc := NewService(Options{Store: store, Now: fixedNow})

	answer, err := svc.Search(context.Background(), types.LegalQuery{Question: "  licenciement  "})
	require.NoError(t, err)

	assert.Equal(t, "licenciement", store.query)
	assert.Equal(t, 12, store.k)
	assert.Equal(t, testNow.AddDate(0, 0, -720), store.since)
	assert.Len(t, answer.Citations, DefaultLimit)
	assert.Equal(t, prompts.MustGet(legalFile, "disclaimer"), answer.Disclaimer)
}

func TestSearch_NoResults(t *testing.T) {
	svc := NewService(Options{Store: &recordingStore{}, Now: fixedNow})

	answer, err := svc.Search(context.Background(), types.LegalQuery{Question: "bail", SinceMonths: 12})
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "dans les 12 derniers mois")
	assert.Contains(t, answer.Answer, `"bail"`)
	assert.NotNil(t, answer.Citations)
	assert.Empty(t, answer.Citations)
	assert.Equal(t, prompts.MustGet(legalFile, "no-results-disclaimer"), answer.Disclaimer)
}

func TestSearch_StoreError(t *testing.T) {
	svc := NewService(Options{Store: &recordingStore{err: errors.New("db down")}, Now: fixedNow})
	_, err := svc.Search(context.Background(), types.LegalQuery{Question: "bail"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestSearch_WithoutCompleterListsSources(t *testing.T) {
	svc := NewService(Options{Store: &recordingStore{hits: hitsFor(4)}, Now: fixedNow})

	answer, err := svc.Search(context.Background(), types.LegalQuery{Question: "licenciement", Limit: 4})
	require.NoError(t, err)
	require.Len(t, answer.Citations, 4)
	assert.Contains(t, answer.Answer, "service d'IA n'est pas disponible")
	assert.Contains(t, answer.Answer, "• x (Cour de cassation, 01/06/2025)")
	assert.Contains(t, answer.Answer, "• xxx (Cour de cassation, 30/05/2025)")
	assert.NotContains(t, answer.Answer, "• xxxx ", "only three sources are listed")
	assert.Equal(t, "Décision de justice", answer.Citations[0].Type)
}

func TestSearch_Synthesis(t *testing.T) {
	var got llm.Request
	completer := llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
		got = req
		return " Selon [1], [2] et [3]... ", nil
	})
	svc := NewService(Options{Store: &recordingStore{hits: hitsFor(8)}, Completer: completer, Now: fixedNow})

	answer, err := svc.Search(context.Background(), types.LegalQuery{Question: "licenciement", Limit: 8})
	require.NoError(t, err)
	assert.Equal(t, "Selon [1], [2] et [3]...", answer.Answer)
	assert.Len(t, answer.Citations, 8)

	assert.Equal(t, float32(0.2), got.Temperature)
	assert.Equal(t, int32(1000), got.MaxTokens)
	assert.Equal(t, prompts.MustGet(legalFile, "system"), got.System)
	assert.Contains(t, got.User, "Question juridique : licenciement")
	assert.Contains(t, got.User, "Source 6: xxxxxx")
	assert.NotContains(t, got.User, "Source 7:", "context is capped at six sources")
	assert.Contains(t, got.User, "[8] xxxxxxxx - Cour de cassation")
	assert.Contains(t, got.User, "Contenu: "+strings.Repeat("texte ", 133)+"te...")
}

func TestSearch_SynthesisFailure(t *testing.T) {
	completer := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "", errors.New("quota")
	})
	svc := NewService(Options{Store: &recordingStore{hits: hitsFor(2)}, Completer: completer, Now: fixedNow})

	answer, err := svc.Search(context.Background(), types.LegalQuery{Question: "licenciement"})
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "Basé sur 2 sources officielles récentes")
	assert.Contains(t, answer.Answer, "• xx (Cour de cassation, 31/05/2025)")
}

func TestHealth(t *testing.T) {
	ok := NewService(Options{Now: fixedNow}).Health(context.Background())
	assert.Equal(t, HealthStatus{Status: "ok", Store: "memory"}, ok)

	bad := NewService(Options{Store: &recordingStore{err: errors.New("db down")}}).Health(context.Background())
	assert.Equal(t, "error", bad.Status)
	assert.Equal(t, "db down", bad.Error)
	assert.Equal(t, "*legal.recordingStore", bad.Store)
}
