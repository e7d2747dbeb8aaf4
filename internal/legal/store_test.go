package legal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outils-citoyens/outils-api/internal/types"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func doc(title, source string, age time.Duration, text string) types.LegalDoc {
	return types.LegalDoc{
		Title:  title,
		URL:    "https://example.org/" + title,
		Source: source,
		Date:   testNow.Add(-age),
		Type:   "code",
		Text:   text,
	}
}

const day = 24 * time.Hour

func TestFreshness(t *testing.T) {
	assert.InDelta(t, 1.0, Freshness(testNow, testNow), 1e-9)
	assert.InDelta(t, 0.5, Freshness(testNow.Add(-365*day), testNow), 1e-9)
	assert.InDelta(t, 0.1, Freshness(testNow.Add(-700*day), testNow), 0.05)
	assert.Equal(t, 0.1, Freshness(testNow.Add(-3000*day), testNow))
}

func TestRelevance(t *testing.T) {
	assert.InDelta(t, 0.5*0.8+0.5*0.2, Relevance(0.5, testNow.Add(-365*day), testNow), 1e-9)
	assert.InDelta(t, 1.0, Relevance(1, testNow, testNow), 1e-9)
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"loyer", "est", "trop", "cher", "paris"}, Terms("Le loyer est trop cher à Paris, loyer !"))
	assert.Empty(t, Terms("le à de"))
}

func TestMemoryStore_Search(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(fixedNow)
	require.NoError(t, s.Upsert(ctx, []types.LegalDoc{
		doc("bail", "legifrance", 10*day, "Le loyer du bail d'habitation est encadré."),
		doc("vieux-bail", "legifrance", 600*day, "Le loyer du bail ancien."),
		doc("travail", "cour_cassation", 5*day, "Licenciement pour motif économique."),
	}))
	require.Equal(t, 3, s.Len())

	hits, err := s.Search(ctx, "loyer bail", 10, time.Time{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "bail", hits[0].Doc.Title, "fresher document ranks first at equal score")
	assert.Equal(t, 1.0, hits[0].Score)
	assert.Greater(t, hits[0].Relevance, hits[1].Relevance)

	hits, err = s.Search(ctx, "loyer bail", 10, testNow.Add(-100*day))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "bail", hits[0].Doc.Title)

	hits, err = s.Search(ctx, "loyer", 1, time.Time{})
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.Search(ctx, "fiscalité", 10, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMemoryStore_UpsertReplacesByURLAndTitle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(fixedNow)
	d := doc("bail", "legifrance", day, "ancien texte")
	require.NoError(t, s.Upsert(ctx, []types.LegalDoc{d}))
	d.Text = "nouveau texte"
	require.NoError(t, s.Upsert(ctx, []types.LegalDoc{d}))

	hits, err := s.Search(ctx, "nouveau", 5, time.Time{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore(fixedNow)
	_, err := s.Search(ctx, "loyer", 5, time.Time{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Upsert(ctx, nil), context.Canceled)
}

func TestCitation(t *testing.T) {
	d := types.LegalDoc{
		Title:  "Décret n° 2024-123",
		URL:    "https://www.legifrance.gouv.fr/jorf/id/JORFTEXT000049123456",
		Source: "legifrance",
		Date:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Type:   "decret",
	}
	assert.Equal(t, types.LegalCitation{
		Title:  "Décret n° 2024-123",
		Source: "Légifrance",
		Date:   "01/02/2024",
		URL:    d.URL,
		Type:   "Décret",
	}, Citation(d))

	assert.Equal(t, "Conseil d'État", SourceName("conseil_etat"))
	assert.Equal(t, "Cnil", SourceName("cnil"))
	assert.Equal(t, "Circulaire_Interne", TypeName("circulaire_interne"))
	assert.Equal(t, "Fiche pratique", TypeName("fiche_pratique"))
}
