package legal

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const decisionPage = `<!doctype html>
<html>
<head>
  <title>Arrêt | Cour de cassation</title>
  <meta name="date" content="2024-02-20">
  <meta name="jurisdiction" content="Chambre sociale">
</head>
<body>
  <header><h1>Cass. Soc., 20 février 2024, n° 23-67890</h1><nav>Menu</nav></header>
  <article>
    <p>En matière de droit du travail, la chambre sociale précise
       les conditions du licenciement.</p>
    <p></p>
    <p>L'employeur doit respecter la procédure.</p>
  </article>
  <footer><p>Mentions légales</p></footer>
  <script>track()</script>
</body>
</html>`

func TestParseHTML(t *testing.T) {
	d, err := ParseHTML("https://www.courdecassation.fr/decision/63d2", strings.NewReader(decisionPage))
	require.NoError(t, err)

	assert.Equal(t, "Cass. Soc., 20 février 2024, n° 23-67890", d.Title)
	assert.Equal(t, "cour_cassation", d.Source)
	assert.Equal(t, "decision", d.Type)
	assert.Equal(t, "Chambre sociale", d.Jurisdiction)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, "En matière de droit du travail, la chambre sociale précise les conditions du licenciement.\n\nL'employeur doit respecter la procédure.", d.Text)
}

func TestParseHTML_MetaOverridesAndTimeElement(t *testing.T) {
	page := `<html><head><meta name="source" content="service_public"><meta name="type" content="fiche_pratique"></head>
<body><main><h1>APL</h1><time datetime="2024-01-25T10:00:00Z">25 janvier</time><p>L'aide personnalisée au logement.</p></main></body></html>`

	d, err := ParseHTML("https://example.org/apl", strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "service_public", d.Source)
	assert.Equal(t, "fiche_pratique", d.Type)
	assert.Equal(t, 2024, d.Date.Year())
	assert.Equal(t, "L'aide personnalisée au logement.", d.Text)
}

func TestParseHTML_Errors(t *testing.T) {
	noDate := `<html><body><h1>Titre</h1><article><p>Texte</p></article></body></html>`
	_, err := ParseHTML("https://www.legifrance.gouv.fr/a", strings.NewReader(noDate))
	var de *DocumentError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "publication date")

	unknownHost := `<html><head><meta name="date" content="2024-01-01"></head><body><h1>Titre</h1><p>Texte</p></body></html>`
	_, err = ParseHTML("https://blog.example.org/a", strings.NewReader(unknownHost))
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "missing source")
}

func TestDecodeJSON(t *testing.T) {
	data := []byte(`[
	  {"title": "Code civil - Article 1240", "url": "https://www.legifrance.gouv.fr/codes/article_lc/LEGIARTI000032042846",
	   "source": "legifrance", "date": "2024-01-15", "text": " Tout fait quelconque de l'homme... "},
	  {"title": "CE, 10 janvier 2024", "url": "https://www.conseil-etat.fr/decision/456789", "source": "conseil_etat",
	   "date": "10/01/2024", "type": "decision", "jurisdiction": "Section du contentieux", "text": "Le Conseil d'État rappelle."}
	]`)

	docs, err := DecodeJSON("sources.json", data)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "code", docs[0].Type, "type defaults from the source")
	assert.Equal(t, "Tout fait quelconque de l'homme...", docs[0].Text)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), docs[1].Date)
	assert.Equal(t, "Section du contentieux", docs[1].Jurisdiction)
}

func TestDecodeJSON_Errors(t *testing.T) {
	var de *DocumentError

	_, err := DecodeJSON("bad.json", []byte(`{"title": "x"}`))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "bad.json", de.Name)

	_, err = DecodeJSON("dates.json", []byte(`[{"title":"t","url":"u","source":"s","date":"hier","text":"x"}]`))
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "dates.json[0]", de.Name)

	_, err = DecodeJSON("empty.json", []byte(`[{"title":"t","url":"u","source":"s","date":"2024-01-01","text":""}]`))
	require.ErrorAs(t, err, &de)
	assert.Contains(t, err.Error(), "missing text")
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-03-05", "2024-03-05T08:00:00Z", "2024-03-05T08:00:00", "05/03/2024"} {
		d, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, time.March, d.Month(), raw)
		assert.Equal(t, 5, d.Day(), raw)
	}
	_, err := ParseDate("")
	assert.Error(t, err)
}
