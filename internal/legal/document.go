package legal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/outils-citoyens/outils-api/internal/types"
)

// dateLayouts are the accepted publication date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
}

// hostSources maps publisher domains to source identifiers.
var hostSources = map[string]string{
	"legifrance.gouv.fr": "legifrance",
	"courdecassation.fr": "cour_cassation",
	"conseil-etat.fr":    "conseil_etat",
	"service-public.fr":  "service_public",
}

// defaultTypes gives the document type assumed for a source.
var defaultTypes = map[string]string{
	"legifrance":     "code",
	"cour_cassation": "decision",
	"conseil_etat":   "decision",
	"service_public": "fiche_pratique",
}

// DocumentError reports a source document that cannot be ingested.
type DocumentError struct {
	Name    string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.Name, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

type wireDoc struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Source       string `json:"source"`
	Date         string `json:"date"`
	Type         string `json:"type"`
	Jurisdiction string `json:"jurisdiction"`
	Text         string `json:"text"`
}

// DecodeJSON reads an array of documents. Dates are accepted as YYYY-MM-DD,
// RFC 3339 or DD/MM/YYYY; the type defaults from the source.
func DecodeJSON(name string, data []byte) ([]types.LegalDoc, error) {
	var wire []wireDoc
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &DocumentError{Name: name, Message: "invalid JSON document list", Cause: err}
	}
	docs := make([]types.LegalDoc, 0, len(wire))
	for i, w := range wire {
		date, err := ParseDate(w.Date)
		if err != nil {
			return nil, &DocumentError{Name: fmt.Sprintf("%s[%d]", name, i), Message: "invalid date", Cause: err}
		}
		doc := types.LegalDoc{
			Title:        strings.TrimSpace(w.Title),
			URL:          strings.TrimSpace(w.URL),
			Source:       strings.TrimSpace(w.Source),
			Date:         date,
			Type:         strings.TrimSpace(w.Type),
			Jurisdiction: strings.TrimSpace(w.Jurisdiction),
			Text:         strings.TrimSpace(w.Text),
		}
		if doc.Type == "" {
			doc.Type = defaultTypes[doc.Source]
		}
		if err := checkDoc(doc); err != nil {
			return nil, &DocumentError{Name: fmt.Sprintf("%s[%d]", name, i), Message: err.Error()}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParseHTML extracts one document from a published page. The title comes
// from the first h1, the date from meta[name=date] or time[datetime], and
// the text from the paragraphs of article or main. Source and type can be
// given through meta tags and otherwise derive from the page host.
func ParseHTML(pageURL string, r io.Reader) (types.LegalDoc, error) {
	page, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return types.LegalDoc{}, &DocumentError{Name: pageURL, Message: "failed to parse HTML", Cause: err}
	}
	title := collapse(page.Find("h1").First().Text())
	page.Find("nav, footer, header, script, style, noscript, .cookie-banner").Remove()

	doc := types.LegalDoc{
		Title:        title,
		URL:          pageURL,
		Source:       meta(page, "source"),
		Type:         meta(page, "type"),
		Jurisdiction: meta(page, "jurisdiction"),
	}
	if doc.Title == "" {
		doc.Title = collapse(page.Find("title").First().Text())
	}
	if canonical, ok := page.Find(`link[rel="canonical"]`).Attr("href"); ok && doc.URL == "" {
		doc.URL = strings.TrimSpace(canonical)
	}
	if doc.Source == "" {
		doc.Source = sourceFromURL(doc.URL)
	}
	if doc.Type == "" {
		doc.Type = defaultTypes[doc.Source]
	}

	rawDate := meta(page, "date")
	if rawDate == "" {
		rawDate, _ = page.Find("time[datetime]").First().Attr("datetime")
	}
	if doc.Date, err = ParseDate(rawDate); err != nil {
		return types.LegalDoc{}, &DocumentError{Name: pageURL, Message: "missing or invalid publication date", Cause: err}
	}

	doc.Text = bodyText(page)
	if err := checkDoc(doc); err != nil {
		return types.LegalDoc{}, &DocumentError{Name: pageURL, Message: err.Error()}
	}
	return doc, nil
}

// ParseDate parses a publication date in one of the accepted layouts.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func bodyText(page *goquery.Document) string {
	container := page.Find("article").First()
	if container.Length() == 0 {
		container = page.Find("main").First()
	}
	if container.Length() == 0 {
		container = page.Find("body")
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := collapse(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return collapse(container.Text())
	}
	return strings.Join(paragraphs, "\n\n")
}

func meta(page *goquery.Document, name string) string {
	v, _ := page.Find(fmt.Sprintf(`meta[name=%q]`, name)).Attr("content")
	return strings.TrimSpace(v)
}

func sourceFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return hostSources[strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")]
}

func checkDoc(d types.LegalDoc) error {
	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if d.URL == "" {
		missing = append(missing, "url")
	}
	if d.Source == "" {
		missing = append(missing, "source")
	}
	if d.Text == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
