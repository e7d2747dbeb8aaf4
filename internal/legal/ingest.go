package legal

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/outils-citoyens/outils-api/internal/fetch"
	"github.com/outils-citoyens/outils-api/internal/logging"
	"github.com/outils-citoyens/outils-api/internal/types"
)

// Chunking defaults, in characters.
const (
	DefaultChunkSize   = 1500
	DefaultOverlap     = 200
	DefaultConcurrency = 4
)

// IngestOptions configures an Ingester.
type IngestOptions struct {
	ChunkSize   int
	Overlap     int
	Concurrency int
	Fetch       *fetch.Options
	Logger      *logging.Logger
}

// Ingester loads legal documents from files or web pages, chunks them and
// stores the chunks.
type Ingester struct {
	store       Store
	chunkSize   int
	overlap     int
	concurrency int
	fetchOpts   *fetch.Options
	log         *logging.Logger
}

// Stats summarises an ingestion run.
type Stats struct {
	Documents int            `json:"documents"`
	Chunks    int            `json:"chunks"`
	Skipped   int            `json:"skipped"`
	BySource  map[string]int `json:"by_source"`
}

// NewIngester creates an Ingester writing to store.
func NewIngester(store Store, opts IngestOptions) *Ingester {
	ing := &Ingester{
		store:       store,
		chunkSize:   opts.ChunkSize,
		overlap:     opts.Overlap,
		concurrency: opts.Concurrency,
		fetchOpts:   opts.Fetch,
		log:         opts.Logger,
	}
	if ing.chunkSize <= 0 {
		ing.chunkSize = DefaultChunkSize
	}
	if ing.overlap < 0 || ing.overlap >= ing.chunkSize {
		ing.overlap = DefaultOverlap
	}
	if ing.concurrency <= 0 {
		ing.concurrency = DefaultConcurrency
	}
	if ing.log == nil {
		ing.log = logging.NewNop()
	}
	return ing
}

// IngestFS loads every .json and .html file at the root of fsys. Documents
// older than since are skipped; a zero since keeps everything. Unreadable
// files are logged and skipped.
func (ing *Ingester) IngestFS(ctx context.Context, fsys fs.FS, since time.Time) (Stats, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return Stats{}, fmt.Errorf("failed to list documents: %w", err)
	}
	var names []string
	for _, e := range entries {
		ext := strings.ToLower(path.Ext(e.Name()))
		if !e.IsDir() && (ext == ".json" || ext == ".html" || ext == ".htm") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	docs, skipped, err := ing.collect(ctx, names, func(name string) ([]types.LegalDoc, error) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		if strings.ToLower(path.Ext(name)) == ".json" {
			return DecodeJSON(name, data)
		}
		doc, err := ParseHTML("", strings.NewReader(string(data)))
		if err != nil {
			return nil, err
		}
		return []types.LegalDoc{doc}, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return ing.save(ctx, docs, skipped, since)
}

// IngestURLs fetches and parses each page.
func (ing *Ingester) IngestURLs(ctx context.Context, urls []string, since time.Time) (Stats, error) {
	docs, skipped, err := ing.collect(ctx, urls, func(u string) ([]types.LegalDoc, error) {
		res, err := fetch.URL(ctx, u, ing.fetchOpts)
		if err != nil {
			return nil, err
		}
		doc, err := ParseHTML(res.URL, strings.NewReader(res.HTML))
		if err != nil {
			return nil, err
		}
		return []types.LegalDoc{doc}, nil
	})
	if err != nil {
		return Stats{}, err
	}
	return ing.save(ctx, docs, skipped, since)
}

// collect runs load over names with bounded concurrency, preserving input
// order in the result. Only context cancellation aborts the run.
func (ing *Ingester) collect(ctx context.Context, names []string, load func(string) ([]types.LegalDoc, error)) ([]types.LegalDoc, int, error) {
	results := make([][]types.LegalDoc, len(names))
	var (
		mu      sync.Mutex
		skipped int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs, err := load(name)
			if err != nil {
				ing.log.Warn("skipping legal document", "name", name, "error", err)
				mu.Lock()
				skipped++
				mu.Unlock()
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var all []types.LegalDoc
	for _, docs := range results {
		all = append(all, docs...)
	}
	return all, skipped, nil
}

func (ing *Ingester) save(ctx context.Context, docs []types.LegalDoc, skipped int, since time.Time) (Stats, error) {
	stats := Stats{Skipped: skipped, BySource: make(map[string]int)}
	var chunks []types.LegalDoc
	for _, d := range docs {
		if !since.IsZero() && d.Date.Before(since) {
			stats.Skipped++
			continue
		}
		stats.Documents++
		stats.BySource[d.Source]++
		chunks = append(chunks, ChunkDoc(d, ing.chunkSize, ing.overlap)...)
	}
	if len(chunks) == 0 {
		return stats, nil
	}
	if err := ing.store.Upsert(ctx, chunks); err != nil {
		return stats, fmt.Errorf("failed to store %d chunks: %w", len(chunks), err)
	}
	stats.Chunks = len(chunks)
	ing.log.Info("legal documents ingested",
		"documents", stats.Documents,
		"chunks", stats.Chunks,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

// ChunkDoc splits a document into chunks titled "(partie i/n)" when there
// is more than one.
func ChunkDoc(d types.LegalDoc, size, overlap int) []types.LegalDoc {
	parts := Chunk(d.Text, size, overlap)
	out := make([]types.LegalDoc, len(parts))
	for i, p := range parts {
		c := d
		c.Text = p
		if len(parts) > 1 {
			c.Title = fmt.Sprintf("%s (partie %d/%d)", d.Title, i+1, len(parts))
		}
		out[i] = c
	}
	return out
}

// Chunk splits text into pieces of at most size characters overlapping by
// overlap characters. A piece ends after the last full stop when that stop
// lies past its middle.
func Chunk(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if stop := lastIndex(runes[start:end], '.'); stop >= 0 && stop > size/2 {
			end = start + stop + 1
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			return chunks
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
}

func lastIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
