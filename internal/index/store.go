// Package index stores chunk records in a chromem-go vector collection and
// answers nearest-neighbour queries over them.
package index

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
)

// chunkNamespace scopes chunk ids derived from source and index.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("docchunk/chunk"))

// Options configures the backing collection.
type Options struct {
	Path        string // Directory for a persistent DB; empty keeps it in memory.
	Compress    bool
	Collection  string
	Concurrency int // Parallel embedding calls per insert.
}

// Hit is a query result.
type Hit struct {
	document.ChunkRecord
	Similarity float32 `json:"similarity"`
}

// Store wraps one chromem collection of chunk records.
type Store struct {
	db          *chromem.DB
	coll        *chromem.Collection
	concurrency int

	Stats *Stats
}

// OllamaEmbedding returns an embedding function backed by an Ollama server.
func OllamaEmbedding(baseURL, model string) chromem.EmbeddingFunc {
	return chromem.NewEmbeddingFuncOllama(model, strings.TrimSuffix(baseURL, "/")+"/api")
}

// Open opens (or creates) the collection named in opts.
func Open(opts Options, embed chromem.EmbeddingFunc) (*Store, error) {
	var db *chromem.DB
	if opts.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(opts.Path, opts.Compress)
		if err != nil {
			return nil, fmt.Errorf("open index %s: %w", opts.Path, err)
		}
	}

	name := opts.Collection
	if name == "" {
		name = "chunks"
	}
	coll, err := db.GetOrCreateCollection(name, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", name, err)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Store{
		db:          db,
		coll:        coll,
		concurrency: concurrency,
		Stats:       NewStats(time.Hour),
	}, nil
}

// ChunkID is the stable id of a record; re-inserting a source overwrites it.
func ChunkID(source string, chunkIdx int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(source+"#"+strconv.Itoa(chunkIdx))).String()
}

// Insert embeds and stores records. Order is preserved in the ids, not in
// storage; callers that need document order read ChunkIdx back.
func (s *Store) Insert(ctx context.Context, records []document.ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}
	defer s.Stats.Observe(time.Now())

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		docs[i] = chromem.Document{
			ID:      ChunkID(r.Source, r.ChunkIdx),
			Content: r.Text,
			Metadata: map[string]string{
				"source":    r.Source,
				"lookup":    r.Lookup,
				"timestamp": r.Timestamp,
				"chunk_idx": strconv.Itoa(r.ChunkIdx),
			},
		}
	}

	if err := s.coll.AddDocuments(ctx, docs, s.concurrency); err != nil {
		return fmt.Errorf("insert %d chunks: %w", len(docs), err)
	}
	return nil
}

// Query returns up to limit records most similar to text, optionally
// restricted to one source.
func (s *Store) Query(ctx context.Context, text string, limit int, source string) ([]Hit, error) {
	n := min(limit, s.coll.Count())
	if n <= 0 {
		return []Hit{}, nil
	}
	defer s.Stats.Observe(time.Now())

	var where map[string]string
	if source != "" {
		where = map[string]string{"source": source}
	}

	results, err := s.coll.Query(ctx, text, n, where, nil)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		idx, _ := strconv.Atoi(r.Metadata["chunk_idx"])
		hits = append(hits, Hit{
			ChunkRecord: document.ChunkRecord{
				Text:      r.Content,
				Source:    r.Metadata["source"],
				Lookup:    r.Metadata["lookup"],
				Timestamp: r.Metadata["timestamp"],
				ChunkIdx:  idx,
			},
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

// DeleteSource removes every record that came from source.
func (s *Store) DeleteSource(ctx context.Context, source string) error {
	if source == "" {
		return fmt.Errorf("source is required")
	}
	if err := s.coll.Delete(ctx, map[string]string{"source": source}, nil); err != nil {
		return fmt.Errorf("delete source %s: %w", source, err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *Store) Count() int {
	return s.coll.Count()
}
