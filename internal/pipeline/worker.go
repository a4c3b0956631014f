package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
)

// insertBatchSize bounds how many records go to the index per call, so
// progress moves while a large document is embedded.
const insertBatchSize = 64

// Extractor turns a document into raw text. *parser.Loader satisfies it.
type Extractor interface {
	Load(ctx context.Context, doc document.Document) (string, error)
	Extract(data []byte, doc document.Document) (string, error)
}

// Indexer receives chunk records in order. *index.Store satisfies it.
type Indexer interface {
	Insert(ctx context.Context, records []document.ChunkRecord) error
}

// Worker processes a single document job.
type Worker struct {
	loader   Extractor
	index    Indexer
	log      *slog.Logger
	chunkCfg chunker.Config
}

func NewWorker(loader Extractor, idx Indexer, log *slog.Logger, chunkCfg chunker.Config) *Worker {
	return &Worker{
		loader:   loader,
		index:    idx,
		log:      log,
		chunkCfg: chunkCfg,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	doc := job.Document()
	log := w.log.With("job_id", job.ID, "source", doc.Source)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	var (
		raw string
		err error
	)
	if data := job.FileData(); data != nil {
		raw, err = w.loader.Extract(data, doc)
	} else {
		raw, err = w.loader.Load(ctx, doc)
	}
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetContentHash(ContentHashHex([]byte(raw)))
	job.SetFileData(nil)

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	res := chunker.ChunkDocumentReport(raw, doc, w.chunkCfg)

	resolved, unresolved := 0, 0
	for _, sec := range res.Sections {
		switch {
		case !sec.Resolved:
			unresolved++
			log.Warn("section not resolved", "lookup", sec.Lookup)
			job.AddError(fmt.Sprintf("section %q: anchor not found", sec.Lookup))
		default:
			resolved++
		}
		if sec.Truncated {
			log.Warn("section truncated", "lookup", sec.Lookup, "chunks", sec.Chunks)
			job.AddError(fmt.Sprintf("section %q: window did not advance", sec.Lookup))
		}
	}
	job.SetSections(resolved, unresolved)
	job.SetTotalChunks(len(res.Records))
	log.Info("chunked document", "chunks", len(res.Records), "sections", len(res.Sections), "unresolved", unresolved)

	if len(res.Records) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no chunks produced")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Index in document order.
	job.SetStatus(StatusIndexing, "indexing")
	indexed := 0
	hadErrors := false
	for start := 0; start < len(res.Records); start += insertBatchSize {
		batch := res.Records[start:min(start+insertBatchSize, len(res.Records))]
		err := withRetry(ctx, log, "insert", func() error {
			return w.index.Insert(ctx, batch)
		})
		if err != nil {
			log.Error("insert failed", "first_chunk", batch[0].ChunkIdx, "error", err)
			job.AddError(fmt.Sprintf("insert chunks %d-%d: %s", batch[0].ChunkIdx, batch[len(batch)-1].ChunkIdx, err))
			hadErrors = true
			if ctx.Err() != nil {
				break
			}
			continue
		}
		indexed += len(batch)
		job.AddIndexed(len(batch))
	}
	log.Info("indexing complete", "indexed", indexed, "total", len(res.Records))

	switch {
	case indexed == 0:
		job.SetStatus(StatusFailed, "indexing")
	case hadErrors || unresolved > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}
