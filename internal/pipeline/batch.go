package pipeline

import (
	"context"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome for one document of ChunkAll.
type BatchResult struct {
	Document document.Document
	Result   chunker.Result
	Err      error
}

// ChunkAll extracts and chunks docs with at most workers in flight. Results
// keep the order of docs. A failing document does not stop the others; only
// cancellation of ctx ends the batch early.
func ChunkAll(ctx context.Context, loader Extractor, docs []document.Document, cfg chunker.Config, workers int) ([]BatchResult, error) {
	results := make([]BatchResult, len(docs))
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, doc := range docs {
		results[i].Document = doc
		if ctx.Err() != nil {
			results[i].Err = ctx.Err()
			continue
		}
		g.Go(func() error {
			raw, err := loader.Load(ctx, doc)
			if err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result = chunker.ChunkDocumentReport(raw, doc, cfg)
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
