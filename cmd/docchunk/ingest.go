package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/spf13/cobra"
)

func ingestCmd() *cobra.Command {
	var (
		manifest string
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "ingest --manifest docs.json",
		Short: "Chunk every document in a manifest and insert the chunks into the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			docs, err := readManifest(manifest)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = cfg.WorkerCount
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			loader := parser.NewLoader(cfg.FetchTimeout, cfg.MaxUploadBytes, cfg.Parser())
			results, err := pipeline.ChunkAll(ctx, loader, docs, cfg.Chunk(), workers)
			if err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Err != nil {
					failed++
					log.Error("document failed", "source", r.Document.Source, "error", r.Err)
					continue
				}
				for _, sec := range r.Result.Sections {
					if !sec.Resolved {
						log.Warn("section not resolved", "source", r.Document.Source, "lookup", sec.Lookup)
					}
				}
				if err := store.Insert(ctx, r.Result.Records); err != nil {
					failed++
					log.Error("insert failed", "source", r.Document.Source, "error", err)
					continue
				}
				fmt.Fprintf(out, "%s\t%d chunks\n", r.Document.Source, len(r.Result.Records))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(docs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "JSON file with an array of documents {source, kind, sections}")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Documents processed in parallel (default WORKER_COUNT)")
	_ = cmd.MarkFlagRequired("manifest")

	return cmd
}

func readManifest(path string) ([]document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var docs []document.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	for i, d := range docs {
		if d.Source == "" {
			return nil, fmt.Errorf("manifest entry %d: source is required", i)
		}
	}
	return docs, nil
}
