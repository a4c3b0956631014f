package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/spf13/cobra"
)

func chunkCmd() *cobra.Command {
	var (
		kind         string
		sectionsFile string
		report       bool
		override     chunker.Config
	)

	cmd := &cobra.Command{
		Use:   "chunk <file|url>",
		Short: "Print the chunk records of one document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			doc := document.Document{Source: args[0], Kind: document.Kind(kind)}
			if sectionsFile != "" {
				if doc.Sections, err = readSections(sectionsFile); err != nil {
					return err
				}
			}

			chunkCfg := cfg.Chunk()
			if override.TargetWords > 0 {
				chunkCfg.TargetWords = override.TargetWords
			}
			if override.MinWords > 0 {
				chunkCfg.MinWords = override.MinWords
			}
			if override.MinOverlapWords > 0 {
				chunkCfg.MinOverlapWords = override.MinOverlapWords
			}
			if override.MaxOverlapWords > 0 {
				chunkCfg.MaxOverlapWords = override.MaxOverlapWords
			}
			if err := chunkCfg.Validate(); err != nil {
				return err
			}

			loader := parser.NewLoader(cfg.FetchTimeout, cfg.MaxUploadBytes, cfg.Parser())
			raw, err := loader.Load(cmd.Context(), doc)
			if err != nil {
				return err
			}

			res := chunker.ChunkDocumentReport(raw, doc, chunkCfg)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if report {
				return enc.Encode(res)
			}
			return enc.Encode(res.Records)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Document kind (txt, md, csv, html, pdf, docx); inferred when empty")
	cmd.Flags().StringVar(&sectionsFile, "sections", "", "JSON file with an array of {from, to, lookup} sections")
	cmd.Flags().BoolVar(&report, "report", false, "Include per-section reports in the output")
	cmd.Flags().IntVar(&override.TargetWords, "target", 0, "Target words per chunk")
	cmd.Flags().IntVar(&override.MinWords, "min", 0, "Minimum words in a trailing chunk")
	cmd.Flags().IntVar(&override.MinOverlapWords, "min-overlap", 0, "Minimum overlap in words")
	cmd.Flags().IntVar(&override.MaxOverlapWords, "max-overlap", 0, "Maximum overlap in words")

	return cmd
}

func readSections(path string) ([]document.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	var sections []document.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse sections %s: %w", path, err)
	}
	return sections, nil
}
