package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/docchunk/internal/config"
	"github.com/dgallion1/docchunk/internal/index"
	"github.com/spf13/cobra"
)

var version = "dev"

// openStore is replaced in tests to avoid an embedding server.
var openStore = func(cfg config.Config) (*index.Store, error) {
	return index.Open(cfg.Index(), index.OllamaEmbedding(cfg.OllamaURL, cfg.EmbedModel))
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docchunk",
		Short: "Split documents into overlapping, citable chunks",
		Long: `docchunk extracts text from documents, splits it into overlapping
sentence-aligned chunks and indexes them for nearest-neighbour search.

Configuration is read from the environment and an optional .env file:
  TARGET_WORDS_PER_CHUNK, MIN_WORDS_PER_CHUNK, MIN_OVERLAP_WORDS, MAX_OVERLAP_WORDS
  INDEX_PATH, INDEX_COLLECTION, OLLAMA_URL, EMBED_MODEL`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(chunkCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(queryCmd())
	return root
}

// loadConfig reads configuration and builds a stderr logger at its level.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, log, nil
}
