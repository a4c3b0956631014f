package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/index"
	"github.com/dgallion1/docchunk/internal/parser"
	"github.com/dgallion1/docchunk/internal/pipeline"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Auth
	APIKey string `env:"DOCCHUNK_API_KEY"`

	// Chunking
	TargetWordsPerChunk int `env:"TARGET_WORDS_PER_CHUNK" envDefault:"100"`
	MinWordsPerChunk    int `env:"MIN_WORDS_PER_CHUNK" envDefault:"50"`
	MinOverlapWords     int `env:"MIN_OVERLAP_WORDS" envDefault:"10"`
	MaxOverlapWords     int `env:"MAX_OVERLAP_WORDS" envDefault:"20"`

	// Worker pool
	WorkerCount  int `env:"WORKER_COUNT" envDefault:"4"`
	MaxQueueSize int `env:"MAX_QUEUE_SIZE" envDefault:"100"`

	// Extraction
	MaxUploadBytes       int64         `env:"MAX_UPLOAD_BYTES" envDefault:"52428800"` // 50MB
	FetchTimeout         time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	PDFFallbackPdftotext bool          `env:"PDF_FALLBACK_PDFTOTEXT" envDefault:"true"`

	// Sources named in API requests. Local paths must resolve under
	// DocumentRoot; empty refuses them.
	DocumentRoot      string `env:"DOCUMENT_ROOT"`
	AllowPrivateFetch bool   `env:"ALLOW_PRIVATE_FETCH" envDefault:"false"`

	// Job state
	JobTTL time.Duration `env:"JOB_TTL" envDefault:"1h"`

	// Vector index
	IndexPath         string `env:"INDEX_PATH"` // Empty keeps the index in memory.
	IndexCollection   string `env:"INDEX_COLLECTION" envDefault:"chunks"`
	IndexCompress     bool   `env:"INDEX_COMPRESS" envDefault:"false"`
	OllamaURL         string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	EmbedModel        string `env:"EMBED_MODEL" envDefault:"nomic-embed-text"`
	InsertConcurrency int    `env:"INSERT_CONCURRENCY" envDefault:"4"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	def := chunker.DefaultConfig()
	if cfg.TargetWordsPerChunk <= 0 {
		cfg.TargetWordsPerChunk = def.TargetWords
	}
	if cfg.MinWordsPerChunk <= 0 {
		cfg.MinWordsPerChunk = def.MinWords
	}
	if cfg.MinOverlapWords <= 0 {
		cfg.MinOverlapWords = def.MinOverlapWords
	}
	if cfg.MaxOverlapWords <= 0 {
		cfg.MaxOverlapWords = def.MaxOverlapWords
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.InsertConcurrency <= 0 {
		cfg.InsertConcurrency = 4
	}

	return cfg, nil
}

// Validate checks settings the server cannot run without.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCCHUNK_API_KEY is required")
	}
	if c.OllamaURL == "" {
		return fmt.Errorf("OLLAMA_URL is required")
	}
	if err := c.Chunk().Validate(); err != nil {
		return fmt.Errorf("chunk settings: %w", err)
	}
	return nil
}

// Chunk returns the chunker settings.
func (c Config) Chunk() chunker.Config {
	return chunker.Config{
		TargetWords:     c.TargetWordsPerChunk,
		MinWords:        c.MinWordsPerChunk,
		MinOverlapWords: c.MinOverlapWords,
		MaxOverlapWords: c.MaxOverlapWords,
	}
}

// Pipeline returns the worker pool settings.
func (c Config) Pipeline() pipeline.Options {
	return pipeline.Options{
		WorkerCount:  c.WorkerCount,
		MaxQueueSize: c.MaxQueueSize,
		JobTTL:       c.JobTTL,
		Chunk:        c.Chunk(),
	}
}

// Index returns the vector index settings.
func (c Config) Index() index.Options {
	return index.Options{
		Path:        c.IndexPath,
		Compress:    c.IndexCompress,
		Collection:  c.IndexCollection,
		Concurrency: c.InsertConcurrency,
	}
}

// Parser returns the extraction settings.
func (c Config) Parser() parser.Options {
	return parser.Options{PDFFallbackPdftotext: c.PDFFallbackPdftotext}
}

// Confinement returns the limits applied to sources named over HTTP.
func (c Config) Confinement() parser.Confinement {
	return parser.Confinement{
		DocumentRoot:         c.DocumentRoot,
		AllowPrivateNetworks: c.AllowPrivateFetch,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
