package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/content-hunter/internal/storage/factory"
	"github.com/DjordjeVuckovic/content-hunter/pkg/config/env"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

type cliConfig struct {
	Query       string
	Page        int
	Size        int
	SourcesPath string
}

func parseFlags(args []string) (cliConfig, error) {
	cfg := cliConfig{}

	fs := flag.NewFlagSet("content_import", flag.ContinueOnError)
	fs.StringVar(&cfg.Query, "query", "", "Query sent to every source")
	fs.IntVar(&cfg.Page, "page", 1, "Page requested from every source")
	fs.IntVar(&cfg.Size, "size", pagination.PageDefaultSize, "Page size requested from every source")
	fs.StringVar(&cfg.SourcesPath, "sources", "", "Path to the sources YAML (defaults to SOURCES_CONFIG or data/sources.yaml)")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	cfg.Query = strings.TrimSpace(cfg.Query)

	if cfg.SourcesPath == "" {
		cfg.SourcesPath = os.Getenv("SOURCES_CONFIG")
	}
	if cfg.SourcesPath == "" {
		cfg.SourcesPath = "data/sources.yaml"
	}

	return cfg, cfg.validate()
}

func (c cliConfig) validate() error {
	if c.Query == "" {
		return errors.New("-query must not be blank")
	}
	if c.Page < 1 {
		return errors.New("-page must be at least 1")
	}
	if c.Size < 1 || c.Size > pagination.PageMaxSize {
		return errors.New("-size must be between 1 and 50")
	}
	return nil
}

func loadStorageConfig() (*factory.StorageConfig, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/content_import/.env")
	if err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}

	return factory.LoadEnv()
}
