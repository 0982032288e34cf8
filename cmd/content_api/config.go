package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/factory"
	"github.com/DjordjeVuckovic/content-hunter/pkg/config/env"
)

const defaultSourcesConfig = "data/sources.yaml"

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type ContentApiConfig struct {
	StorageConfig factory.StorageConfig
	CacheConfig   cache.Config
	// SearchMode is empty when the mode follows the store's capabilities.
	SearchMode  string
	SourcesPath string
}

func (as *AppConfig) Load() (*ContentApiConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/content_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	cacheCfg, err := cache.LoadEnv()
	if err != nil {
		slog.Error("Failed to load cache configuration from environment", "error", err)
		return nil, err
	}

	sourcesPath := os.Getenv("SOURCES_CONFIG")
	if sourcesPath == "" {
		sourcesPath = defaultSourcesConfig
	}

	return &ContentApiConfig{
		StorageConfig: *storageCfg,
		CacheConfig:   *cacheCfg,
		SearchMode:    os.Getenv("SEARCH_MODE"),
		SourcesPath:   sourcesPath,
	}, nil
}
