package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/content-hunter/pkg/config/env"
	"github.com/DjordjeVuckovic/content-hunter/pkg/utils"
)

const DefaultRateLimitPerMinute = 60

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// RateLimitPerMinute is the per-client request budget; 0 disables limiting.
	RateLimitPerMinute int
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/content_api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	useHttp2Str := os.Getenv("USE_HTTP2")
	useHttp2 := useHttp2Str == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitList(os.Getenv("CORS_ORIGINS"))
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	rateLimit := DefaultRateLimitPerMinute
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		rateLimit, err = strconv.Atoi(raw)
		if err != nil || rateLimit < 0 {
			return nil, errors.New("RATE_LIMIT_PER_MINUTE must be a non-negative integer")
		}
	}

	return &Config{
		Port:               port,
		UseHttp2:           useHttp2,
		CorsOrigins:        origins,
		RateLimitPerMinute: rateLimit,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
