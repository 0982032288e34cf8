package env

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/content-hunter/pkg/utils"
	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from .env files without overriding ones that
// are already set. ENV_PATH, a comma-separated list, replaces the default
// paths. Missing files are an error only in local mode (env "local" or "").
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := utils.SplitList(os.Getenv("ENV_PATH"))
	if len(paths) == 0 {
		slog.Debug("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
		paths = defaultPaths
	}

	var errs []error
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", p, err))
		}
	}

	err := errors.Join(errs...)
	if err == nil {
		return nil
	}
	if env == "local" || env == "" {
		return err
	}
	slog.Debug("Skipping .env ...", "env", env, "error", err)
	return nil
}
