package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/content-hunter/internal/aggregator"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/DjordjeVuckovic/content-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/content-hunter/internal/source"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/factory"
)

func main() {
	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	}

	storageCfg, err := loadStorageConfig()
	if err != nil {
		slog.Error("Failed to load storage configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		slog.Error("Failed to create content store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	settings, err := source.LoadSettingsFile(cli.SourcesPath)
	if err != nil {
		slog.Error("Failed to load sources configuration", "path", cli.SourcesPath, "error", err)
		os.Exit(1)
	}

	n, err := run(ctx, cli, settings, store, events.NewSlogSink(slog.Default()))
	if err != nil {
		slog.Error("Import failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Import finished", "query", cli.Query, "ingested", n, "storageType", storageCfg.Type)
}

// run fetches one page from every configured source and merges the items
// into the store. It returns the number of stored records.
func run(ctx context.Context, cli cliConfig, settings *source.Settings, store storage.Store, sink events.Sink) (int, error) {
	clients, err := settings.BuildResilient(source.WithSink(sink))
	if err != nil {
		return 0, err
	}
	sources := make([]source.Source, len(clients))
	for i, c := range clients {
		sources[i] = c
	}

	items, fetchErr := aggregator.FetchAll(ctx, sources, sink, cli.Query, cli.Page, cli.Size)

	ingestCtx := ctx
	if fetchErr != nil {
		ingestCtx = context.WithoutCancel(ctx)
	}
	saved, err := ingest.NewService(store, ingest.WithSink(sink)).Ingest(ingestCtx, items)
	if err != nil {
		return 0, err
	}
	return len(saved), fetchErr
}
