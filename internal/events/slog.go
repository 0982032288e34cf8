package events

import (
	"context"
	"log/slog"
)

type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(ctx context.Context, e Event) {
	level := slog.LevelInfo
	attrs := make([]slog.Attr, 0, 6)

	switch e.Kind {
	case CacheHit, CacheMiss:
		attrs = append(attrs, slog.String("key", e.Key))
	case SourceRetry:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("source", e.Source), slog.Int("attempt", e.Attempt))
	case SourceFailed:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("source", e.Source))
	case BreakerTransition:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("source", e.Source),
			slog.String("from", e.From),
			slog.String("to", e.To),
		)
	case IngestBatch:
		attrs = append(attrs, slog.Int("count", e.Count))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}

	s.logger.LogAttrs(ctx, level, string(e.Kind), attrs...)
}
