package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSink struct {
	got []Event
}

func (s *sliceSink) Emit(_ context.Context, e Event) {
	s.got = append(s.got, e)
}

func TestMulti_FansOutInOrder(t *testing.T) {
	a, b := &sliceSink{}, &sliceSink{}
	sink := Multi(a, b, Nop())

	sink.Emit(context.Background(), Event{Kind: CacheMiss, Key: "k"})
	sink.Emit(context.Background(), Event{Kind: CacheHit, Key: "k"})

	assert.Equal(t, a.got, b.got)
	require.Len(t, a.got, 2)
	assert.Equal(t, CacheMiss, a.got[0].Kind)
	assert.Equal(t, CacheHit, a.got[1].Kind)
}

func TestSlogSink_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sink := NewSlogSink(logger)

	sink.Emit(context.Background(), Event{
		Kind:   BreakerTransition,
		Source: "ProviderJson",
		From:   "closed",
		To:     "open",
		Err:    errors.New("boom"),
	})

	out := buf.String()
	assert.Contains(t, out, `"msg":"BREAKER_TRANSITION"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"source":"ProviderJson"`)
	assert.Contains(t, out, `"to":"open"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestPrometheusSink_CountsByKindAndSource(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	ctx := context.Background()
	sink.Emit(ctx, Event{Kind: SourceRetry, Source: "xml"})
	sink.Emit(ctx, Event{Kind: SourceRetry, Source: "xml"})
	sink.Emit(ctx, Event{Kind: IngestBatch, Count: 7})

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.total.WithLabelValues(string(SourceRetry), "xml")))
	assert.Equal(t, 7.0, testutil.ToFloat64(sink.ingest))

	_, err = NewPrometheusSink(reg)
	assert.Error(t, err, "duplicate registration must fail")
}
