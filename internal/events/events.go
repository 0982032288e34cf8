// Package events carries the reportable events of the search core
// (cache hits, retries, breaker transitions, ingest batches) to an
// injected sink. The core never logs these directly.
package events

import "context"

type Kind string

const (
	CacheHit          Kind = "CACHE_HIT"
	CacheMiss         Kind = "CACHE_MISS"
	SourceRetry       Kind = "SOURCE_RETRY"
	SourceFailed      Kind = "SOURCE_FAILED"
	BreakerTransition Kind = "BREAKER_TRANSITION"
	IngestBatch       Kind = "INGEST_BATCH"
)

type Event struct {
	Kind Kind
	// Source is the source name for source-scoped events.
	Source string
	// Key is the cache key for cache events.
	Key     string
	Attempt int
	From    string
	To      string
	Count   int
	Err     error
}

type Sink interface {
	Emit(ctx context.Context, e Event)
}

type nopSink struct{}

func (nopSink) Emit(context.Context, Event) {}

// Nop discards every event.
func Nop() Sink { return nopSink{} }

type multiSink []Sink

func (m multiSink) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

// Multi fans every event out to all the given sinks, in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}
