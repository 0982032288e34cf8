package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/dto"
	"github.com/DjordjeVuckovic/content-hunter/internal/events"
	"github.com/DjordjeVuckovic/content-hunter/internal/ingest"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/source"
	"github.com/DjordjeVuckovic/content-hunter/internal/source/jsonfile"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/in_mem"
	pkgtesting "github.com/DjordjeVuckovic/content-hunter/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

type stubSource struct {
	name  string
	calls atomic.Int32
	fetch func(ctx context.Context) ([]domain.NormalizedItem, error)
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, _ string, _, _ int) ([]domain.NormalizedItem, error) {
	s.calls.Add(1)
	return s.fetch(ctx)
}

func returning(name string, items ...domain.NormalizedItem) *stubSource {
	return &stubSource{name: name, fetch: func(context.Context) ([]domain.NormalizedItem, error) {
		return items, nil
	}}
}

func failing(name string, err error) *stubSource {
	return &stubSource{name: name, fetch: func(context.Context) ([]domain.NormalizedItem, error) {
		return nil, err
	}}
}

var itemA = domain.NormalizedItem{
	Source:      "ProviderJson",
	ExternalID:  "A",
	Kind:        domain.KindVideo,
	Title:       "Go Concurrency Patterns",
	URL:         "mock://providerjson/A",
	Metrics:     domain.Metrics{Views: intp(1000), Likes: intp(50)},
	PublishedAt: now.Add(-24 * time.Hour),
}

var itemB = domain.NormalizedItem{
	Source:      "ProviderXml",
	ExternalID:  "B",
	Kind:        domain.KindText,
	Title:       "Writing Idiomatic Go",
	URL:         "mock://providerxml/B",
	Metrics:     domain.Metrics{ReadingTimeMinutes: intp(8), Reactions: intp(10)},
	PublishedAt: now.Add(-48 * time.Hour),
}

type fixture struct {
	store    *in_mem.Store
	cache    *cache.MemoryCache
	recorder *pkgtesting.EventRecorder
	svc      *Service
}

func newFixture(t *testing.T, sources ...source.Source) *fixture {
	t.Helper()
	store := in_mem.NewStore()
	rec := pkgtesting.NewEventRecorder()
	strategy, err := search.New(search.Fallback, store)
	require.NoError(t, err)
	c := cache.NewMemoryCache(100, time.Minute)

	ing := ingest.NewService(store, ingest.WithClock(func() time.Time { return now }), ingest.WithSink(rec))
	return &fixture{
		store:    store,
		cache:    c,
		recorder: rec,
		svc:      NewService(sources, ing, strategy, c, WithSink(rec), WithTTL(time.Minute)),
	}
}

func decode(t *testing.T, body []byte) dto.SearchResponse {
	t.Helper()
	var res dto.SearchResponse
	require.NoError(t, json.Unmarshal(body, &res))
	return res
}

func TestSearch_EndToEndScores(t *testing.T) {
	f := newFixture(t, returning("ProviderJson", itemA), returning("ProviderXml", itemB))

	body, err := f.svc.Search(context.Background(), Request{Query: "go", Kind: "all", Sort: "popularity", Page: 1, Size: 20})
	require.NoError(t, err)

	res := decode(t, body)
	assert.Equal(t, int64(2), res.Meta.Total)
	assert.Equal(t, 1, res.Meta.Page)
	assert.Equal(t, 20, res.Meta.Size)
	require.Len(t, res.Items, 2)

	// B: 8 + 10/50 = 8.2 base, 8.2 + 5 + (10/8)*5 = 19.45
	b := res.Items[0]
	assert.Equal(t, "Writing Idiomatic Go", b.Title)
	assert.Equal(t, domain.KindText, b.Kind)
	assert.Equal(t, 19.45, b.FinalScore)
	assert.Equal(t, dto.ScoreBreakdown{Base: 8.2, TypeWeight: 1, Recency: 5, Engagement: 6.25}, b.ScoreBreakdown)
	assert.Equal(t, "ProviderXml", b.SourceName)

	// A: 1 + 0.5 = 1.5 base, 1.5*1.5 + 5 + (50/1000)*10 = 7.75
	a := res.Items[1]
	assert.Equal(t, "Go Concurrency Patterns", a.Title)
	assert.Equal(t, 7.75, a.FinalScore)
	assert.Equal(t, dto.ScoreBreakdown{Base: 1.5, TypeWeight: 1.5, Recency: 5, Engagement: 0.5}, a.ScoreBreakdown)
	assert.Equal(t, itemA.PublishedAt, a.PublishedAt)
	assert.Equal(t, "mock://providerjson/A", a.URL)

	assert.Equal(t, 1, f.recorder.Count(events.CacheMiss))
	assert.Equal(t, 1, f.recorder.Count(events.IngestBatch))
}

func TestSearch_CacheHitIsByteIdenticalAndSkipsSources(t *testing.T) {
	json1 := returning("ProviderJson", itemA)
	xml1 := returning("ProviderXml", itemB)
	f := newFixture(t, json1, xml1)
	ctx := context.Background()

	first, err := f.svc.Search(ctx, Request{Query: "Go", Page: 1, Size: 20})
	require.NoError(t, err)
	require.Equal(t, int32(1), json1.calls.Load())

	// same normalized tuple
	second, err := f.svc.Search(ctx, Request{Query: "  go ", Kind: "ALL", Sort: "Popularity"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), json1.calls.Load())
	assert.Equal(t, int32(1), xml1.calls.Load())
	assert.Equal(t, 1, f.recorder.Count(events.CacheHit))

	cached, ok, err := f.cache.Get(ctx, "search:go:all:popularity:1:20")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, string(first), cached)
}

func TestSearch_DifferentParametersMissTheCache(t *testing.T) {
	src := returning("ProviderJson", itemA)
	f := newFixture(t, src)
	ctx := context.Background()

	_, err := f.svc.Search(ctx, Request{Query: "go"})
	require.NoError(t, err)
	_, err = f.svc.Search(ctx, Request{Query: "go", Kind: "video"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), src.calls.Load())
	assert.Equal(t, 2, f.recorder.Count(events.CacheMiss))
}

func TestSearch_PartialSourceFailureIsAbsorbed(t *testing.T) {
	down := failing("ProviderXml", source.ErrCircuitOpen)
	f := newFixture(t, returning("ProviderJson", itemA), down)

	body, err := f.svc.Search(context.Background(), Request{Query: "go"})
	require.NoError(t, err)

	res := decode(t, body)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Go Concurrency Patterns", res.Items[0].Title)

	evs := f.recorder.Events()
	var failed []events.Event
	for _, e := range evs {
		if e.Kind == events.SourceFailed {
			failed = append(failed, e)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "ProviderXml", failed[0].Source)
	assert.ErrorIs(t, failed[0].Err, source.ErrCircuitOpen)
}

func TestSearch_AllSourcesDownStillServesStore(t *testing.T) {
	f := newFixture(t, failing("ProviderJson", errors.New("boom")))
	_, err := f.store.SaveBatch(context.Background(), []domain.ContentRecord{domain.NewContentRecord(itemB, now)})
	require.NoError(t, err)

	body, err := f.svc.Search(context.Background(), Request{Query: "idiomatic"})
	require.NoError(t, err)

	res := decode(t, body)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Writing Idiomatic Go", res.Items[0].Title)
}

func TestSearch_KindFilterAndRelevanceSort(t *testing.T) {
	f := newFixture(t, returning("ProviderJson", itemA), returning("ProviderXml", itemB))

	body, err := f.svc.Search(context.Background(), Request{Query: "go", Kind: "video", Sort: "relevance"})
	require.NoError(t, err)

	res := decode(t, body)
	assert.Equal(t, int64(1), res.Meta.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, domain.KindVideo, res.Items[0].Kind)
}

func TestSearch_ValidationRejectsBeforeIO(t *testing.T) {
	src := returning("ProviderJson", itemA)
	f := newFixture(t, src)

	_, err := f.svc.Search(context.Background(), Request{Query: "  ", Kind: "podcast", Sort: "newest", Size: 51})

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string][]string{
		"query": {"query must not be blank"},
		"kind":  {"kind must be one of: all, video, text"},
		"sort":  {"sort must be one of: popularity, relevance"},
		"size":  {"size must be between 1 and 50"},
	}, ve.Fields)
	assert.Zero(t, src.calls.Load())
	assert.Empty(t, f.recorder.Events())
}

func TestSearch_CancellationKeepsArrivedItems(t *testing.T) {
	fast := returning("ProviderJson", itemA)
	arrived := make(chan struct{})
	fast.fetch = func(context.Context) ([]domain.NormalizedItem, error) {
		defer close(arrived)
		return []domain.NormalizedItem{itemA}, nil
	}
	slow := &stubSource{name: "ProviderXml", fetch: func(ctx context.Context) ([]domain.NormalizedItem, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	f := newFixture(t, fast, slow)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-arrived
		cancel()
	}()

	_, err := f.svc.Search(ctx, Request{Query: "go"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, f.store.Len())
	assert.Zero(t, f.recorder.Count(events.SourceFailed))
	_, ok, _ := f.cache.Get(context.Background(), "search:go:all:popularity:1:20")
	assert.False(t, ok)
}

type brokenRanker struct{}

func (brokenRanker) Apply(context.Context, search.Criteria) (*search.Result, error) {
	return nil, errors.New("connection refused")
}

func TestSearch_StoreReadFailureIsSurfaced(t *testing.T) {
	store := in_mem.NewStore()
	svc := NewService(nil, ingest.NewService(store), brokenRanker{}, cache.NewMemoryCache(10, time.Minute))

	_, err := svc.Search(context.Background(), Request{Query: "go"})
	assert.ErrorContains(t, err, "connection refused")
}

type brokenCache struct{ cache.Cache }

func (brokenCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func TestSearch_CacheFailureIsSurfaced(t *testing.T) {
	src := returning("ProviderJson", itemA)
	store := in_mem.NewStore()
	strategy, err := search.New(search.Fallback, store)
	require.NoError(t, err)
	svc := NewService([]source.Source{src}, ingest.NewService(store), strategy, brokenCache{})

	_, err = svc.Search(context.Background(), Request{Query: "go"})
	assert.ErrorContains(t, err, "redis down")
	assert.Zero(t, src.calls.Load())
}

func TestSearch_PageBeyondEveryResultIsEmpty(t *testing.T) {
	const hugePage = 2305843009213693953

	policies := source.DefaultPolicies()
	policies.Default.RetryCount = 0
	fileSource := source.NewResilientClient(jsonfile.New("ProviderJson", "../../data/mocks/provider1.json"), policies)
	f := newFixture(t, fileSource, returning("ProviderXml", itemB))

	var body []byte
	var err error
	require.NotPanics(t, func() {
		body, err = f.svc.Search(context.Background(), Request{Query: "go", Page: hugePage, Size: 20})
	})
	require.NoError(t, err)

	res := decode(t, body)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(1), res.Meta.Total)
	assert.Equal(t, hugePage, res.Meta.Page)
	assert.Zero(t, f.recorder.Count(events.SourceFailed))
	assert.Equal(t, 1, f.store.Len())
}

func TestNormalize(t *testing.T) {
	q, err := Normalize(Request{Query: " Go  ", Page: -4})
	require.NoError(t, err)
	assert.Equal(t, Query{Query: "go", Kind: "all", Sort: search.SortPopularity, Page: 1, Size: 20}, q)
	assert.Equal(t, "search:go:all:popularity:1:20", q.CacheKey())

	q, err = Normalize(Request{Query: "rust", Kind: "Text", Sort: "RELEVANCE", Page: 3, Size: 50})
	require.NoError(t, err)
	assert.Equal(t, "search:rust:text:relevance:3:50", q.CacheKey())
	assert.Equal(t, domain.KindText, q.criteria().Kind)
}

func TestFetchAll_KeepsSourceOrderAndAbsorbsFailures(t *testing.T) {
	rec := pkgtesting.NewEventRecorder()
	slow := &stubSource{name: "ProviderJson", fetch: func(context.Context) ([]domain.NormalizedItem, error) {
		time.Sleep(20 * time.Millisecond)
		return []domain.NormalizedItem{itemA}, nil
	}}
	sources := []source.Source{slow, failing("Flaky", errors.New("503")), returning("ProviderXml", itemB)}

	items, err := FetchAll(context.Background(), sources, rec, "go", 1, 20)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ExternalID)
	assert.Equal(t, "B", items[1].ExternalID)
	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.SourceFailed, evs[0].Kind)
	assert.Equal(t, "Flaky", evs[0].Source)
}
