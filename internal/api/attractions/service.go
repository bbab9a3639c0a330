package attractions

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/sources"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service is the per-city attraction cache.
type Service interface {
	GetOrBuild(ctx context.Context, city string, srcs []types.SourceRef) (*types.AttractionCollection, error)
}

// ServiceImpl loads a city's collection from the store when present and
// builds it from the sources otherwise. Collections already loaded in this
// process are memoized; the disk store stays the source of truth.
type ServiceImpl struct {
	logger    *slog.Logger
	repo      Repository
	fetcher   sources.Fetcher
	extractor extractor.Service
	memo      *cache.Cache
	group     singleflight.Group
}

func NewServiceImpl(repo Repository, fetcher sources.Fetcher, extractorSvc extractor.Service, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		repo:      repo,
		fetcher:   fetcher,
		extractor: extractorSvc,
		memo:      cache.New(30*time.Minute, 10*time.Minute),
	}
}

// GetOrBuild returns the city's collection, building and persisting it first
// if no persisted collection exists. Cache-first: when a persisted collection
// is found, the sources and the extractor are not touched at all. Concurrent
// calls for the same city are collapsed into a single flight so the
// check-then-write sequence cannot interleave within this process.
func (s *ServiceImpl) GetOrBuild(ctx context.Context, city string, srcs []types.SourceRef) (*types.AttractionCollection, error) {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "GetOrBuild", trace.WithAttributes(
		attribute.String("city", city),
		attribute.Int("sources.count", len(srcs)),
	))
	defer span.End()

	key := cacheKey(city)
	if cached, ok := s.memo.Get(key); ok {
		span.AddEvent("in-process cache hit")
		span.SetStatus(codes.Ok, "Collection served from memory")
		return cached.(*types.AttractionCollection), nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.loadOrBuild(ctx, city, srcs)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get or build collection")
		return nil, err
	}

	collection := v.(*types.AttractionCollection)
	s.memo.Set(key, collection, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("attractions.count", len(collection.Attractions)))
	span.SetStatus(codes.Ok, "Collection ready")
	return collection, nil
}

func (s *ServiceImpl) loadOrBuild(ctx context.Context, city string, srcs []types.SourceRef) (*types.AttractionCollection, error) {
	exists, err := s.repo.Exists(ctx, city)
	if err != nil {
		return nil, err
	}
	if exists {
		s.logger.InfoContext(ctx, "Loading persisted attraction collection", slog.String("city", city))
		return s.repo.Load(ctx, city)
	}

	collection, err := s.build(ctx, city, srcs)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// build fetches and extracts every source sequentially, preserving source
// order in the resulting collection. Any fetch or extraction failure aborts
// the whole build; nothing partial is persisted.
func (s *ServiceImpl) build(ctx context.Context, city string, srcs []types.SourceRef) (*types.AttractionCollection, error) {
	all := make([]types.Attraction, 0)
	for _, src := range srcs {
		s.logger.InfoContext(ctx, "Processing source",
			slog.String("city", city),
			slog.String("kind", string(src.Kind)),
			slog.String("ref", src.Ref))

		text, err := s.fetcher.FetchSource(ctx, src)
		if err != nil {
			return nil, err
		}
		records, err := s.extractor.Extract(ctx, text, AttractionSchema)
		if err != nil {
			return nil, err
		}
		all = append(all, attractionsFromRecords(records)...)
	}

	return &types.AttractionCollection{
		ID:          uuid.New(),
		City:        city,
		Attractions: all,
		BuiltAt:     time.Now().UTC(),
	}, nil
}

func attractionsFromRecords(records []map[string]any) []types.Attraction {
	out := make([]types.Attraction, 0, len(records))
	for _, record := range records {
		name, _ := record["name"].(string)
		description, _ := record["description"].(string)
		out = append(out, types.Attraction{Name: name, Description: description})
	}
	return out
}

func cacheKey(city string) string {
	return strings.ToLower(city)
}
