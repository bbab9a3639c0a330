package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-city-trip-planner/internal/api/attractions"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"
	generativeAI "github.com/FACorreiaa/go-city-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Agent is the reasoning capability: it may call the provided tools any
// number of times before returning a final free-text answer.
type Agent interface {
	Run(ctx context.Context, systemPrompt, goal string, tools []generativeAI.AgentTool) (string, error)
}

// Retriever searches the indexed attractions of one city.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]string, error)
}

// WikipediaLookup loads encyclopedia details for a place.
type WikipediaLookup interface {
	FetchArticle(ctx context.Context, title string) (string, error)
}

// IndexFactory builds the retrieval index for a city's collection.
type IndexFactory func(ctx context.Context, city string, collection *types.AttractionCollection) (Retriever, error)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service assembles a day itinerary for a trip request.
type Service interface {
	Plan(ctx context.Context, req types.TripRequest) ([]types.ItineraryStop, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger      *slog.Logger
	attractions attractions.Service
	indexes     IndexFactory
	agent       Agent
	extractor   extractor.Service
	wiki        WikipediaLookup
	topK        int
	sources     map[string][]types.SourceRef
}

func NewServiceImpl(
	attractionSvc attractions.Service,
	indexes IndexFactory,
	agent Agent,
	extractorSvc extractor.Service,
	wiki WikipediaLookup,
	topK int,
	sourcesByCity map[string][]types.SourceRef,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		attractions: attractionSvc,
		indexes:     indexes,
		agent:       agent,
		extractor:   extractorSvc,
		wiki:        wiki,
		topK:        topK,
		sources:     sourcesByCity,
	}
}

// Plan obtains the city's attraction collection, runs the tool-calling agent
// over a retrieval index on it, and parses the agent's free-text answer into
// structured stops. The stops are returned as parsed; no sorting, overlap or
// time-window validation happens here. The reasoning process owns times and
// ordering, including degenerate windows where start equals end.
func (s *ServiceImpl) Plan(ctx context.Context, req types.TripRequest) ([]types.ItineraryStop, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Plan", trace.WithAttributes(
		attribute.String("city", req.City),
		attribute.String("audience", req.AudienceType),
		attribute.String("window", req.StartTime+"-"+req.EndTime),
	))
	defer span.End()

	srcs, ok := s.sources[req.City]
	if !ok {
		err := fmt.Errorf("unknown city %q", req.City)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown city")
		return nil, err
	}

	collection, err := s.attractions.GetOrBuild(ctx, req.City, srcs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get attraction collection")
		return nil, err
	}

	index, err := s.indexes(ctx, req.City, collection)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build retrieval index")
		return nil, err
	}

	answer, err := s.agent.Run(ctx, systemPrompt, buildGoalPrompt(req), s.buildTools(index))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Agent run failed")
		return nil, err
	}
	s.logger.DebugContext(ctx, "Agent produced itinerary text", slog.Int("length", len(answer)))

	records, err := s.extractor.Extract(ctx, answer, StopSchema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse itinerary")
		return nil, err
	}

	stops := stopsFromRecords(records)
	span.SetAttributes(attribute.Int("stops.count", len(stops)))
	span.SetStatus(codes.Ok, "Itinerary planned")
	return stops, nil
}

func stopsFromRecords(records []map[string]any) []types.ItineraryStop {
	stops := make([]types.ItineraryStop, 0, len(records))
	for _, record := range records {
		arrival, _ := record["arrival_time"].(string)
		end, _ := record["end_time"].(string)
		name, _ := record["name"].(string)
		description, _ := record["description"].(string)
		stops = append(stops, types.ItineraryStop{
			ArrivalTime: arrival,
			EndTime:     end,
			Name:        name,
			Description: description,
		})
	}
	return stops
}
