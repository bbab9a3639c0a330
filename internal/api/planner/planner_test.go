package planner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"
	generativeAI "github.com/FACorreiaa/go-city-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAttractionService is a mock implementation of attractions.Service
type MockAttractionService struct {
	mock.Mock
}

func (m *MockAttractionService) GetOrBuild(ctx context.Context, city string, srcs []types.SourceRef) (*types.AttractionCollection, error) {
	args := m.Called(ctx, city, srcs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AttractionCollection), args.Error(1)
}

// MockExtractor is a mock implementation of extractor.Service
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, text string, schema extractor.Schema) ([]map[string]any, error) {
	args := m.Called(ctx, text, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

// stubAgent returns a canned answer without touching any tool, or fails.
type stubAgent struct {
	answer string
	err    error

	gotGoal  string
	gotTools []generativeAI.AgentTool
}

func (a *stubAgent) Run(ctx context.Context, systemPrompt, goal string, tools []generativeAI.AgentTool) (string, error) {
	a.gotGoal = goal
	a.gotTools = tools
	return a.answer, a.err
}

type stubRetriever struct{ results []string }

func (r *stubRetriever) Search(ctx context.Context, query string, k int) ([]string, error) {
	return r.results, nil
}

type stubWiki struct{}

func (stubWiki) FetchArticle(ctx context.Context, title string) (string, error) {
	return "article about " + title, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var tallinnSources = map[string][]types.SourceRef{
	"Tallinn": {{Kind: types.SourceWiki, Ref: "Tallinn"}},
}

func tallinnCollection() *types.AttractionCollection {
	return &types.AttractionCollection{
		ID:   uuid.New(),
		City: "Tallinn",
		Attractions: []types.Attraction{
			{Name: "Old Town", Description: "historic center"},
		},
		BuiltAt: time.Now().UTC(),
	}
}

func newService(agent Agent, mockAttractions *MockAttractionService, mockExtractor *MockExtractor) *ServiceImpl {
	indexes := func(ctx context.Context, city string, collection *types.AttractionCollection) (Retriever, error) {
		return &stubRetriever{results: []string{"Old Town - historic center"}}, nil
	}
	return NewServiceImpl(mockAttractions, indexes, agent, mockExtractor, stubWiki{}, 3, tallinnSources, testLogger())
}

func TestPlan_StubbedAgentWithoutToolUse(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	agent := &stubAgent{answer: "Start at 09:00 in the Old Town, leave at 12:00."}
	service := newService(agent, mockAttractions, mockExtractor)

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", tallinnSources["Tallinn"]).
		Return(tallinnCollection(), nil).Once()
	mockExtractor.On("Extract", mock.Anything, agent.answer, StopSchema).
		Return([]map[string]any{{
			"arrival_time": "09:00",
			"end_time":     "12:00",
			"name":         "Old Town",
			"description":  "wander the historic center",
		}}, nil).Once()

	stops, err := service.Plan(context.Background(), types.TripRequest{
		City:         "Tallinn",
		AudienceType: "Family with Kids",
		StartTime:    "9:00",
		EndTime:      "17:00",
	})
	require.NoError(t, err)
	require.Len(t, stops, 1)
	assert.Equal(t, types.ItineraryStop{
		ArrivalTime: "09:00",
		EndTime:     "12:00",
		Name:        "Old Town",
		Description: "wander the historic center",
	}, stops[0])

	// The agent saw the request parameters and the full tool set even though
	// it never used them.
	assert.Contains(t, agent.gotGoal, "Tallinn")
	assert.Contains(t, agent.gotGoal, "Family with Kids")
	assert.Contains(t, agent.gotGoal, "9:00")
	assert.Contains(t, agent.gotGoal, "17:00")
	require.Len(t, agent.gotTools, 3)
	assert.Equal(t, "city_places_list", agent.gotTools[0].Declaration.Name)
	assert.Equal(t, "check_opening_hours_tomorrow", agent.gotTools[1].Declaration.Name)
	assert.Equal(t, "load_wikipedia_details", agent.gotTools[2].Declaration.Name)

	mockAttractions.AssertExpectations(t)
	mockExtractor.AssertExpectations(t)
}

func TestPlan_DegenerateWindowStillCompletes(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	agent := &stubAgent{answer: "No time to visit anything."}
	service := newService(agent, mockAttractions, mockExtractor)

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", mock.Anything).
		Return(tallinnCollection(), nil).Once()
	mockExtractor.On("Extract", mock.Anything, agent.answer, StopSchema).
		Return([]map[string]any{}, nil).Once()

	// start == end is not rejected here; the reasoning process owns the
	// decision for a zero-length window.
	stops, err := service.Plan(context.Background(), types.TripRequest{
		City:         "Tallinn",
		AudienceType: "Bachelor party",
		StartTime:    "9:00",
		EndTime:      "9:00",
	})
	require.NoError(t, err)
	assert.Empty(t, stops)
}

func TestPlan_UnknownCity(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	service := newService(&stubAgent{answer: "irrelevant"}, mockAttractions, mockExtractor)

	_, err := service.Plan(context.Background(), types.TripRequest{City: "Atlantis"})
	require.Error(t, err)
	mockAttractions.AssertNotCalled(t, "GetOrBuild", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlan_ReasoningIncompletePropagates(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	agent := &stubAgent{err: types.ErrReasoningIncomplete}
	service := newService(agent, mockAttractions, mockExtractor)

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", mock.Anything).
		Return(tallinnCollection(), nil).Once()

	_, err := service.Plan(context.Background(), types.TripRequest{
		City:         "Tallinn",
		AudienceType: "Family with Kids",
		StartTime:    "9:00",
		EndTime:      "17:00",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrReasoningIncomplete)
	mockExtractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything, mock.Anything)
}

func TestPlan_CollectionFailurePropagates(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	service := newService(&stubAgent{answer: "irrelevant"}, mockAttractions, mockExtractor)

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", mock.Anything).
		Return(nil, types.ErrSourceFetch).Once()

	_, err := service.Plan(context.Background(), types.TripRequest{City: "Tallinn"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSourceFetch)
}

func TestPlan_ParseFailurePropagates(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	agent := &stubAgent{answer: "some rambling text"}
	service := newService(agent, mockAttractions, mockExtractor)

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", mock.Anything).
		Return(tallinnCollection(), nil).Once()
	mockExtractor.On("Extract", mock.Anything, agent.answer, StopSchema).
		Return(nil, types.ErrSchemaValidation).Once()

	_, err := service.Plan(context.Background(), types.TripRequest{City: "Tallinn"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchemaValidation)
}

func TestBuildGoalPrompt(t *testing.T) {
	prompt := buildGoalPrompt(types.TripRequest{
		City:         "Tallinn",
		AudienceType: "Group of nerdy Python Developers",
		StartTime:    "10:00",
		EndTime:      "18:00",
	})
	assert.Contains(t, prompt, "single day trip to Tallinn")
	assert.Contains(t, prompt, "Group of nerdy Python Developers")
	assert.Contains(t, prompt, "starting at 10:00")
	assert.Contains(t, prompt, "until 18:00")
}

func TestTools_RetrieverAndStubs(t *testing.T) {
	service := newService(&stubAgent{}, new(MockAttractionService), new(MockExtractor))
	tools := service.buildTools(&stubRetriever{results: []string{"Old Town - historic center"}})
	require.Len(t, tools, 3)

	ctx := context.Background()

	places, err := tools[0].Run(ctx, map[string]any{"query": "historic places"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"places": []string{"Old Town - historic center"}}, places)

	// The opening-hours placeholder always answers open.
	open, err := tools[1].Run(ctx, map[string]any{"place_name": "Old Town"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"open": true}, open)

	details, err := tools[2].Run(ctx, map[string]any{"place_name": "Kadriorg"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"content": "article about Kadriorg"}, details)
}

func TestPlan_IndexFactoryFailure(t *testing.T) {
	mockAttractions := new(MockAttractionService)
	mockExtractor := new(MockExtractor)
	indexErr := errors.New("embedding backend down")
	indexes := func(ctx context.Context, city string, collection *types.AttractionCollection) (Retriever, error) {
		return nil, indexErr
	}
	service := NewServiceImpl(mockAttractions, indexes, &stubAgent{answer: "irrelevant"}, mockExtractor, stubWiki{}, 3, tallinnSources, testLogger())

	mockAttractions.On("GetOrBuild", mock.Anything, "Tallinn", mock.Anything).
		Return(tallinnCollection(), nil).Once()

	_, err := service.Plan(context.Background(), types.TripRequest{City: "Tallinn"})
	require.Error(t, err)
	assert.ErrorIs(t, err, indexErr)
}
