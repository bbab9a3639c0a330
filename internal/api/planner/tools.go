package planner

import (
	"context"

	generativeAI "github.com/FACorreiaa/go-city-trip-planner/internal/api/generative_ai"
	"google.golang.org/genai"
)

// buildTools assembles the callable tools offered to the agent for one
// planning request.
func (s *ServiceImpl) buildTools(index Retriever) []generativeAI.AgentTool {
	return []generativeAI.AgentTool{
		{
			Declaration: &genai.FunctionDeclaration{
				Name: "city_places_list",
				Description: "Searches interesting places in city based on place's description. " +
					"Use detailed description what places are you looking for with examples. " +
					"Describe if you are looking for restaurants, museums etc.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {Type: genai.TypeString, Description: "Detailed description of the places to look for"},
					},
					Required: []string{"query"},
				},
			},
			Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				query, _ := args["query"].(string)
				places, err := index.Search(ctx, query, s.topK)
				if err != nil {
					return nil, err
				}
				return map[string]any{"places": places}, nil
			},
		},
		{
			Declaration: &genai.FunctionDeclaration{
				Name:        "check_opening_hours_tomorrow",
				Description: "Checks opening hours of place_name. Returns true if the place is open tomorrow.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"place_name": {Type: genai.TypeString, Description: "Name of the place to check"},
					},
					Required: []string{"place_name"},
				},
			},
			// Placeholder that always answers open. The goal prompt tells the
			// agent to check opening hours, so the tool has to exist even
			// though no real lookup is wired yet.
			Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				return map[string]any{"open": true}, nil
			},
		},
		{
			Declaration: &genai.FunctionDeclaration{
				Name:        "load_wikipedia_details",
				Description: "Loads information about a place from Wikipedia.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"place_name": {Type: genai.TypeString, Description: "Name of the place to load details for"},
					},
					Required: []string{"place_name"},
				},
			},
			Run: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				name, _ := args["place_name"].(string)
				content, err := s.wiki.FetchArticle(ctx, name)
				if err != nil {
					return nil, err
				}
				return map[string]any{"content": content}, nil
			},
		},
	}
}
