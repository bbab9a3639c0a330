package planner

import (
	"fmt"

	"github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
)

const systemPrompt = "You are amazing trip planner."

// StopSchema is the record shape the final free-text itinerary is parsed
// into.
var StopSchema = extractor.Schema{
	Name:        "itinerary_stop",
	Description: "Parse the travel itinerary from the provided text into separate stops. arrival_time and end_time MUST be in 24-hour HH:MM format. name and description should contain emojis.",
	Fields: []extractor.Field{
		{
			Name:        "arrival_time",
			Type:        "string",
			Description: "Arrival time at the stop, 24-hour HH:MM",
		},
		{
			Name:        "end_time",
			Type:        "string",
			Description: "End time of the stop, 24-hour HH:MM",
		},
		{
			Name:        "name",
			Type:        "string",
			Description: "The specific attraction visited at this stop",
		},
		{
			Name:        "description",
			Type:        "string",
			Description: "The activity the group can do there",
		},
	},
}

func buildGoalPrompt(req types.TripRequest) string {
	return fmt.Sprintf(`
Generate complete travel itinerary, starting at %s and ending at %s to a single day trip to %s.
Trip is prepared for %s.
Divide day into multiple parts and use tools for each of them separately.
Think about attractions and places to eat.
Mention concrete attractions you find using tools.
Ensure activities start at %s.
Ensure activities are planned until %s.
Ensure place is open tomorrow.
Look to wikipedia for more ideas if needed.
`, req.StartTime, req.EndTime, req.City, req.AudienceType, req.StartTime, req.EndTime)
}
