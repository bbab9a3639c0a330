package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Server.HTTPPort)
	assert.NotEmpty(t, cfg.Gemini.Model)
	assert.NotEmpty(t, cfg.Gemini.EmbeddingModel)
	assert.Positive(t, cfg.Planner.TopK)
	assert.Positive(t, cfg.Planner.MaxIterations)
	assert.NotEmpty(t, cfg.Store.Dir)

	require.NotEmpty(t, cfg.Trip.Cities)
	for _, city := range cfg.Trip.Cities {
		assert.NotEmpty(t, city.Name)
		assert.NotEmpty(t, append(city.WikiPages, city.WebPages...),
			"city %s has no source documents", city.Name)
	}
	assert.NotEmpty(t, cfg.Trip.AudienceTypes)
	assert.Contains(t, cfg.Trip.HourOptions(), cfg.Trip.DefaultStartTime)
	assert.Contains(t, cfg.Trip.HourOptions(), cfg.Trip.DefaultEndTime)
}

func TestCityNames(t *testing.T) {
	trip := TripConfig{Cities: []CityConfig{{Name: "Tallinn"}, {Name: "Brno"}}}
	assert.Equal(t, []string{"Tallinn", "Brno"}, trip.CityNames())
}

func TestHourOptions(t *testing.T) {
	hours := TripConfig{}.HourOptions()
	require.Len(t, hours, 24)
	assert.Equal(t, "0:00", hours[0])
	assert.Equal(t, "8:00", hours[8])
	assert.Equal(t, "23:00", hours[23])
}
