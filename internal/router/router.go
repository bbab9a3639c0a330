package api

import (
	"net/http"

	"github.com/FACorreiaa/go-city-trip-planner/internal/api/trip"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config contains the handlers needed for the router setup.
type Config struct {
	TripHandler *trip.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/", cfg.TripHandler.ShowForm)
	r.Post("/plan", cfg.TripHandler.PlanForm)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/cities", cfg.TripHandler.GetCities)
		r.Post("/itinerary", cfg.TripHandler.PlanJSON)
	})

	return r
}
