package trip

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-city-trip-planner/config"
	"github.com/FACorreiaa/go-city-trip-planner/internal/api/planner"
	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler serves the planning form and the JSON endpoints. All enumerations
// it offers come from configuration.
type Handler struct {
	logger  *slog.Logger
	planner planner.Service
	cfg     config.TripConfig
	tmpl    *template.Template
}

func NewHandler(plannerSvc planner.Service, cfg config.TripConfig, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Handler{
		logger:  logger,
		planner: plannerSvc,
		cfg:     cfg,
		tmpl:    tmpl,
	}, nil
}

type pageData struct {
	Cities        []string
	AudienceTypes []string
	Hours         []string
	DefaultStart  string
	DefaultEnd    string
	Request       *types.TripRequest
	Stops         []types.ItineraryStop
	Failed        bool
}

func (h *Handler) page() pageData {
	return pageData{
		Cities:        h.cfg.CityNames(),
		AudienceTypes: h.cfg.AudienceTypes,
		Hours:         h.cfg.HourOptions(),
		DefaultStart:  h.cfg.DefaultStartTime,
		DefaultEnd:    h.cfg.DefaultEndTime,
	}
}

// ShowForm handles GET / and renders the empty planning form.
func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.page())
}

// PlanForm handles POST /plan: it runs the planner and renders the stops as
// labeled text blocks. Any failure renders a generic failure indication.
func (h *Handler) PlanForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "PlanForm")
	defer span.End()

	l := h.logger.With(slog.String("method", "PlanForm"))

	if err := r.ParseForm(); err != nil {
		l.WarnContext(ctx, "Failed to parse form", slog.Any("error", err))
		span.SetStatus(codes.Error, "Bad form")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	req := types.TripRequest{
		City:         r.PostFormValue("city"),
		AudienceType: r.PostFormValue("audience_type"),
		StartTime:    r.PostFormValue("start_time"),
		EndTime:      r.PostFormValue("end_time"),
	}
	l.InfoContext(ctx, "Planning itinerary",
		slog.String("city", req.City),
		slog.String("audience", req.AudienceType),
		slog.String("start", req.StartTime),
		slog.String("end", req.EndTime))

	data := h.page()
	data.Request = &req

	stops, err := h.planner.Plan(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to plan itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Planning failed")
		data.Failed = true
		h.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Stops = stops
	span.SetStatus(codes.Ok, "Itinerary rendered")
	h.render(w, r, http.StatusOK, data)
}

// PlanJSON handles POST /api/v1/itinerary with a TripRequest body.
func (h *Handler) PlanJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TripHandler").Start(r.Context(), "PlanJSON")
	defer span.End()

	l := h.logger.With(slog.String("method", "PlanJSON"))

	var req types.TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		span.SetStatus(codes.Error, "Bad body")
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	stops, err := h.planner.Plan(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to plan itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Planning failed")
		http.Error(w, "Failed to generate itinerary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"stops": stops}); err != nil {
		l.ErrorContext(ctx, "Failed to encode response", slog.Any("error", err))
		span.SetStatus(codes.Error, "Encoding failed")
		return
	}
	span.SetStatus(codes.Ok, "Itinerary returned")
}

// GetCities handles GET /api/v1/cities and returns the configured city list.
func (h *Handler) GetCities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"cities": h.cfg.CityNames()}); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode cities response", slog.Any("error", err))
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render template", slog.Any("error", err))
	}
}
