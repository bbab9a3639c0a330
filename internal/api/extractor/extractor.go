package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Generator is the text-generation capability used for extraction.
type Generator interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
}

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service turns unstructured text into records matching a schema.
type Service interface {
	Extract(ctx context.Context, text string, schema Schema) ([]map[string]any, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger    *slog.Logger
	generator Generator
}

func NewServiceImpl(generator Generator, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		generator: generator,
	}
}

// Extract runs one generation attempt and validates every returned record
// against the schema. Either all records are valid or the call fails with
// ErrSchemaValidation; a mix of valid and invalid records is never returned.
func (s *ServiceImpl) Extract(ctx context.Context, text string, schema Schema) ([]map[string]any, error) {
	ctx, span := otel.Tracer("ExtractorService").Start(ctx, "Extract", trace.WithAttributes(
		attribute.String("schema.name", schema.Name),
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		err := fmt.Errorf("extract: text must not be empty")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty input text")
		return nil, err
	}

	raw, err := s.generator.GenerateCompletion(ctx, buildExtractionPrompt(text, schema))
	if err != nil {
		s.logger.ErrorContext(ctx, "Generation failed", slog.String("schema", schema.Name), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	records, err := parseRecords(raw, schema)
	if err != nil {
		s.logger.ErrorContext(ctx, "Generated content failed validation", slog.String("schema", schema.Name), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("records.count", len(records)))
	span.SetStatus(codes.Ok, "Records extracted")
	return records, nil
}

func parseRecords(raw string, schema Schema) ([]map[string]any, error) {
	jsonStr := stripFences(raw)

	var payload struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("%w: parsing %s response: %v", types.ErrSchemaValidation, schema.Name, err)
	}

	for i, record := range payload.Records {
		if err := validateRecord(record, schema); err != nil {
			return nil, fmt.Errorf("%w: %s record %d: %v", types.ErrSchemaValidation, schema.Name, i, err)
		}
	}
	if payload.Records == nil {
		payload.Records = []map[string]any{}
	}
	return payload.Records, nil
}

func validateRecord(record map[string]any, schema Schema) error {
	for _, f := range schema.Fields {
		value, ok := record[f.Name]
		if !ok {
			return fmt.Errorf("missing field %q", f.Name)
		}
		switch f.Type {
		case "string":
			if _, ok := value.(string); !ok {
				return fmt.Errorf("field %q: expected string, got %T", f.Name, value)
			}
		case "number":
			if _, ok := value.(float64); !ok {
				return fmt.Errorf("field %q: expected number, got %T", f.Name, value)
			}
		case "boolean":
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("field %q: expected boolean, got %T", f.Name, value)
			}
		default:
			return fmt.Errorf("field %q: unsupported type %q", f.Name, f.Type)
		}
	}
	return nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
