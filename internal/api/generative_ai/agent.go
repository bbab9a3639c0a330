package generativeAI

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-city-trip-planner/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

// ToolFunc executes one tool call with the model-provided arguments. The
// returned map is sent back to the model as the function response.
type ToolFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

// AgentTool pairs a Gemini function declaration with its local implementation.
type AgentTool struct {
	Declaration *genai.FunctionDeclaration
	Run         ToolFunc
}

// FunctionAgent drives a Gemini chat with function calling until the model
// returns a plain text answer or the iteration budget runs out.
type FunctionAgent struct {
	client        *genai.Client
	model         string
	temperature   float32
	maxIterations int
	logger        *slog.Logger
}

func NewFunctionAgent(ai *AIClient, maxIterations int, logger *slog.Logger) *FunctionAgent {
	return &FunctionAgent{
		client:        ai.client,
		model:         ai.model,
		temperature:   ai.temperature,
		maxIterations: maxIterations,
		logger:        logger,
	}
}

// Run sends the goal to the model, executes every function call it makes, and
// feeds the results back until the model answers in plain text. Exhausting the
// iteration budget fails with ErrReasoningIncomplete; there is no retry.
func (a *FunctionAgent) Run(ctx context.Context, systemPrompt, goal string, tools []AgentTool) (string, error) {
	ctx, span := otel.Tracer("FunctionAgent").Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("tools.count", len(tools)),
		attribute.Int("max_iterations", a.maxIterations),
	))
	defer span.End()

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	byName := make(map[string]ToolFunc, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, tool.Declaration)
		byName[tool.Declaration.Name] = tool.Run
	}

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](a.temperature),
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Tools:             []*genai.Tool{{FunctionDeclarations: declarations}},
	}
	chat, err := a.client.Chats.Create(ctx, a.model, config, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create chat")
		return "", fmt.Errorf("failed to create chat: %w", err)
	}

	parts := []genai.Part{{Text: goal}}
	for i := 0; i < a.maxIterations; i++ {
		resp, err := chat.SendMessage(ctx, parts...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Agent step failed")
			return "", fmt.Errorf("agent step %d failed: %w", i, err)
		}

		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			span.SetAttributes(attribute.Int("iterations", i+1))
			span.SetStatus(codes.Ok, "Agent converged")
			return resp.Text(), nil
		}

		parts = parts[:0]
		for _, call := range calls {
			a.logger.InfoContext(ctx, "Agent tool call",
				slog.Int("iteration", i),
				slog.String("tool", call.Name))

			run, ok := byName[call.Name]
			var result map[string]any
			if !ok {
				result = map[string]any{"error": fmt.Sprintf("unknown tool %q", call.Name)}
			} else if result, err = run(ctx, call.Args); err != nil {
				a.logger.WarnContext(ctx, "Tool call failed",
					slog.String("tool", call.Name),
					slog.Any("error", err))
				result = map[string]any{"error": err.Error()}
			}
			parts = append(parts, genai.Part{FunctionResponse: &genai.FunctionResponse{
				Name:     call.Name,
				Response: result,
			}})
		}
	}

	err = fmt.Errorf("%w after %d iterations", types.ErrReasoningIncomplete, a.maxIterations)
	span.RecordError(err)
	span.SetStatus(codes.Error, "Iteration budget exhausted")
	return "", err
}
