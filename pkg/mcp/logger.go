package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/kprof/pkg/log"
)

// WithTracing wraps a tool handler with an OpenTelemetry span and structured
// logging. Errors are recorded on the span and logged before being returned.
func WithTracing[In, Out any](tracer trace.Tracer, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		toolName := req.Params.Name

		ctx, span := tracer.Start(ctx, toolName, trace.WithAttributes(
			attribute.String("mcp.tool", toolName),
		))
		defer span.End()

		logger := log.WithContext(ctx)
		start := time.Now()

		logger.DebugContext(ctx, "handling tool call",
			slog.String("name", toolName),
			slog.Any("args", in),
		)

		res, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed",
				slog.String("name", toolName),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "tool call failed")

			return res, out, err
		}

		logger.DebugContext(ctx, "tool call completed",
			slog.String("name", toolName),
			slog.Duration("duration", time.Since(start)),
		)

		return res, out, nil
	}
}
