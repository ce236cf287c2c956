package executor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/9wick/enbu/executor")

func startFlowSpan(ctx context.Context, flowName string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "executor.run", trace.WithAttributes(attribute.String("enbu.flow", flowName)))
}

func startStepSpan(ctx context.Context, index int, tag string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "executor.step", trace.WithAttributes(
		attribute.Int("enbu.step_index", index),
		attribute.String("enbu.tag", tag),
	))
}
