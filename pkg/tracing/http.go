package tracing

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttrCorrelationID = attribute.Key("relay.correlation_id")
	AttrOutcome       = attribute.Key("relay.outcome")
	AttrReason        = attribute.Key("relay.reason")
)

func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// AnnotateSpan adds relay attributes to the active span, if any.
// Empty values are skipped.
func AnnotateSpan(ctx context.Context, correlationID, outcome, reason string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	attrs := make([]attribute.KeyValue, 0, 3)
	if correlationID != "" {
		attrs = append(attrs, AttrCorrelationID.String(correlationID))
	}
	if outcome != "" {
		attrs = append(attrs, AttrOutcome.String(outcome))
	}
	if reason != "" {
		attrs = append(attrs, AttrReason.String(reason))
	}
	span.SetAttributes(attrs...)
}
