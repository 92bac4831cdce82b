package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	apiTracer = otel.Tracer("github.com/riskibarqy/matchday/internal/interfaces/httpapi")
	noopSpan  = trace.SpanFromContext(context.Background())
)

// startSpan opens a child of the ingress span for handlers and the
// capability check. Helpers, and requests the ingress filter left untraced
// such as /healthz, get a no-op span. Once a caller is resolved its member
// id and role are attached.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() || !tracedOperation(name) {
		return ctx, noopSpan
	}

	var opts []trace.SpanStartOption
	if m, ok := memberFromContext(ctx); ok {
		opts = append(opts, trace.WithAttributes(
			attribute.String("matchday.member.id", m.ID),
			attribute.String("matchday.member.role", string(m.Role)),
		))
	}
	return apiTracer.Start(ctx, name, opts...)
}

func tracedOperation(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.") || name == "httpapi.RequireCapability"
}
