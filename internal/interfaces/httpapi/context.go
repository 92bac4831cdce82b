package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

const (
	headerUserID         = "X-User-Id"
	headerIdempotencyKey = "X-Idempotency-Key"
)

type contextKey string

const memberContextKey contextKey = "matchday_member"

// Authorizer resolves the caller named by X-User-Id and checks a capability.
type Authorizer interface {
	Authorize(ctx context.Context, userID string, capability member.Capability) (member.Member, error)
}

func withMember(ctx context.Context, m member.Member) context.Context {
	return context.WithValue(ctx, memberContextKey, m)
}

func memberFromContext(ctx context.Context) (member.Member, bool) {
	m, ok := ctx.Value(memberContextKey).(member.Member)
	return m, ok
}

// RequireCapability rejects requests whose X-User-Id lacks capability and
// stores the resolved member on the request context.
func RequireCapability(authz Authorizer, capability member.Capability, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.RequireCapability")
		defer span.End()
		span.SetAttributes(attribute.String("matchday.capability", string(capability)))

		userID := strings.TrimSpace(r.Header.Get(headerUserID))
		if userID == "" {
			writeError(ctx, w, fmt.Errorf("%w: missing %s header", usecase.ErrUnauthorized, headerUserID))
			return
		}

		m, err := authz.Authorize(ctx, userID, capability)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withMember(ctx, m)))
	})
}
