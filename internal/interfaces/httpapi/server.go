package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type RouterOptions struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	InternalToken      string
	// Metrics and MetricsHandler are optional; nil disables /metrics.
	Metrics        RequestMetrics
	MetricsHandler http.Handler
	// LiveFeed serves the websocket upgrade on /v1/matches/{matchID}/live.
	LiveFeed http.Handler
	Ingress  *IngressLimiter
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts.MetricsHandler)
	registerEventRoutes(mux, handler)
	registerMatchRoutes(mux, handler, opts.LiveFeed)
	registerGateRoutes(mux, handler)
	registerInternalRoutes(mux, handler, opts.InternalToken)

	var root http.Handler = RequestMetricsMiddleware(opts.Metrics, mux)
	root = recoverPanic(logger, root)
	root = CORS(opts.CORSAllowedOrigins, root)
	root = opts.Ingress.Middleware(root)
	return RequestTracing(RequestLogging(logger, root))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
