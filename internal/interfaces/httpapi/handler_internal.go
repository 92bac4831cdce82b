package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/usecase"
)

func (h *Handler) RebuildProjections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildProjections")
	defer span.End()

	var req rebuildRequest
	if r.ContentLength != 0 {
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}
	workers := req.MaxWorkers
	if workers == 0 {
		workers = h.rebuildWorkers
	}

	result, err := h.projections.Rebuild(ctx, usecase.RebuildInput{
		MatchIDs:   req.MatchIDs,
		MaxWorkers: workers,
	})
	if err != nil {
		h.logFailure(ctx, "rebuild projections failed", err, "match_count", len(req.MatchIDs))
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "projections rebuilt",
		"match_count", result.MatchCount,
		"failed_count", result.FailedCount,
		"worker_count", result.WorkerCount,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
