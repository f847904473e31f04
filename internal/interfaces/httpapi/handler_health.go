package httpapi

import (
	"net/http"
	"time"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	report := h.healthService.Check(ctx)
	writeSuccess(ctx, w, http.StatusOK, healthDTO{
		Status:        report.Status,
		Timestamp:     report.Timestamp.Format(time.RFC3339),
		UptimeSeconds: report.UptimeSeconds,
		Database:      report.Database,
	})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Ready")
	defer span.End()

	if err := h.healthService.Ready(ctx); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		writeJSON(ctx, w, http.StatusServiceUnavailable, googleResponseEnvelope{
			APIVersion: googleAPIVersion,
			Data:       readinessDTO{Status: "not ready", Error: err.Error()},
		})
		return
	}

	writeSuccess(ctx, w, http.StatusOK, readinessDTO{Status: "ready"})
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Live")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, livenessDTO{
		Status:    "alive",
		Timestamp: h.healthService.Now().UTC().Format(time.RFC3339),
	})
}
