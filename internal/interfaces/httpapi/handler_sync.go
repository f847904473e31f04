package httpapi

import (
	"net/http"
)

func (h *Handler) SyncLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncLeague")
	defer span.End()

	leagueID := firstQuery(r, "leagueId", "league_id")
	seasonID := firstQuery(r, "seasonId", "season_id")
	result, err := h.syncService.SyncLeague(ctx, leagueID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "sync league failed", "league_id", leagueID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) UpdateCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateCompetitions")
	defer span.End()

	result, err := h.syncService.UpdateCompetitions(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "update competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) EnrichMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EnrichMatches")
	defer span.End()

	var req enrichRequest
	if err := h.decodeJSON(w, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.syncService.EnrichMatches(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "enrich matches failed", "requested", len(req.MatchIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
