package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	teamID := firstQuery(r, "teamId", "team_id")
	players, err := h.playerService.List(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	profile, err := h.playerService.Get(ctx, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerProfileDTO{
		playerDTO: playerToDTO(profile.Player),
		Stats:     statsToDTO(profile.Stats),
	})
}

func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerStats")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	stats, err := h.playerService.Stats(ctx, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "get player stats failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(stats))
}

func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePlayer")
	defer span.End()

	var req createPlayerRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.playerService.Create(ctx, req.toDomain())
	if err != nil {
		h.logger.WarnContext(ctx, "create player failed", "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(created))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	var req updatePlayerRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.playerService.Update(ctx, ref, req.toPatch())
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePlayer")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	if err := h.playerService.Delete(ctx, ref); err != nil {
		h.logger.WarnContext(ctx, "delete player failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Player deleted successfully"})
}

func (h *Handler) UpdatePlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerStats")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	var body map[string]any
	if err := h.decodeJSON(w, r, &body, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	patch, err := parseStatsPatch(body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.playerService.UpdateStats(ctx, ref, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "update player stats failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statsToDTO(stats))
}
