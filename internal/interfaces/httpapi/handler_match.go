package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/usecase"
)

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	items, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items))
}

func (h *Handler) CountMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CountMatches")
	defer span.End()

	total, err := h.matchService.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "count matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, countDTO{Count: total})
}

func (h *Handler) MatchFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MatchFeed")
	defer span.End()

	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	size, err := queryInt(r, "size", match.DefaultPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	videoOnly, err := queryBool(r, "video", true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	feed, err := h.matchService.Feed(ctx, usecase.FeedInput{Page: page, Size: size, VideoOnly: videoOnly})
	if err != nil {
		h.logger.ErrorContext(ctx, "build match feed failed", "page", page, "size", size, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, feedToDTO(feed))
}

func (h *Handler) ListLeagueMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMatches")
	defer span.End()

	leagueID := firstQuery(r, "leagueId", "league_id")
	seasonID := firstQuery(r, "seasonId", "season_id")
	list, err := h.matchService.ListLeague(ctx, leagueID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league matches failed", "league_id", leagueID, "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(list))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("id"))
	detail, err := h.matchService.Get(ctx, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailToDTO(detail))
}

func (h *Handler) ListMatchesByPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByPlayer")
	defer span.End()

	ref := strings.TrimSpace(r.PathValue("playerId"))
	if ref == "" {
		ref = strings.TrimSpace(r.PathValue("id"))
	}
	items, err := h.matchService.ListByPlayer(ctx, ref)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches by player failed", "player_ref", ref, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerMatchesToDTO(items))
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	m, err := req.toDomain()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.matchService.Create(ctx, m)
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "match_id", m.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateMatchRequest
	if err := h.decodeJSON(w, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.matchService.Update(ctx, id, patch)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	id, err := pathID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.matchService.Delete(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, messageDTO{Message: "Match deleted successfully"})
}
