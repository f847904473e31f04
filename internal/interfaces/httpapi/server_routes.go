package httpapi

import "net/http"

func registerHealthRoutes(mux *http.ServeMux, handler *Handler, prefix string) {
	mux.HandleFunc("GET "+prefix+"/health", handler.Health)
	mux.HandleFunc("GET "+prefix+"/health/ready", handler.Ready)
	mux.HandleFunc("GET "+prefix+"/health/live", handler.Live)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, prefix string) {
	mux.HandleFunc("GET "+prefix+"/matches", handler.ListMatches)
	mux.HandleFunc("GET "+prefix+"/matches/count", handler.CountMatches)
	mux.HandleFunc("GET "+prefix+"/matches/feed", handler.MatchFeed)
	mux.HandleFunc("GET "+prefix+"/matches/league", handler.ListLeagueMatches)
	mux.HandleFunc("GET "+prefix+"/matches/player/{playerId}", handler.ListMatchesByPlayer)
	mux.HandleFunc("GET "+prefix+"/matches/{id}", handler.GetMatch)
	mux.HandleFunc("POST "+prefix+"/matches", handler.CreateMatch)
	mux.HandleFunc("PUT "+prefix+"/matches/{id}", handler.UpdateMatch)
	mux.HandleFunc("DELETE "+prefix+"/matches/{id}", handler.DeleteMatch)
}

func registerSyncRoutes(mux *http.ServeMux, handler *Handler, prefix string) {
	mux.HandleFunc("POST "+prefix+"/matches/sync", handler.SyncLeague)
	mux.HandleFunc("POST "+prefix+"/matches/update-competition", handler.UpdateCompetitions)
	mux.HandleFunc("POST "+prefix+"/matches/enrich", handler.EnrichMatches)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, prefix string) {
	mux.HandleFunc("GET "+prefix+"/players", handler.ListPlayers)
	mux.HandleFunc("GET "+prefix+"/players/{id}", handler.GetPlayer)
	mux.HandleFunc("GET "+prefix+"/players/{id}/matches", handler.ListMatchesByPlayer)
	mux.HandleFunc("GET "+prefix+"/players/{id}/stats", handler.GetPlayerStats)
	mux.HandleFunc("POST "+prefix+"/players", handler.CreatePlayer)
	mux.HandleFunc("PUT "+prefix+"/players/{id}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE "+prefix+"/players/{id}", handler.DeletePlayer)
	mux.HandleFunc("PATCH "+prefix+"/players/{id}/stats", handler.UpdatePlayerStats)
}
