package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/tui-bomber/internal/storage"
)

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.arena.Status())
}

func (s *Server) handleHighscores(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		errorJSON(w, http.StatusServiceUnavailable, "scores are not persisted")
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	entries, err := s.cfg.Store.TopScores(limit)
	if err != nil {
		s.logger.Error("cannot load highscores", "err", err)
		errorJSON(w, http.StatusInternalServerError, "cannot load highscores")
		return
	}
	if entries == nil {
		entries = []storage.ScoreEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type playerScores struct {
	Stats  *storage.PlayerStats `json:"stats"`
	Scores []storage.ScoreEntry `json:"scores"`
}

func (s *Server) handlePlayerScores(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		errorJSON(w, http.StatusServiceUnavailable, "scores are not persisted")
		return
	}
	player := chi.URLParam(r, "player")
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	stats, err := s.cfg.Store.PlayerStats(player)
	if err != nil {
		s.logger.Error("cannot load player stats", "player", player, "err", err)
		errorJSON(w, http.StatusInternalServerError, "cannot load player stats")
		return
	}
	if stats.GamesCount == 0 {
		errorJSON(w, http.StatusNotFound, "no games for player")
		return
	}
	entries, err := s.cfg.Store.PlayerScores(player, limit)
	if err != nil {
		s.logger.Error("cannot load player scores", "player", player, "err", err)
		errorJSON(w, http.StatusInternalServerError, "cannot load player scores")
		return
	}
	writeJSON(w, http.StatusOK, playerScores{Stats: stats, Scores: entries})
}

// parseLimit reads ?limit=n, defaulting to the leaderboard size.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return storage.DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 100 {
		errorJSON(w, http.StatusBadRequest, "limit must be between 1 and 100")
		return 0, false
	}
	return n, true
}
