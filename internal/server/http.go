package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"trivia-backend/api"
	"trivia-backend/internal/middleware"
	"trivia-backend/internal/transport"
)

// Handler returns the HTTP gateway: the websocket bridge to the line
// protocol plus read-only JSON views of the directory and the scoreboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /players", s.handlePlayers)
	mux.HandleFunc("GET /scoreboard", s.handleScoreboard)
	return middleware.ApplyDefaults(mux)
}

// handleWS upgrades the request and runs the same session loop as a TCP
// connection, one websocket text message per frame.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // TODO: setup CORS origin patterns.
	})
	if err != nil {
		slog.Error("websocket accept", slog.Any("error", err))
		return
	}
	c.SetReadLimit(s.cfg.FrameReadLimit)

	s.ServeConn(r.Context(), transport.NewWSConn(c))
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	entries := s.registry.Entries()
	players := make([]api.PlayerInfo, 0, len(entries))
	for _, e := range entries {
		players = append(players, api.PlayerInfo{Name: e.Name, Score: e.Score})
	}
	writeJSON(w, players)
}

func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	records := []api.Score{}
	for rec, err := range s.store.All() {
		if err != nil {
			slog.Error("read scoreboard", slog.Any("error", err))
			http.Error(w, "scoreboard unavailable", http.StatusInternalServerError)
			return
		}
		records = append(records, api.Score{Name: rec.Name, Score: rec.Score})
	}
	writeJSON(w, records)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", slog.Any("error", err))
	}
}
