// Package api is the command and query surface for the presentation layer:
// GET endpoints read the game state, POST endpoints issue the command set,
// and a websocket streams log entries live.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/florin/internal/chronicle"
	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/engine"
	"github.com/talgya/florin/internal/realm"
)

// Server serves the game over HTTP.
type Server struct {
	Game  *engine.Game
	Atlas *realm.Atlas
	DB    *chronicle.DB // optional
	Port  int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	cmdLimiter := NewRateLimiter(240, time.Minute)

	mux := http.NewServeMux()

	// Queries.
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	mux.HandleFunc("GET /api/v1/state", s.handleState)
	mux.HandleFunc("GET /api/v1/atlas", s.handleAtlas)
	mux.HandleFunc("GET /api/v1/chronicle", s.handleChronicle)
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Commands.
	cmd := func(h http.HandlerFunc) http.HandlerFunc {
		return RateLimitMiddleware(cmdLimiter, h)
	}
	mux.HandleFunc("POST /api/v1/build", cmd(s.handleBuild))
	mux.HandleFunc("POST /api/v1/sell", cmd(s.handleSell))
	mux.HandleFunc("POST /api/v1/hire", cmd(s.handleHire))
	mux.HandleFunc("POST /api/v1/fire", cmd(s.handleFire))
	mux.HandleFunc("POST /api/v1/loan/accept", cmd(s.handleLoanAccept))
	mux.HandleFunc("POST /api/v1/loan/reject", cmd(s.handleLoanReject))
	mux.HandleFunc("POST /api/v1/collect", cmd(s.handleCollect))
	mux.HandleFunc("POST /api/v1/war/support", cmd(s.handleWarSupport))
	mux.HandleFunc("POST /api/v1/rebellion/support", cmd(s.handleRebellionSupport))
	mux.HandleFunc("POST /api/v1/trade", cmd(s.handleTrade))
	mux.HandleFunc("POST /api/v1/turn/end", cmd(s.handleEndTurn))
	mux.HandleFunc("POST /api/v1/reset", cmd(s.handleReset))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}

// commandResult is the uniform command response: whether the command was
// applied. Declined commands leave the state untouched.
type commandResult struct {
	OK bool `json:"ok"`
}

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		var zero T
		return zero, false
	}
	return req, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Game.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"turn":        snap.Turn,
		"gold":        humanize.Comma(int64(snap.Gold)),
		"holdings":    snap.Holdings,
		"reputation":  snap.Reputation,
		"active_wars": countUnresolved(snap.Wars),
		"game_over":   snap.GameOver,
	})
}

func countUnresolved(wars []engine.War) int {
	n := 0
	for _, w := range wars {
		if !w.Resolved {
			n++
		}
	}
	return n
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleAtlas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Atlas)
}

func (s *Server) handleChronicle(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, http.StatusOK, []chronicle.Entry{})
		return
	}
	entries, err := s.DB.RecentEntries(200)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "chronicle unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		Kingdom string `json:"kingdom"`
		Type    string `json:"type"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.Build(req.Kingdom, engine.AssetType(req.Type))})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		ID string `json:"id"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.SellWorkshop(req.ID)})
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.HireAgent()})
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		ID string `json:"id"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.FireAgent(req.ID)})
}

func (s *Server) handleLoanAccept(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		ID string `json:"id"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.AcceptLoan(req.ID)})
}

func (s *Server) handleLoanReject(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		ID string `json:"id"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.RejectLoan(req.ID)})
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		LoanID  string `json:"loan_id"`
		AgentID string `json:"agent_id"`
	}](w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.CollectDebt(req.LoanID, req.AgentID)})
}

func (s *Server) handleWarSupport(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		WarID  string `json:"war_id"`
		Side   string `json:"side"`
		Amount int    `json:"amount"`
		Kind   string `json:"kind"` // "gold" or "weapons"
	}](w, r)
	if !ok {
		return
	}
	side, valid := engine.ParseWarSide(req.Side)
	if !valid {
		writeJSON(w, http.StatusOK, commandResult{OK: false})
		return
	}
	var applied bool
	switch req.Kind {
	case "gold":
		applied = s.Game.SupportWarGold(req.WarID, side, req.Amount)
	case "weapons":
		applied = s.Game.SupportWarWeapons(req.WarID, side, req.Amount)
	}
	writeJSON(w, http.StatusOK, commandResult{OK: applied})
}

func (s *Server) handleRebellionSupport(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		ID     string `json:"id"`
		Amount int    `json:"amount"`
		Side   string `json:"side"`
	}](w, r)
	if !ok {
		return
	}
	side, valid := engine.ParseRebelSide(req.Side)
	if !valid {
		writeJSON(w, http.StatusOK, commandResult{OK: false})
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.SupportRebellion(req.ID, req.Amount, side)})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[struct {
		Resource string `json:"resource"`
		Action   string `json:"action"`
		Quantity int    `json:"quantity"`
	}](w, r)
	if !ok {
		return
	}
	res, valid := economy.ParseResource(req.Resource)
	if !valid {
		writeJSON(w, http.StatusOK, commandResult{OK: false})
		return
	}
	writeJSON(w, http.StatusOK, commandResult{OK: s.Game.Trade(res, engine.TradeAction(req.Action), req.Quantity)})
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.Game.EndTurn()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.Game.Reset()
	writeJSON(w, http.StatusOK, s.Game.Snapshot())
}
