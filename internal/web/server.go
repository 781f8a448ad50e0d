// Package web serves the simulation viewer: the card set, one-shot
// simulated games as JSON, and a live websocket stream of a seeded
// game as it plays out.
package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	stdlog "log"
	"net/http"
	"strconv"

	"github.com/coder/websocket"

	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/log"
	"github.com/mloncour/menagerie/internal/sim"
)

//go:embed static
var staticFiles embed.FS

// CardInfo is the JSON representation of a definition for /api/cards.
type CardInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Cost    int    `json:"cost"`
	Attack  int    `json:"attack"`
	Health  int    `json:"health"`
	Level   int    `json:"level"`
	Family  string `json:"family"`
	Class   string `json:"class"`
	Ability string `json:"ability,omitempty"`
}

// SimulationInfo is the JSON envelope of /api/simulate.
type SimulationInfo struct {
	Seed   int64            `json:"seed"`
	Winner int              `json:"winner"`
	IsDraw bool             `json:"isDraw"`
	Turns  int              `json:"turns"`
	Result string           `json:"result"`
	State  *game.StateView  `json:"state"`
	Events []game.EventView `json:"events"`
}

// Server is the menagerie web viewer server.
type Server struct {
	defs []*game.CardDef
	mux  *http.ServeMux
}

// NewServer creates a viewer over the given card set.
func NewServer(defs []*game.CardDef) *Server {
	s := &Server{defs: defs, mux: http.NewServeMux()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f)
	})

	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/simulate", s.handleSimulate)
	s.mux.HandleFunc("GET /ws/watch", s.handleWatch)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, def := range s.defs {
		cards = append(cards, CardInfo{
			ID:      def.ID,
			Name:    def.Name,
			Cost:    def.Cost,
			Attack:  def.Attack,
			Health:  def.Health,
			Level:   def.Level,
			Family:  def.Family,
			Class:   def.Class,
			Ability: def.Ability,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

// queryParams pulls seed/players/agents out of the request, with
// defaults suitable for a quick look.
func queryParams(r *http.Request) (seed int64, players int, agents sim.AgentType) {
	seed = 1
	players = 2
	if v := r.URL.Query().Get("seed"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = n
		}
	}
	if v := r.URL.Query().Get("players"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 2 && n <= 8 {
			players = n
		}
	}
	if r.URL.Query().Get("agents") == "greedy" {
		agents = sim.GreedyAgents
	}
	return seed, players, agents
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	seed, players, agents := queryParams(r)

	seats := make([]game.PlayerAgent, players)
	for i := range seats {
		seats[i] = sim.NewAgent(agents, seed+int64(i)+1)
	}
	logger := log.NewMemoryLogger()
	g, err := game.NewGame(game.GameConfig{
		Defs:   s.defs,
		Agents: seats,
		Seed:   seed,
		Logger: logger,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	winner, err := g.Run(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("game aborted: %v", err), http.StatusInternalServerError)
		return
	}

	info := SimulationInfo{
		Seed:   seed,
		Winner: winner,
		IsDraw: g.State.IsDraw,
		Turns:  g.State.Turn,
		Result: g.State.Result,
		State:  game.BuildStateView(g.State),
	}
	for _, e := range logger.Events() {
		info.Events = append(info.Events, game.BuildEventView(e))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// streamLogger forwards every event to a channel as it is logged.
type streamLogger struct {
	log.MemoryLogger
	ch chan log.GameEvent
}

func (l *streamLogger) Log(event log.GameEvent) {
	l.MemoryLogger.Log(event)
	l.ch <- l.LastEvent()
}

// handleWatch plays a seeded game and streams its events over the
// websocket as they happen, finishing with the final state view.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // allow connections from any origin
	})
	if err != nil {
		stdlog.Printf("websocket accept: %v", err)
		return
	}
	defer wsConn.CloseNow()
	ctx := r.Context()

	seed, players, agents := queryParams(r)
	seats := make([]game.PlayerAgent, players)
	for i := range seats {
		seats[i] = sim.NewAgent(agents, seed+int64(i)+1)
	}

	logger := &streamLogger{ch: make(chan log.GameEvent, 64)}
	g, err := game.NewGame(game.GameConfig{
		Defs:   s.defs,
		Agents: seats,
		Seed:   seed,
		Logger: logger,
	})
	if err != nil {
		wsConn.Close(websocket.StatusInternalError, err.Error())
		return
	}

	done := make(chan error, 1)
	go func() {
		_, runErr := g.Run(ctx)
		close(logger.ch)
		done <- runErr
	}()

	for event := range logger.ch {
		data, _ := json.Marshal(game.BuildEventView(event))
		if err := wsConn.Write(ctx, websocket.MessageText, data); err != nil {
			// Keep draining so the game goroutine can finish and exit.
			go func() {
				for range logger.ch {
				}
			}()
			return
		}
	}
	if runErr := <-done; runErr != nil {
		wsConn.Close(websocket.StatusInternalError, runErr.Error())
		return
	}

	final, _ := json.Marshal(map[string]any{
		"type":  "final",
		"state": game.BuildStateView(g.State),
	})
	wsConn.Write(ctx, websocket.MessageText, final)
	wsConn.Close(websocket.StatusNormalClosure, "game ended")
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}
