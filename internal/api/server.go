package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AaronLay10/PuzzleMaster/internal/events"
	"github.com/AaronLay10/PuzzleMaster/internal/puzzle"
	"github.com/AaronLay10/PuzzleMaster/internal/version"
)

// Puzzle is the controller surface the operator endpoints use.
type Puzzle interface {
	State() puzzle.State
	Puzzle() (puzzle.PuzzleID, bool)
	Remaining() []puzzle.TargetID
	EliminateTarget(t puzzle.TargetID) bool
}

// Stage reports scene progress.
type Stage interface {
	Current() string
	Finished() (finished, won bool)
}

// Readiness tracks external dependencies for /ready.
type Readiness struct {
	mu                sync.RWMutex
	mqttConnected     bool
	mqttOptional      bool
	postgresConnected bool
}

func (r *Readiness) SetMQTT(connected, optional bool) {
	r.mu.Lock()
	r.mqttConnected, r.mqttOptional = connected, optional
	r.mu.Unlock()
}

func (r *Readiness) SetPostgres(connected bool) {
	r.mu.Lock()
	r.postgresConnected = connected
	r.mu.Unlock()
}

// Config wires a Server.
type Config struct {
	RoomID    string
	Puzzle    Puzzle
	Stage     Stage
	Readiness *Readiness
	Auth      *Credentials
}

// Server is the operator HTTP surface.
type Server struct {
	roomID string
	puzzle Puzzle
	stage  Stage
	ready  *Readiness
	auth   *Credentials
}

func NewServer(cfg Config) *Server {
	if cfg.Readiness == nil {
		cfg.Readiness = &Readiness{}
	}
	return &Server{
		roomID: cfg.RoomID,
		puzzle: cfg.Puzzle,
		stage:  cfg.Stage,
		ready:  cfg.Readiness,
		auth:   cfg.Auth,
	}
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/ready", s.readyHandler)
	mux.HandleFunc("/events", eventsHandler)
	mux.HandleFunc("/ws/events", wsEventsHandler)
	mux.HandleFunc("/puzzle", s.puzzleHandler)
	mux.HandleFunc("/puzzle/eliminate", s.auth.require(s.eliminateHandler))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Run serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("api: listening on %s", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events.CloseAllSubscribers()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Room      string `json:"room"`
	Version   string `json:"version"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"ts"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   "puzzlemaster",
		Room:      s.roomID,
		Version:   version.Version,
		Hostname:  host,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type ReadinessResponse struct {
	Ready    bool `json:"ready"`
	MQTT     bool `json:"mqtt"`
	Postgres bool `json:"postgres"`
}

// readyHandler fails only when a required MQTT broker is down. Postgres
// is always optional.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	s.ready.mu.RLock()
	resp := ReadinessResponse{
		Ready:    s.ready.mqttConnected || s.ready.mqttOptional,
		MQTT:     s.ready.mqttConnected,
		Postgres: s.ready.postgresConnected,
	}
	s.ready.mu.RUnlock()

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, events.Snapshot())
}

type PuzzleResponse struct {
	PuzzleID  string   `json:"puzzle_id,omitempty"`
	State     string   `json:"state"`
	Remaining []string `json:"remaining"`
	Scene     string   `json:"scene,omitempty"`
	Finished  bool     `json:"finished"`
	Won       bool     `json:"won"`
}

func (s *Server) puzzleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, OperatorResponse{Error: "method not allowed"})
		return
	}

	resp := PuzzleResponse{State: string(s.puzzle.State()), Remaining: []string{}}
	if id, ok := s.puzzle.Puzzle(); ok {
		resp.PuzzleID = string(id)
	}
	for _, t := range s.puzzle.Remaining() {
		resp.Remaining = append(resp.Remaining, string(t))
	}
	if s.stage != nil {
		resp.Scene = s.stage.Current()
		resp.Finished, resp.Won = s.stage.Finished()
	}
	writeJSON(w, http.StatusOK, resp)
}

type EliminateRequest struct {
	Target string `json:"target"`
}

type OperatorResponse struct {
	OK       bool   `json:"ok"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// eliminateHandler lets an operator remove a target by hand, for props
// that failed to report.
func (s *Server) eliminateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, OperatorResponse{Error: "method not allowed"})
		return
	}

	var req EliminateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, OperatorResponse{Error: "invalid JSON"})
		return
	}
	if req.Target == "" {
		writeJSON(w, http.StatusBadRequest, OperatorResponse{Error: "target required"})
		return
	}

	accepted := s.puzzle.EliminateTarget(puzzle.TargetID(req.Target))
	events.Emit("info", "operator.eliminate", "", map[string]interface{}{
		"target":   req.Target,
		"accepted": accepted,
	})
	writeJSON(w, http.StatusOK, OperatorResponse{OK: true, Accepted: accepted})
}
