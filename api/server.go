package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tile2048/slidegame/game/engine"
	"github.com/tile2048/slidegame/game/service"
	"github.com/tile2048/slidegame/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	metrics, registry := NewMetrics()

	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		metrics: metrics,
	}

	s.setupRoutes(registry)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(registry *prometheus.Registry) {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.metrics.instrument("create_session", s.handleCreateSession)).Methods("POST")
	api.HandleFunc("/sessions", s.metrics.instrument("list_sessions", s.handleListSessions)).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.metrics.instrument("get_session", s.handleGetSession)).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.metrics.instrument("delete_session", s.handleDeleteSession)).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.metrics.instrument("game_state", s.handleGetGameState)).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.metrics.instrument("move", s.handleMove)).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.metrics.instrument("bulk_move", s.handleBulkMove)).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.metrics.instrument("reset", s.handleReset)).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.metrics.instrument("history", s.handleGetHistory)).Methods("GET")

	// Rules
	api.HandleFunc("/rules", s.metrics.instrument("list_rules", s.handleListRules)).Methods("GET")
	api.HandleFunc("/rules", s.metrics.instrument("create_rules", s.handleCreateRules)).Methods("POST")
	api.HandleFunc("/rules/{name}", s.metrics.instrument("get_rules", s.handleGetRules)).Methods("GET")

	// Leaderboard
	api.HandleFunc("/leaderboard", s.metrics.instrument("leaderboard", s.handleLeaderboard)).Methods("GET")

	// Health and metrics
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", metricsHandler(registry)).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RulesID   string `json:"rules_id,omitempty"`
		RulesName string `json:"rules_name,omitempty"` // Deprecated, use rules_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	// Support both parameter names, but prefer rules_id
	rulesID := req.RulesID
	if rulesID == "" && req.RulesName != "" {
		rulesID = req.RulesName
	}

	session, err := s.service.CreateSession(r.Context(), rulesID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	// Set defaults
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	// Sort sessions
	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else { // "accessed"
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	// Apply limit if specified
	limit := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			limit = l
		}
	}
	sessions = sessions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    len(sessions),
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	err := s.service.DeleteSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	state, err := s.service.GetGameState(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	var req struct {
		Direction string `json:"direction"`
		Reset     bool   `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction, req.Reset)
	if err != nil {
		switch {
		case strings.Contains(err.Error(), "invalid direction"):
			respondError(w, http.StatusBadRequest, err.Error())
		case strings.Contains(err.Error(), "not found"):
			respondError(w, http.StatusNotFound, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.metrics.RecordMove(req.Direction, result.Success)
	s.recordEndings(result.Events)

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, result.GameState)
	}

	// Compact server log for observability
	status := "BLOCKED"
	if result.Success {
		status = "OK"
	}
	log.Printf("[MOVE] session=%s %s gained=%d score=%d best=%d status=%s",
		sessionID, req.Direction, result.ScoreGained, result.GameState.Score, result.GameState.BestTile, status)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	var req struct {
		Moves []string `json:"moves"`
		Reset bool     `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Moves, req.Reset)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, step := range result.Steps {
		s.metrics.RecordMove(step.Dir, step.Moved)
	}
	s.recordEndings(result.Events)

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, result.GameState)
	}

	// Compact server log for observability
	stop := result.StopReasonCode
	if stop == "" && result.StoppedReason != "" {
		stop = "stopped"
	}
	log.Printf("[BULK] session=%s exec=%d/%d stop=%s score=%d delta=%d best=%d",
		sessionID, result.MovesExecuted, result.RequestedMoves, stop,
		result.GameState.Score, result.ScoreDelta, result.GameState.BestTile)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	// Parse query parameters
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Rules Handlers

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.service.ListRules(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rulesName := vars["name"]

	// Remove .json extension if present
	rulesName = strings.TrimSuffix(rulesName, ".json")

	rules, err := s.service.LoadRules(r.Context(), rulesName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rules)
}

func (s *Server) handleCreateRules(w http.ResponseWriter, r *http.Request) {
	// Decode directly into engine.Rules which has the correct structure
	var rules engine.Rules

	if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields
	if rules.Name == "" {
		respondError(w, http.StatusBadRequest, "Rules name is required")
		return
	}

	// Save rules file
	if err := s.service.SaveRules(r.Context(), rules.Name, &rules); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save rules: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Rules saved successfully",
		"rules_id": rules.Name,
	})
}

// Leaderboard Handler

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	entries, err := s.service.TopScores(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	_, err := s.service.GetSession(context.Background(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// recordEndings counts victory and game_over events in the metrics
func (s *Server) recordEndings(events []service.GameEvent) {
	for _, ev := range events {
		switch ev.Type {
		case "victory":
			s.metrics.RecordGameFinished(true)
		case "game_over":
			s.metrics.RecordGameFinished(false)
		}
	}
}
