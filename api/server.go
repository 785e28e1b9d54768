package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/service"
	"github.com/WyzeTalkAssignment/memory-game-dev/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// Game lifecycle ("/games/start" must be registered before the
	// "/games/{sessionKey}" patterns)
	s.router.HandleFunc("/games/start", s.handleStartGame).Methods("POST")
	s.router.HandleFunc("/games", s.handleListGames).Methods("GET")
	s.router.HandleFunc("/games/{sessionKey}", s.handleDeleteGame).Methods("DELETE")

	// Game play
	s.router.HandleFunc("/games/{sessionKey}/status", s.handleGetStatus).Methods("GET")
	s.router.HandleFunc("/games/{sessionKey}/submit", s.handleSubmitMove).Methods("POST")
	s.router.HandleFunc("/games/{sessionKey}/history", s.handleGetHistory).Methods("GET")

	// Rankings and themes
	s.router.HandleFunc("/leaderboard", s.handleLeaderboard).Methods("GET")
	s.router.HandleFunc("/themes", s.handleListThemes).Methods("GET")

	// Operational
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
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

// respondServiceError maps a service error onto its HTTP status. Anything
// that is not a coded service error counts as internal.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, service.CodeOf(err).HTTPStatus(), err.Error())
}

// Game Handlers

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req service.StartGameRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	status, err := s.service.StartGame(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, status)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.service.ListGames(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(summaries),
		"games": summaries,
	})
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionKey := vars["sessionKey"]

	status, err := s.service.GetStatus(r.Context(), sessionKey)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionKey := vars["sessionKey"]

	if err := s.service.DeleteGame(r.Context(), sessionKey); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", sessionKey),
	})
}

func (s *Server) handleSubmitMove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionKey := vars["sessionKey"]

	var req struct {
		Cards []string `json:"cards"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.service.SubmitMove(r.Context(), sessionKey, req.Cards)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Broadcast to WebSocket clients
	if s.hub != nil {
		s.hub.BroadcastMoveResult(result.SessionKey, result)
		if result.IsCompleted {
			s.hub.BroadcastEvent(result.SessionKey, "game_completed", result)
		}
	}

	// Compact server log for observability
	outcome := "MISS"
	if result.IsMatch {
		outcome = "MATCH"
	}
	log.Printf("[MOVE] session=%s %s+%s %s attempts=%d remaining=%d completed=%v",
		result.SessionKey, result.Cards[0], result.Cards[1], outcome,
		result.Attempts, result.Remaining, result.IsCompleted)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionKey := vars["sessionKey"]

	var opts service.HistoryOptions
	query := r.URL.Query()

	page, ok := parsePositiveInt(w, query.Get("page"), "page")
	if !ok {
		return
	}
	opts.Page = page

	limit, ok := parsePositiveInt(w, query.Get("limit"), "limit")
	if !ok {
		return
	}
	opts.Limit = limit
	opts.Order = query.Get("order")

	history, err := s.service.GetMoveHistory(r.Context(), sessionKey, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var opts service.LeaderboardOptions
	query := r.URL.Query()

	page, ok := parsePositiveInt(w, query.Get("page"), "page")
	if !ok {
		return
	}
	opts.Page = page

	limit, ok := parsePositiveInt(w, query.Get("limit"), "limit")
	if !ok {
		return
	}
	opts.Limit = limit

	if opts.MinAttempts, ok = parseIntFilter(w, query.Get("minAttempts"), "minAttempts"); !ok {
		return
	}
	if opts.MaxAttempts, ok = parseIntFilter(w, query.Get("maxAttempts"), "maxAttempts"); !ok {
		return
	}
	if opts.MinCompletionMs, ok = parseInt64Filter(w, query.Get("minCompletionTime"), "minCompletionTime"); !ok {
		return
	}
	if opts.MaxCompletionMs, ok = parseInt64Filter(w, query.Get("maxCompletionTime"), "maxCompletionTime"); !ok {
		return
	}

	board, err := s.service.GetLeaderboard(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := s.service.ListThemes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(themes),
		"themes": themes,
	})
}

// Query parameter helpers. Absent parameters return the zero value (the
// service applies defaults); present-but-malformed parameters are rejected
// before the service runs, so a bad request never touches any session.

func parsePositiveInt(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return v, true
}

func parseIntFilter(w http.ResponseWriter, raw, name string) (*int, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return nil, false
	}
	return &v, true
}

func parseInt64Filter(w http.ResponseWriter, raw, name string) (*int64, bool) {
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return nil, false
	}
	return &v, true
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.URL.Query().Get("session")
	if sessionKey == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	if _, err := s.service.GetStatus(r.Context(), sessionKey); err != nil {
		http.Error(w, "Invalid session", service.CodeOf(err).HTTPStatus())
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, sessionKey)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
