package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/service"
	"github.com/WyzeTalkAssignment/memory-game-dev/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	StartGameFunc func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error)
	GetStatusFunc func(ctx context.Context, sessionKey string) (*service.GameStatus, error)
	ListGamesFunc func(ctx context.Context) ([]*service.GameSummary, error)
	DeleteGameFunc func(ctx context.Context, sessionKey string) error

	// Game Play
	SubmitMoveFunc func(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error)

	// Queries
	GetMoveHistoryFunc func(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error)
	GetLeaderboardFunc func(ctx context.Context, opts service.LeaderboardOptions) (*service.LeaderboardPage, error)

	// Themes
	ListThemesFunc func(ctx context.Context) ([]*service.ThemeInfo, error)
}

func (m *MockGameService) StartGame(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
	if m.StartGameFunc != nil {
		return m.StartGameFunc(ctx, req)
	}
	return &service.GameStatus{
		SessionKey: "test-session",
		Theme:      "animals",
		StartTime:  time.Now(),
	}, nil
}

func (m *MockGameService) GetStatus(ctx context.Context, sessionKey string) (*service.GameStatus, error) {
	if m.GetStatusFunc != nil {
		return m.GetStatusFunc(ctx, sessionKey)
	}
	return &service.GameStatus{
		SessionKey: sessionKey,
		Theme:      "animals",
		StartTime:  time.Now(),
	}, nil
}

func (m *MockGameService) ListGames(ctx context.Context) ([]*service.GameSummary, error) {
	if m.ListGamesFunc != nil {
		return m.ListGamesFunc(ctx)
	}
	return []*service.GameSummary{}, nil
}

func (m *MockGameService) DeleteGame(ctx context.Context, sessionKey string) error {
	if m.DeleteGameFunc != nil {
		return m.DeleteGameFunc(ctx, sessionKey)
	}
	return nil
}

func (m *MockGameService) SubmitMove(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error) {
	if m.SubmitMoveFunc != nil {
		return m.SubmitMoveFunc(ctx, sessionKey, positions)
	}
	return &service.MoveResult{
		SessionKey: sessionKey,
		Cards:      [2]engine.Position{"A1", "B2"},
		Categories: [2]engine.Category{"lion", "bear"},
		Attempts:   1,
		Remaining:  8,
		Message:    "No match",
	}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionKey, opts)
	}
	return &service.HistoryPage{
		SessionKey: sessionKey,
		Moves:      []engine.Move{},
		TotalMoves: 0,
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) GetLeaderboard(ctx context.Context, opts service.LeaderboardOptions) (*service.LeaderboardPage, error) {
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(ctx, opts)
	}
	return &service.LeaderboardPage{
		Entries:    []service.LeaderboardEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

func (m *MockGameService) ListThemes(ctx context.Context) ([]*service.ThemeInfo, error) {
	if m.ListThemesFunc != nil {
		return m.ListThemesFunc(ctx)
	}
	return []*service.ThemeInfo{}, nil
}

// Test helpers
func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub()
	go hub.Run()
	return NewServer(mockService, hub)
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Game Lifecycle Tests

func TestStartGame(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Start game with default theme",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.StartGameFunc = func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
					if req.Theme != "" {
						t.Errorf("Expected empty theme, got %s", req.Theme)
					}
					return &service.GameStatus{
						SessionKey: "game-123",
						Theme:      "animals",
						StartTime:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameStatus
				parseResponse(t, w, &resp)
				if resp.SessionKey != "game-123" {
					t.Errorf("Expected session key game-123, got %s", resp.SessionKey)
				}
			},
		},
		{
			name:        "Start game with specific theme",
			requestBody: map[string]string{"theme": "fruits"},
			setupMock: func(m *MockGameService) {
				m.StartGameFunc = func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
					if req.Theme != "fruits" {
						t.Errorf("Expected theme 'fruits', got %s", req.Theme)
					}
					return &service.GameStatus{
						SessionKey: "game-456",
						Theme:      req.Theme,
						StartTime:  time.Now(),
					}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameStatus
				parseResponse(t, w, &resp)
				if resp.Theme != "fruits" {
					t.Errorf("Expected theme 'fruits', got %s", resp.Theme)
				}
			},
		},
		{
			name:        "Unknown theme maps to 404",
			requestBody: map[string]string{"theme": "dinosaurs"},
			setupMock: func(m *MockGameService) {
				m.StartGameFunc = func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
					return nil, service.NewError(service.CodeNotFound, `theme "dinosaurs" not found`)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Duplicate session key maps to 400",
			requestBody: map[string]string{"sessionKey": "taken"},
			setupMock: func(m *MockGameService) {
				m.StartGameFunc = func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
					return nil, service.NewError(service.CodeInvalidInput, "session key already in use")
				}
			},
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "session key already in use" {
					t.Errorf("Unexpected error message: %s", resp["error"])
				}
			},
		},
		{
			name:        "Uncoded service error maps to 500",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.StartGameFunc = func(ctx context.Context, req service.StartGameRequest) (*service.GameStatus, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/games/start", tt.requestBody)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestStartGame_EmptyBody(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games/start", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("Empty body should be accepted, got status %d", w.Code)
	}
}

func TestListGames(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name: "List multiple games",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameSummary, error) {
					return []*service.GameSummary{
						{SessionKey: "game-1", Theme: "animals", Attempts: 4},
						{SessionKey: "game-2", Theme: "fruits", IsCompleted: true},
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 2 {
					t.Errorf("Expected count 2, got %v", resp["count"])
				}
				games := resp["games"].([]interface{})
				if len(games) != 2 {
					t.Errorf("Expected 2 games, got %d", len(games))
				}
			},
		},
		{
			name: "Handle empty game list",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameSummary, error) {
					return []*service.GameSummary{}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]interface{}
				parseResponse(t, w, &resp)
				if resp["count"].(float64) != 0 {
					t.Errorf("Expected count 0, got %v", resp["count"])
				}
			},
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.ListGamesFunc = func(ctx context.Context) ([]*service.GameSummary, error) {
					return nil, service.NewError(service.CodeInternal, "storage error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "storage error" {
					t.Errorf("Expected error 'storage error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/games", nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestGetStatus(t *testing.T) {
	tests := []struct {
		name           string
		sessionKey     string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "Get existing game",
			sessionKey: "game-123",
			setupMock: func(m *MockGameService) {
				m.GetStatusFunc = func(ctx context.Context, sessionKey string) (*service.GameStatus, error) {
					if sessionKey != "game-123" {
						return nil, service.NewError(service.CodeNotFound, "session not found")
					}
					return &service.GameStatus{
						SessionKey: sessionKey,
						Theme:      "animals",
						Attempts:   7,
						Remaining:  3,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.GameStatus
				parseResponse(t, w, &resp)
				if resp.SessionKey != "game-123" || resp.Attempts != 7 {
					t.Errorf("Unexpected status payload: %+v", resp)
				}
			},
		},
		{
			name:       "Game not found",
			sessionKey: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.GetStatusFunc = func(ctx context.Context, sessionKey string) (*service.GameStatus, error) {
					return nil, service.NewError(service.CodeNotFound, "session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "session not found" {
					t.Errorf("Expected error 'session not found', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("GET", "/games/"+tt.sessionKey+"/status", nil)
			req = mux.SetURLVars(req, map[string]string{"sessionKey": tt.sessionKey})

			server.handleGetStatus(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestDeleteGame(t *testing.T) {
	tests := []struct {
		name           string
		sessionKey     string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:       "Delete existing game",
			sessionKey: "game-123",
			setupMock: func(m *MockGameService) {
				m.DeleteGameFunc = func(ctx context.Context, sessionKey string) error {
					if sessionKey != "game-123" {
						return service.NewError(service.CodeNotFound, "session not found")
					}
					return nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["message"] != "Game game-123 deleted" {
					t.Errorf("Unexpected message: %s", resp["message"])
				}
			},
		},
		{
			name:       "Delete non-existent game",
			sessionKey: "nonexistent",
			setupMock: func(m *MockGameService) {
				m.DeleteGameFunc = func(ctx context.Context, sessionKey string) error {
					return service.NewError(service.CodeNotFound, "session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "session not found" {
					t.Errorf("Expected error 'session not found', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("DELETE", "/games/"+tt.sessionKey, nil)
			req = mux.SetURLVars(req, map[string]string{"sessionKey": tt.sessionKey})

			server.handleDeleteGame(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

// Game Play Tests

func TestSubmitMove(t *testing.T) {
	tests := []struct {
		name           string
		sessionKey     string
		requestBody    map[string]interface{}
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Matching pair",
			sessionKey:  "game-123",
			requestBody: map[string]interface{}{"cards": []string{"A1", "C3"}},
			setupMock: func(m *MockGameService) {
				m.SubmitMoveFunc = func(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error) {
					if len(positions) != 2 || positions[0] != "A1" || positions[1] != "C3" {
						t.Errorf("Unexpected positions: %v", positions)
					}
					return &service.MoveResult{
						SessionKey:   sessionKey,
						Cards:        [2]engine.Position{"A1", "C3"},
						Categories:   [2]engine.Category{"lion", "lion"},
						IsMatch:      true,
						Attempts:     5,
						MatchedCount: 3,
						Remaining:    5,
						Message:      "Match! Both cards show lion.",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if !resp.IsMatch {
					t.Error("Expected IsMatch to be true")
				}
				if resp.MatchedCount != 3 {
					t.Errorf("Expected 3 matched pairs, got %d", resp.MatchedCount)
				}
			},
		},
		{
			name:        "Winning move carries score",
			sessionKey:  "game-123",
			requestBody: map[string]interface{}{"cards": []string{"D4", "B2"}},
			setupMock: func(m *MockGameService) {
				m.SubmitMoveFunc = func(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error) {
					ms := int64(90_000)
					score := 530
					return &service.MoveResult{
						SessionKey:     sessionKey,
						Cards:          [2]engine.Position{"D4", "B2"},
						Categories:     [2]engine.Category{"owl", "owl"},
						IsMatch:        true,
						Attempts:       12,
						MatchedCount:   8,
						Remaining:      0,
						IsCompleted:    true,
						CompletionTime: &ms,
						Score:          &score,
						Message:        "All 8 pairs found in 12 attempts. Well played!",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.MoveResult
				parseResponse(t, w, &resp)
				if !resp.IsCompleted || resp.Score == nil || *resp.Score != 530 {
					t.Errorf("Expected completed result with score 530: %+v", resp)
				}
			},
		},
		{
			name:        "Invalid position maps to 400",
			sessionKey:  "game-123",
			requestBody: map[string]interface{}{"cards": []string{"A1", "Z9"}},
			setupMock: func(m *MockGameService) {
				m.SubmitMoveFunc = func(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error) {
					return nil, service.NewError(service.CodeInvalidInput, "position is not on the board")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Unknown session maps to 404",
			sessionKey:  "nonexistent",
			requestBody: map[string]interface{}{"cards": []string{"A1", "B2"}},
			setupMock: func(m *MockGameService) {
				m.SubmitMoveFunc = func(ctx context.Context, sessionKey string, positions []string) (*service.MoveResult, error) {
					return nil, service.NewError(service.CodeNotFound, "session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := makeRequest("POST", "/games/"+tt.sessionKey+"/submit", tt.requestBody)
			req = mux.SetURLVars(req, map[string]string{"sessionKey": tt.sessionKey})

			server.handleSubmitMove(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestSubmitMove_MalformedBody(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/games/game-123/submit", bytes.NewBufferString("{not json"))
	req = mux.SetURLVars(req, map[string]string{"sessionKey": "game-123"})

	server.handleSubmitMove(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name           string
		sessionKey     string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Absent parameters pass through as zero",
			sessionKey:  "game-123",
			queryParams: "",
			setupMock: func(m *MockGameService) {
				m.GetMoveHistoryFunc = func(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error) {
					if opts.Page != 0 || opts.Limit != 0 {
						t.Errorf("Expected zero options for absent params, got page=%d limit=%d", opts.Page, opts.Limit)
					}
					return &service.HistoryPage{
						SessionKey: sessionKey,
						Moves:      []engine.Move{{Cards: [2]engine.Position{"A1", "B2"}}},
						TotalMoves: 1,
						Page:       1,
						PageSize:   20,
						TotalPages: 1,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.HistoryPage
				parseResponse(t, w, &resp)
				if resp.PageSize != 20 {
					t.Errorf("Expected page size 20, got %d", resp.PageSize)
				}
			},
		},
		{
			name:        "Custom pagination parameters",
			sessionKey:  "game-123",
			queryParams: "?page=2&limit=10&order=desc",
			setupMock: func(m *MockGameService) {
				m.GetMoveHistoryFunc = func(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error) {
					if opts.Page != 2 || opts.Limit != 10 || opts.Order != "desc" {
						t.Errorf("Expected page=2, limit=10, order=desc, got page=%d, limit=%d, order=%s",
							opts.Page, opts.Limit, opts.Order)
					}
					return &service.HistoryPage{Page: 2, PageSize: 10}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed page rejected before the service runs",
			sessionKey:     "game-123",
			queryParams:    "?page=banana",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "page must be a positive integer" {
					t.Errorf("Unexpected error message: %s", resp["error"])
				}
			},
		},
		{
			name:           "Zero limit rejected",
			sessionKey:     "game-123",
			queryParams:    "?limit=0",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Page beyond last maps to 400",
			sessionKey:  "game-123",
			queryParams: "?page=99",
			setupMock: func(m *MockGameService) {
				m.GetMoveHistoryFunc = func(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error) {
					return nil, service.NewError(service.CodeInvalidInput, "page 99 is beyond the last page (1)")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			serviceCalled := false
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			} else {
				m := mockService
				m.GetMoveHistoryFunc = func(ctx context.Context, sessionKey string, opts service.HistoryOptions) (*service.HistoryPage, error) {
					serviceCalled = true
					return &service.HistoryPage{}, nil
				}
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/games/"+tt.sessionKey+"/history"+tt.queryParams, nil)
			req = mux.SetURLVars(req, map[string]string{"sessionKey": tt.sessionKey})

			server.handleGetHistory(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.setupMock == nil && serviceCalled {
				t.Error("Service should not run when a query parameter is malformed")
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

// Leaderboard Tests

func TestLeaderboard(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Ranked entries",
			queryParams: "",
			setupMock: func(m *MockGameService) {
				m.GetLeaderboardFunc = func(ctx context.Context, opts service.LeaderboardOptions) (*service.LeaderboardPage, error) {
					return &service.LeaderboardPage{
						Entries: []service.LeaderboardEntry{
							{Rank: 1, SessionKey: "champ", Attempts: 9, CompletionTime: 45_000, Score: 932},
							{Rank: 2, SessionKey: "runner-up", Attempts: 12, CompletionTime: 80_000, Score: 900},
						},
						TotalGames: 2,
						Page:       1,
						PageSize:   10,
						TotalPages: 1,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.LeaderboardPage
				parseResponse(t, w, &resp)
				if len(resp.Entries) != 2 || resp.Entries[0].SessionKey != "champ" {
					t.Errorf("Unexpected leaderboard: %+v", resp)
				}
			},
		},
		{
			name:        "Filters forwarded to the service",
			queryParams: "?minAttempts=5&maxAttempts=20&minCompletionTime=1000&maxCompletionTime=600000&page=2&limit=5",
			setupMock: func(m *MockGameService) {
				m.GetLeaderboardFunc = func(ctx context.Context, opts service.LeaderboardOptions) (*service.LeaderboardPage, error) {
					if opts.MinAttempts == nil || *opts.MinAttempts != 5 {
						t.Errorf("minAttempts not forwarded: %+v", opts.MinAttempts)
					}
					if opts.MaxAttempts == nil || *opts.MaxAttempts != 20 {
						t.Errorf("maxAttempts not forwarded: %+v", opts.MaxAttempts)
					}
					if opts.MinCompletionMs == nil || *opts.MinCompletionMs != 1000 {
						t.Errorf("minCompletionTime not forwarded: %+v", opts.MinCompletionMs)
					}
					if opts.MaxCompletionMs == nil || *opts.MaxCompletionMs != 600000 {
						t.Errorf("maxCompletionTime not forwarded: %+v", opts.MaxCompletionMs)
					}
					if opts.Page != 2 || opts.Limit != 5 {
						t.Errorf("pagination not forwarded: page=%d limit=%d", opts.Page, opts.Limit)
					}
					return &service.LeaderboardPage{Page: 2, PageSize: 5}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed filter rejected",
			queryParams:    "?minAttempts=lots",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Negative filter rejected",
			queryParams:    "?maxCompletionTime=-5",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Contradictory filters map to 400",
			queryParams: "?minAttempts=10&maxAttempts=5",
			setupMock: func(m *MockGameService) {
				m.GetLeaderboardFunc = func(ctx context.Context, opts service.LeaderboardOptions) (*service.LeaderboardPage, error) {
					return nil, service.NewError(service.CodeInvalidInput, "minAttempts must not exceed maxAttempts")
				}
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/leaderboard"+tt.queryParams, nil)

			server.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListThemes(t *testing.T) {
	mockService := &MockGameService{
		ListThemesFunc: func(ctx context.Context) ([]*service.ThemeInfo, error) {
			return []*service.ThemeInfo{
				{Name: "animals", Description: "Friendly animals"},
				{Name: "fruits", Description: "Fresh fruits"},
			}, nil
		},
	}

	server := setupTestServer(mockService)
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/themes", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	parseResponse(t, w, &resp)
	if resp["count"].(float64) != 2 {
		t.Errorf("Expected count 2, got %v", resp["count"])
	}
}

func TestHealth(t *testing.T) {
	server := setupTestServer(&MockGameService{})
	w := httptest.NewRecorder()
	req := makeRequest("GET", "/health", nil)

	server.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	parseResponse(t, w, &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %s", resp["status"])
	}
}

func TestWebSocket(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		setupMock      func(*MockGameService)
		expectedStatus int
	}{
		{
			name:           "Missing session parameter",
			queryParams:    "",
			setupMock:      nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "Invalid session",
			queryParams: "?session=invalid",
			setupMock: func(m *MockGameService) {
				m.GetStatusFunc = func(ctx context.Context, sessionKey string) (*service.GameStatus, error) {
					return nil, service.NewError(service.CodeNotFound, "session not found")
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "Valid session",
			queryParams: "?session=game-123",
			setupMock: func(m *MockGameService) {
				m.GetStatusFunc = func(ctx context.Context, sessionKey string) (*service.GameStatus, error) {
					return &service.GameStatus{SessionKey: sessionKey, Theme: "animals"}, nil
				}
			},
			expectedStatus: http.StatusSwitchingProtocols,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/ws"+tt.queryParams, nil)

			// For WebSocket upgrade test, we need proper headers
			if tt.expectedStatus == http.StatusSwitchingProtocols {
				req.Header.Set("Upgrade", "websocket")
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
				req.Header.Set("Sec-WebSocket-Version", "13")
			}

			server.handleWebSocket(w, req)

			// WebSocket upgrade fails in unit tests due to httptest.ResponseRecorder limitations
			if tt.expectedStatus == http.StatusSwitchingProtocols {
				// Can't test actual WebSocket upgrade with httptest.ResponseRecorder
				// It doesn't implement http.Hijacker interface
				// We accept 500 error in this case as it indicates the upgrade was attempted
				if w.Code == http.StatusInternalServerError {
					return
				}
			}

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}
