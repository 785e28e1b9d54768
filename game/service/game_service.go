package service

import (
	"context"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/config"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/session"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	StartGame(ctx context.Context, req StartGameRequest) (*GameStatus, error)
	GetStatus(ctx context.Context, sessionKey string) (*GameStatus, error)
	ListGames(ctx context.Context) ([]*GameSummary, error)
	DeleteGame(ctx context.Context, sessionKey string) error

	// Game Play
	SubmitMove(ctx context.Context, sessionKey string, positions []string) (*MoveResult, error)

	// Queries
	GetMoveHistory(ctx context.Context, sessionKey string, opts HistoryOptions) (*HistoryPage, error)
	GetLeaderboard(ctx context.Context, opts LeaderboardOptions) (*LeaderboardPage, error)

	// Themes
	ListThemes(ctx context.Context) ([]*ThemeInfo, error)
}

// SessionManager defines session lifecycle operations
type SessionManager interface {
	Create(ctx context.Context, key, theme string, categories []engine.Category) (*session.Session, error)
	Get(ctx context.Context, key string) (*session.Session, error)
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*session.Document, error)
	ListCompleted(ctx context.Context, filter session.Filter) ([]*session.Document, error)
}

// ThemeCatalog handles card theme loading
type ThemeCatalog interface {
	LoadTheme(name string) (*config.Theme, error)
	ListThemes() ([]*config.Theme, error)
	GetDefault() *config.Theme
}
