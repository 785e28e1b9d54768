package service

import (
	"time"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
)

// StartGameRequest carries the optional inputs for starting a game.
type StartGameRequest struct {
	SessionKey string `json:"sessionKey"`
	Theme      string `json:"theme"`
}

// CardView is a card as shown to players. The category stays hidden until
// the card is face up, so a status read never gives away the board.
type CardView struct {
	ID         int             `json:"id"`
	Position   engine.Position `json:"position"`
	Category   engine.Category `json:"category,omitempty"`
	IsMatched  bool            `json:"isMatched"`
	IsRevealed bool            `json:"isRevealed"`
}

// GameStatus is the full player-facing view of one session.
type GameStatus struct {
	SessionKey     string               `json:"sessionKey"`
	Theme          string               `json:"theme"`
	Cards          []CardView           `json:"cards"`
	Attempts       int                  `json:"attempts"`
	MatchedPairs   [][2]engine.Position `json:"matchedPairs"`
	MatchedCount   int                  `json:"matchedCount"` // pairs found so far
	Remaining      int                  `json:"remaining"`    // unmatched cards
	IsCompleted    bool                 `json:"isCompleted"`
	StartTime      time.Time            `json:"startTime"`
	EndTime        *time.Time           `json:"endTime"`
	CompletionTime *int64               `json:"completionTime,omitempty"` // milliseconds
	Score          *int                 `json:"score,omitempty"`
}

// MoveResult reports the outcome of one submitted pair.
type MoveResult struct {
	SessionKey     string              `json:"sessionKey"`
	Cards          [2]engine.Position  `json:"cards"`
	Categories     [2]engine.Category  `json:"categories"`
	IsMatch        bool                `json:"isMatch"`
	Attempts       int                 `json:"attempts"`
	MatchedCount   int                 `json:"matchedCount"` // pairs found so far
	Remaining      int                 `json:"remaining"`    // unmatched cards
	IsCompleted    bool                `json:"isCompleted"`
	Message        string              `json:"message"`
	CompletionTime *int64              `json:"completionTime,omitempty"` // milliseconds
	Score          *int                `json:"score,omitempty"`
}

// GameSummary is the compact session view used by listings.
type GameSummary struct {
	SessionKey   string     `json:"sessionKey"`
	Theme        string     `json:"theme"`
	Attempts     int        `json:"attempts"`
	MatchedCount int        `json:"matchedCount"` // pairs found so far
	IsCompleted  bool       `json:"isCompleted"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryPage contains one page of a session's move log.
type HistoryPage struct {
	SessionKey  string        `json:"sessionKey"`
	Moves       []engine.Move `json:"moves"`
	TotalMoves  int           `json:"totalMoves"`
	Page        int           `json:"page"`
	PageSize    int           `json:"pageSize"`
	TotalPages  int           `json:"totalPages"`
	HasNext     bool          `json:"hasNext"`
	HasPrevious bool          `json:"hasPrevious"`
}

// LeaderboardOptions configures the completed-games ranking query.
type LeaderboardOptions struct {
	Page            int
	Limit           int
	MinAttempts     *int
	MaxAttempts     *int
	MinCompletionMs *int64
	MaxCompletionMs *int64
}

// LeaderboardEntry is one ranked completed game.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	SessionKey     string    `json:"sessionKey"`
	Attempts       int       `json:"attempts"`
	CompletionTime int64     `json:"completionTime"` // milliseconds
	EndTime        time.Time `json:"endTime"`
	Score          int       `json:"score"`
}

// LeaderboardPage contains one page of the ranking.
type LeaderboardPage struct {
	Entries     []LeaderboardEntry `json:"entries"`
	TotalGames  int                `json:"totalGames"`
	Page        int                `json:"page"`
	PageSize    int                `json:"pageSize"`
	TotalPages  int                `json:"totalPages"`
	HasNext     bool               `json:"hasNext"`
	HasPrevious bool               `json:"hasPrevious"`
}

// ThemeInfo describes one available card theme.
type ThemeInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Categories  []engine.Category `json:"categories"`
}
