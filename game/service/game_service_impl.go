package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WyzeTalkAssignment/memory-game-dev/game/config"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/engine"
	"github.com/WyzeTalkAssignment/memory-game-dev/game/session"
)

const (
	defaultHistoryLimit     = 20
	defaultLeaderboardLimit = 10
	maxPageLimit            = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	themes   ThemeCatalog
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, themes ThemeCatalog) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		themes:   themes,
	}
}

// StartGame deals a fresh board from the requested theme and registers the
// session. An empty theme uses the default; an empty key gets a generated one.
func (s *gameServiceImpl) StartGame(ctx context.Context, req StartGameRequest) (*GameStatus, error) {
	theme, err := s.themes.LoadTheme(req.Theme)
	if err != nil {
		return nil, mapThemeError(req.Theme, err)
	}

	sess, err := s.sessions.Create(ctx, req.SessionKey, theme.Name, theme.Categories)
	if err != nil {
		return nil, mapSessionError(err)
	}

	sess.Lock()
	doc := sess.Snapshot()
	sess.Unlock()

	return statusFromDocument(doc), nil
}

// GetStatus returns the player-facing view of one session.
func (s *gameServiceImpl) GetStatus(ctx context.Context, sessionKey string) (*GameStatus, error) {
	sess, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		return nil, mapSessionError(err)
	}

	sess.Lock()
	doc := sess.Snapshot()
	sess.Unlock()

	return statusFromDocument(doc), nil
}

// ListGames returns compact summaries of every stored session.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameSummary, error) {
	docs, err := s.sessions.List(ctx)
	if err != nil {
		return nil, WrapError(CodeInternal, "failed to list games", err)
	}

	summaries := make([]*GameSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, &GameSummary{
			SessionKey:   doc.SessionKey,
			Theme:        doc.Theme,
			Attempts:     doc.Attempts,
			MatchedCount: len(doc.MatchedPairs),
			IsCompleted:  doc.IsCompleted,
			StartTime:    doc.StartTime,
			EndTime:      doc.EndTime,
		})
	}

	return summaries, nil
}

// DeleteGame removes a session.
func (s *gameServiceImpl) DeleteGame(ctx context.Context, sessionKey string) error {
	if err := s.sessions.Delete(ctx, sessionKey); err != nil {
		return mapSessionError(err)
	}
	return nil
}

// SubmitMove reveals two cards for a session. The whole read-resolve-save
// cycle runs under the session lock, so concurrent submits to one session
// serialize while other sessions stay unaffected. A failed store write rolls
// the in-memory state back, so no partially-applied move survives anywhere.
func (s *gameServiceImpl) SubmitMove(ctx context.Context, sessionKey string, positions []string) (*MoveResult, error) {
	sess, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		return nil, mapSessionError(err)
	}

	sess.Lock()

	backup := sess.Snapshot()
	move, err := sess.ResolveMove(positions)
	if err != nil {
		sess.Unlock()
		return nil, mapMoveError(err)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		sess.Document = *backup
		sess.Unlock()
		return nil, WrapError(CodeInternal, "failed to persist move", err)
	}

	doc := sess.Snapshot()
	sess.Unlock()

	result := &MoveResult{
		SessionKey:   doc.SessionKey,
		Cards:        move.Cards,
		Categories:   move.Categories,
		IsMatch:      move.IsMatch,
		Attempts:     doc.Attempts,
		MatchedCount: len(doc.MatchedPairs),
		Remaining:    doc.Remaining(),
		IsCompleted:  doc.IsCompleted,
		Message:      moveMessage(move, doc),
	}
	result.CompletionTime, result.Score = completionFields(doc)

	return result, nil
}

// GetMoveHistory returns one page of a session's move log.
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionKey string, opts HistoryOptions) (*HistoryPage, error) {
	if opts.Page < 0 || opts.Limit < 0 {
		return nil, NewError(CodeInvalidInput, "page and limit must be positive")
	}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}
	order := strings.ToLower(opts.Order)
	if order == "" {
		order = "asc"
	}
	if order != "asc" && order != "desc" {
		return nil, NewError(CodeInvalidInput, fmt.Sprintf("order must be 'asc' or 'desc', got %q", opts.Order))
	}

	sess, err := s.sessions.Get(ctx, sessionKey)
	if err != nil {
		return nil, mapSessionError(err)
	}

	sess.Lock()
	doc := sess.Snapshot()
	sess.Unlock()

	moves := doc.Moves
	if order == "desc" {
		reversed := make([]engine.Move, len(moves))
		for i, m := range moves {
			reversed[len(moves)-1-i] = m
		}
		moves = reversed
	}

	total := len(moves)
	start, end, totalPages, err := sliceBounds(opts.Page, opts.Limit, total)
	if err != nil {
		return nil, err
	}

	page := moves[start:end]
	if page == nil {
		page = []engine.Move{}
	}

	return &HistoryPage{
		SessionKey:  doc.SessionKey,
		Moves:       page,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// GetLeaderboard ranks completed games by attempts, ties broken by the
// earlier finish.
func (s *gameServiceImpl) GetLeaderboard(ctx context.Context, opts LeaderboardOptions) (*LeaderboardPage, error) {
	if err := validateLeaderboardOptions(&opts); err != nil {
		return nil, err
	}

	docs, err := s.sessions.ListCompleted(ctx, session.Filter{
		MinAttempts:     opts.MinAttempts,
		MaxAttempts:     opts.MaxAttempts,
		MinCompletionMs: opts.MinCompletionMs,
		MaxCompletionMs: opts.MaxCompletionMs,
	})
	if err != nil {
		return nil, WrapError(CodeInternal, "failed to query completed games", err)
	}

	// The file store returns documents unordered; sort here regardless of
	// which store backed the query.
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Attempts != docs[j].Attempts {
			return docs[i].Attempts < docs[j].Attempts
		}
		return endTimeOf(docs[i]).Before(endTimeOf(docs[j]))
	})

	total := len(docs)
	start, end, totalPages, err := sliceBounds(opts.Page, opts.Limit, total)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, end-start)
	for i, doc := range docs[start:end] {
		completion := doc.CompletionTime()
		entries = append(entries, LeaderboardEntry{
			Rank:           start + i + 1,
			SessionKey:     doc.SessionKey,
			Attempts:       doc.Attempts,
			CompletionTime: completion,
			EndTime:        endTimeOf(doc),
			Score:          engine.Score(doc.Attempts, completion),
		})
	}

	return &LeaderboardPage{
		Entries:     entries,
		TotalGames:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListThemes returns the available card themes.
func (s *gameServiceImpl) ListThemes(ctx context.Context) ([]*ThemeInfo, error) {
	themes, err := s.themes.ListThemes()
	if err != nil {
		return nil, WrapError(CodeInternal, "failed to list themes", err)
	}

	infos := make([]*ThemeInfo, 0, len(themes))
	for _, theme := range themes {
		infos = append(infos, &ThemeInfo{
			Name:        theme.Name,
			Description: theme.Description,
			Categories:  theme.Categories,
		})
	}

	return infos, nil
}

func validateLeaderboardOptions(opts *LeaderboardOptions) error {
	if opts.Page < 0 || opts.Limit < 0 {
		return NewError(CodeInvalidInput, "page and limit must be positive")
	}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Limit == 0 {
		opts.Limit = defaultLeaderboardLimit
	}
	if opts.Limit > maxPageLimit {
		opts.Limit = maxPageLimit
	}

	if opts.MinAttempts != nil && *opts.MinAttempts < 0 {
		return NewError(CodeInvalidInput, "minAttempts must not be negative")
	}
	if opts.MaxAttempts != nil && *opts.MaxAttempts < 0 {
		return NewError(CodeInvalidInput, "maxAttempts must not be negative")
	}
	if opts.MinCompletionMs != nil && *opts.MinCompletionMs < 0 {
		return NewError(CodeInvalidInput, "minCompletionTime must not be negative")
	}
	if opts.MaxCompletionMs != nil && *opts.MaxCompletionMs < 0 {
		return NewError(CodeInvalidInput, "maxCompletionTime must not be negative")
	}
	if opts.MinAttempts != nil && opts.MaxAttempts != nil && *opts.MinAttempts > *opts.MaxAttempts {
		return NewError(CodeInvalidInput, "minAttempts must not exceed maxAttempts")
	}
	if opts.MinCompletionMs != nil && opts.MaxCompletionMs != nil && *opts.MinCompletionMs > *opts.MaxCompletionMs {
		return NewError(CodeInvalidInput, "minCompletionTime must not exceed maxCompletionTime")
	}

	return nil
}

// sliceBounds computes the half-open [start, end) window for one page and
// the page count. Requesting a page beyond the last one is a client error,
// not an empty result; an empty collection still has one (empty) page.
func sliceBounds(page, limit, total int) (start, end, totalPages int, err error) {
	totalPages = (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		return 0, 0, 0, NewError(CodeInvalidInput, fmt.Sprintf("page %d is beyond the last page (%d)", page, totalPages))
	}

	start = (page - 1) * limit
	end = start + limit
	if end > total {
		end = total
	}
	if start > total {
		start = total
	}

	return start, end, totalPages, nil
}

func statusFromDocument(doc *session.Document) *GameStatus {
	cards := make([]CardView, 0, len(doc.Cards))
	for _, c := range doc.Cards {
		view := CardView{
			ID:         c.ID,
			Position:   c.Position,
			IsMatched:  c.IsMatched,
			IsRevealed: c.IsRevealed,
		}
		if c.IsMatched || c.IsRevealed {
			view.Category = c.Category
		}
		cards = append(cards, view)
	}

	status := &GameStatus{
		SessionKey:   doc.SessionKey,
		Theme:        doc.Theme,
		Cards:        cards,
		Attempts:     doc.Attempts,
		MatchedPairs: doc.MatchedPairs,
		MatchedCount: len(doc.MatchedPairs),
		Remaining:    doc.Remaining(),
		IsCompleted:  doc.IsCompleted,
		StartTime:    doc.StartTime,
		EndTime:      doc.EndTime,
	}
	status.CompletionTime, status.Score = completionFields(doc)

	return status
}

// completionFields returns the completion time and score pointers, nil while
// the game is still running.
func completionFields(doc *session.Document) (*int64, *int) {
	if !doc.IsCompleted || doc.EndTime == nil {
		return nil, nil
	}
	ms := doc.CompletionTime()
	score := engine.Score(doc.Attempts, ms)
	return &ms, &score
}

func moveMessage(move *engine.Move, doc *session.Document) string {
	if doc.IsCompleted {
		return fmt.Sprintf("All %d pairs found in %d attempts. Well played!", engine.CategoryCount, doc.Attempts)
	}
	if move.IsMatch {
		return fmt.Sprintf("Match! Both cards show %s.", move.Categories[0])
	}
	return fmt.Sprintf("No match: %s and %s. Try again!", move.Categories[0], move.Categories[1])
}

func endTimeOf(doc *session.Document) time.Time {
	if doc.EndTime != nil {
		return *doc.EndTime
	}
	return time.Time{}
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return WrapError(CodeNotFound, "session not found", err)
	case errors.Is(err, session.ErrInvalidSessionKey):
		return WrapError(CodeInvalidInput, err.Error(), err)
	case errors.Is(err, session.ErrSessionAlreadyExists):
		return WrapError(CodeInvalidInput, "session key already in use", err)
	default:
		return WrapError(CodeInternal, "session storage failed", err)
	}
}

func mapThemeError(name string, err error) error {
	switch {
	case errors.Is(err, config.ErrThemeNotFound):
		return WrapError(CodeNotFound, fmt.Sprintf("theme %q not found", name), err)
	default:
		return WrapError(CodeInternal, "failed to load theme", err)
	}
}

func mapMoveError(err error) error {
	switch {
	case errors.Is(err, engine.ErrWrongCardCount),
		errors.Is(err, engine.ErrInvalidPosition),
		errors.Is(err, engine.ErrDuplicatePosition),
		errors.Is(err, engine.ErrCardMatched),
		errors.Is(err, engine.ErrGameCompleted):
		return WrapError(CodeInvalidInput, err.Error(), err)
	default:
		return WrapError(CodeInternal, "move resolution failed", err)
	}
}
