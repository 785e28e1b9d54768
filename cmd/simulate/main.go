// Command simulate plays memory pairs games against a running server over the
// REST API. It supports three subcommands:
//
//	play   drive a single game to completion with a perfect-memory strategy
//	seed   play several games in a row, useful for populating the leaderboard
//	top    print the current leaderboard
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

// CardView mirrors the API's card payload.
type CardView struct {
	ID         int    `json:"id"`
	Position   string `json:"position"`
	Category   string `json:"category,omitempty"`
	IsMatched  bool   `json:"isMatched"`
	IsRevealed bool   `json:"isRevealed"`
}

// GameStatus mirrors the API's status payload.
type GameStatus struct {
	SessionKey  string     `json:"sessionKey"`
	Theme       string     `json:"theme"`
	Cards       []CardView `json:"cards"`
	Attempts    int        `json:"attempts"`
	Remaining   int        `json:"remaining"`
	IsCompleted bool       `json:"isCompleted"`
}

// MoveResult mirrors the API's move payload.
type MoveResult struct {
	SessionKey     string    `json:"sessionKey"`
	Cards          [2]string `json:"cards"`
	Categories     [2]string `json:"categories"`
	IsMatch        bool      `json:"isMatch"`
	Attempts       int       `json:"attempts"`
	MatchedCount   int       `json:"matchedCount"`
	Remaining      int       `json:"remaining"`
	IsCompleted    bool      `json:"isCompleted"`
	Message        string    `json:"message"`
	CompletionTime *int64    `json:"completionTime,omitempty"`
	Score          *int      `json:"score,omitempty"`
}

// LeaderboardEntry mirrors one ranked game in the API's leaderboard payload.
type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	SessionKey     string `json:"sessionKey"`
	Attempts       int    `json:"attempts"`
	CompletionTime int64  `json:"completionTime"`
	Score          int    `json:"score"`
}

// LeaderboardPage mirrors the API's leaderboard payload.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalGames int                `json:"totalGames"`
}

// Client is a thin REST client for the game server.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) StartGame(theme, sessionKey string) (*GameStatus, error) {
	reqBody, err := json.Marshal(map[string]string{"theme": theme, "sessionKey": sessionKey})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/games/start", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("start game failed: %s - %s", resp.Status, string(body))
	}

	var status GameStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parse status: %w", err)
	}
	return &status, nil
}

func (c *Client) SubmitMove(sessionKey string, first, second string) (*MoveResult, error) {
	reqBody, err := json.Marshal(map[string][]string{"cards": {first, second}})
	if err != nil {
		return nil, fmt.Errorf("marshal move: %w", err)
	}

	endpoint := fmt.Sprintf("%s/games/%s/submit", c.baseURL, url.PathEscape(sessionKey))
	resp, err := c.client.Post(endpoint, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("submit move: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("move rejected: %s - %s", resp.Status, string(body))
	}

	var result MoveResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse move result: %w", err)
	}
	return &result, nil
}

func (c *Client) GetLeaderboard(limit int) (*LeaderboardPage, error) {
	endpoint := fmt.Sprintf("%s/leaderboard?limit=%d", c.baseURL, limit)
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard failed: %s - %s", resp.Status, string(body))
	}

	var page LeaderboardPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("parse leaderboard: %w", err)
	}
	return &page, nil
}

// player is a perfect-memory strategy: it remembers every category it has
// seen and plays a pair the moment two known face-down cards match. Otherwise
// it probes two unseen positions to learn more of the board.
type player struct {
	positions []string
	known     map[string]string // position -> category
	matched   map[string]bool
}

func newPlayer(positions []string) *player {
	return &player{
		positions: positions,
		known:     make(map[string]string),
		matched:   make(map[string]bool),
	}
}

// nextMove picks the next two positions to flip.
func (p *player) nextMove() (string, string) {
	// A known pair wins immediately.
	byCategory := make(map[string][]string)
	for pos, category := range p.known {
		if p.matched[pos] {
			continue
		}
		byCategory[category] = append(byCategory[category], pos)
	}
	for _, positions := range byCategory {
		if len(positions) >= 2 {
			return positions[0], positions[1]
		}
	}

	// Otherwise probe unseen positions.
	var unseen []string
	for _, pos := range p.positions {
		if _, seen := p.known[pos]; !seen && !p.matched[pos] {
			unseen = append(unseen, pos)
		}
	}
	switch {
	case len(unseen) >= 2:
		return unseen[0], unseen[1]
	case len(unseen) == 1:
		// The last unseen card pairs with the one known singleton.
		for _, positions := range byCategory {
			if len(positions) == 1 {
				return unseen[0], positions[0]
			}
		}
	}
	return "", ""
}

// observe records a move result.
func (p *player) observe(result *MoveResult) {
	p.known[result.Cards[0]] = result.Categories[0]
	p.known[result.Cards[1]] = result.Categories[1]
	if result.IsMatch {
		p.matched[result.Cards[0]] = true
		p.matched[result.Cards[1]] = true
	}
}

// playGame starts one session and drives it to completion.
func playGame(client *Client, theme, sessionKey string, delay time.Duration, verbose bool) (*MoveResult, error) {
	status, err := client.StartGame(theme, sessionKey)
	if err != nil {
		return nil, err
	}
	log.Printf("Session %s started (theme %s, %d cards)", status.SessionKey, status.Theme, len(status.Cards))

	positions := make([]string, 0, len(status.Cards))
	for _, card := range status.Cards {
		positions = append(positions, card.Position)
	}
	strategy := newPlayer(positions)

	// A 16-card board needs at most 16 moves with perfect memory; the cap
	// guards against a server that never completes.
	var last *MoveResult
	for move := 0; move < 2*len(positions); move++ {
		first, second := strategy.nextMove()
		if first == "" {
			return nil, fmt.Errorf("strategy ran out of moves after %d attempts", move)
		}

		result, err := client.SubmitMove(status.SessionKey, first, second)
		if err != nil {
			return nil, err
		}
		strategy.observe(result)
		last = result

		if verbose {
			outcome := "miss"
			if result.IsMatch {
				outcome = "match"
			}
			log.Printf("  %s + %s: %s (%d remaining)", first, second, outcome, result.Remaining)
		}
		if result.IsCompleted {
			return result, nil
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}

	return last, fmt.Errorf("game did not complete within the move cap")
}

func reportResult(result *MoveResult) {
	score := 0
	if result.Score != nil {
		score = *result.Score
	}
	var elapsed time.Duration
	if result.CompletionTime != nil {
		elapsed = time.Duration(*result.CompletionTime) * time.Millisecond
	}
	log.Printf("Completed %s: %d attempts, %s, score %d", result.SessionKey, result.Attempts, elapsed, score)
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "play memory pairs games against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Value: "http://localhost:8080",
				Usage: "game server base URL",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every move",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "drive a single game to completion",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "theme",
						Usage: "card theme (server default when empty)",
					},
					&cli.StringFlag{
						Name:  "session",
						Usage: "session key to use (generated when empty)",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "pause between moves",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client := NewClient(cmd.String("url"))
					result, err := playGame(client, cmd.String("theme"), cmd.String("session"), cmd.Duration("delay"), cmd.Bool("verbose"))
					if err != nil {
						return err
					}
					reportResult(result)
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "play several games to populate the leaderboard",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "count",
						Value: 5,
						Usage: "number of games to play",
					},
					&cli.StringFlag{
						Name:  "theme",
						Usage: "card theme (server default when empty)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client := NewClient(cmd.String("url"))
					count := int(cmd.Int("count"))
					for i := 0; i < count; i++ {
						result, err := playGame(client, cmd.String("theme"), "", 0, cmd.Bool("verbose"))
						if err != nil {
							return fmt.Errorf("game %d/%d: %w", i+1, count, err)
						}
						reportResult(result)
					}
					return nil
				},
			},
			{
				Name:  "top",
				Usage: "print the current leaderboard",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 10,
						Usage: "number of entries to show",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client := NewClient(cmd.String("url"))
					page, err := client.GetLeaderboard(int(cmd.Int("limit")))
					if err != nil {
						return err
					}
					if len(page.Entries) == 0 {
						fmt.Println("No completed games yet.")
						return nil
					}
					fmt.Printf("%-5s %-38s %9s %12s %6s\n", "RANK", "SESSION", "ATTEMPTS", "TIME", "SCORE")
					for _, entry := range page.Entries {
						elapsed := time.Duration(entry.CompletionTime) * time.Millisecond
						fmt.Printf("%-5d %-38s %9d %12s %6d\n", entry.Rank, entry.SessionKey, entry.Attempts, elapsed.Round(time.Millisecond), entry.Score)
					}
					fmt.Printf("\n%d completed games total\n", page.TotalGames)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
