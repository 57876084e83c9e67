package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type GameState struct {
	Grid      [][]int `json:"grid"`
	Score     int     `json:"score"`
	BestTile  int     `json:"best_tile"`
	GameOver  bool    `json:"game_over"`
	Victory   bool    `json:"victory"`
	Message   string  `json:"message"`
	RulesName string  `json:"rules_name"`
}

type SessionResponse struct {
	ID        string     `json:"id"`
	RulesName string     `json:"rules_name"`
	GameState *GameState `json:"game_state"`
}

type MoveRequest struct {
	Direction string `json:"direction,omitempty"`
	Reset     bool   `json:"reset,omitempty"`
}

type BulkMoveRequest struct {
	Moves []string `json:"moves"`
	Reset bool     `json:"reset,omitempty"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(rulesID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if rulesID != "" {
		reqBody, err = json.Marshal(map[string]string{"rules_id": rulesID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

type MoveResponse struct {
	Success     bool       `json:"success"`
	ScoreGained int        `json:"score_gained"`
	GameState   *GameState `json:"game_state"`
	Message     string     `json:"message"`
}

func (c *Client) Move(direction string) (*GameState, bool, error) {
	body, err := json.Marshal(MoveRequest{Direction: direction})
	if err != nil {
		return nil, false, fmt.Errorf("marshal move: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/move", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, false, fmt.Errorf("execute move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("move failed: %s - %s", resp.Status, string(respBody))
	}

	var moveResp MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&moveResp); err != nil {
		return nil, false, fmt.Errorf("parse move response: %w", err)
	}

	// A blocked move is not an error: nothing slid, no spawn, play on
	return moveResp.GameState, moveResp.Success, nil
}

type BulkMoveResponse struct {
	MovesExecuted int        `json:"moves_executed"`
	GameState     *GameState `json:"game_state"`
	StoppedReason string     `json:"stopped_reason"`
}

func (c *Client) BulkMove(moves []string) (*GameState, int, error) {
	body, err := json.Marshal(BulkMoveRequest{Moves: moves})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal bulk move: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/bulk-move", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, 0, fmt.Errorf("execute bulk move: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, 0, fmt.Errorf("bulk move failed: %s - %s", resp.Status, string(respBody))
	}

	var bulkResp BulkMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return nil, 0, fmt.Errorf("parse bulk move response: %w", err)
	}

	return bulkResp.GameState, bulkResp.MovesExecuted, nil
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

func (c *Client) Reset() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	rulesID := flag.String("rules", "", "Rules ID for new sessions (classic, mini, marathon)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxMoves := flag.Int("max-moves", 5000, "Maximum moves per attempt")
	maxAttempts := flag.Int("max-attempts", 50, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		// Resume existing session
		client.sessionID = savedSessionID
		log.Printf("🔄 Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("⚠️  Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		} else {
			log.Printf("Session resumed - Board: %dx%d, Score: %d, Best tile: %d",
				len(state.Grid[0]), len(state.Grid), state.Score, state.BestTile)
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*rulesID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("✨ Session created: %s (%s)", client.sessionID, state.RulesName)
		log.Printf("Board: %dx%d, %d start tiles",
			len(state.Grid[0]), len(state.Grid), countTiles(state.Grid))

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	strategy := NewCornerStrategy()

	bestScore := 0
	bestTile := 0

	// Keep trying until victory or max attempts
	attemptNum := 0
	for attemptNum < *maxAttempts {
		attemptNum++

		// Reset the game for this attempt
		state, err = client.Reset()
		if err != nil {
			log.Printf("Failed to reset: %v", err)
			break
		}
		strategy.Reset()

		log.Printf("\n=== 🎮 Attempt %d/%d ===", attemptNum, *maxAttempts)

		moveCount := 0
		for !state.Victory && !state.GameOver && moveCount < *maxMoves {
			if *verbose && moveCount%100 == 0 {
				log.Printf("Move %d: score=%d best=%d empty=%d",
					moveCount, state.Score, state.BestTile, countEmpty(state.Grid))
			}

			direction := strategy.NextMove(state)
			if direction == "" {
				log.Printf("⚠️  No valid moves available")
				break
			}

			newState, moved, err := client.Move(direction)
			if err != nil {
				log.Printf("Move failed: %v", err)
				break
			}
			state = newState
			moveCount++

			if !moved {
				strategy.NoteBlocked(direction)
			}

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: Moves=%d, Score=%d, Best tile=%d",
			attemptNum, moveCount, state.Score, state.BestTile)

		if state.Score > bestScore {
			bestScore = state.Score
		}
		if state.BestTile > bestTile {
			bestTile = state.BestTile
		}

		if state.Victory {
			log.Printf("\n🎉 VICTORY! Built the win tile in attempt %d with %d moves (score %d)!",
				attemptNum, moveCount, state.Score)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	// Failed to win after all attempts
	log.Printf("\n❌ Failed to win after %d attempts (best score %d, best tile %d)",
		attemptNum, bestScore, bestTile)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}

func countTiles(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

func countEmpty(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}
