package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aliskhannn/wordplan/internal/domain/entities"
)

var ErrSyncRejected = errors.New("ranking service rejected sync")

// Client calls a ranking service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL. A zero timeout means no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Sync posts an entry to /sync.
func (c *Client) Sync(ctx context.Context, e entities.LeaderboardEntry) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp SyncResponse
	if err = c.do(req, &resp); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if !resp.Success {
		return ErrSyncRejected
	}
	return nil
}

// Leaderboard fetches the top entries.
func (c *Client) Leaderboard(ctx context.Context) ([]entities.LeaderboardEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/leaderboard", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	var entries []entities.LeaderboardEntry
	if err = c.do(req, &entries); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return entries, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env ErrorEnvelope
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &env) == nil && env.Error.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, env.Error.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
