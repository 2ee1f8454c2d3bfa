// Package market loads trade-value and projection feeds and matches them to
// the league's player directory.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/omarshaarawi/powerbot/internal/config"
)

// Entry is one player in a market feed. PlayerID is the fantasy platform's
// ID when the feed knows it.
type Entry struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Value        float64 `json:"value"`
	PositionRank int     `json:"position_rank"`
	Age          int     `json:"age"`
	Projection   float64 `json:"ros_projection"`
}

type Feed struct {
	Updated string  `json:"updated"`
	Players []Entry `json:"players"`
}

// Recorder receives one event per upstream call.
type Recorder interface {
	RecordUpstream(source, status string)
}

type Client struct {
	httpClient *http.Client
	source     string
	recorder   Recorder
}

func NewClient(cfg config.Market, recorder Recorder) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		source:     strings.TrimSpace(cfg.Feed),
		recorder:   recorder,
	}
}

// Fetch reads the configured feed. With no feed configured it returns an
// empty feed and no error.
func (c *Client) Fetch(ctx context.Context) (*Feed, error) {
	if c.source == "" {
		return &Feed{}, nil
	}

	var raw []byte
	var err error
	if strings.HasPrefix(c.source, "http://") || strings.HasPrefix(c.source, "https://") {
		raw, err = c.download(ctx)
	} else {
		raw, err = os.ReadFile(c.source)
		if err != nil {
			err = fmt.Errorf("reading market feed: %w", err)
		}
	}
	if err != nil {
		c.record("error")
		return nil, err
	}

	feed, err := Parse(raw)
	if err != nil {
		c.record("error")
		return nil, err
	}
	c.record("ok")
	return feed, nil
}

func (c *Client) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.source, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return body, nil
}

// Parse accepts either a feed object or a bare array of entries.
func Parse(raw []byte) (*Feed, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var entries []Entry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("error decoding market feed: %w", err)
		}
		return &Feed{Players: entries}, nil
	}

	var feed Feed
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, fmt.Errorf("error decoding market feed: %w", err)
	}
	return &feed, nil
}

func (c *Client) record(status string) {
	if c.recorder != nil {
		c.recorder.RecordUpstream("market", status)
	}
}
