package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/omarshaarawi/powerbot/internal/config"
)

const baseURL = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"

// Recorder receives one event per upstream call.
type Recorder interface {
	RecordUpstream(source, status string)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      *gocache.Cache
	ttl        time.Duration
	recorder   Recorder
	Config     config.ESPNAPI
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

func NewClient(cfg config.ESPNAPI, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		ttl:        cfg.CacheTTL,
		Config:     cfg,
	}
	if c.ttl > 0 {
		c.cache = gocache.New(c.ttl, c.ttl*2)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes the JSON response for endpoint into result. Comma separated
// param values are sent as repeated query parameters. Responses are cached by
// URL and filter header for the configured TTL.
func (c *Client) Get(ctx context.Context, endpoint string, params, headers map[string]string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		values := strings.Split(value, ",")
		for _, v := range values {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	c.setCookies(req)

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	key := req.URL.String() + "|" + req.Header.Get("x-fantasy-filter")
	if body, ok := c.cached(key); ok {
		c.record("cached")
		return decode(body, result)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("error")
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record("error")
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record("error")
		return fmt.Errorf("error reading response: %w", err)
	}
	if err := decode(body, result); err != nil {
		c.record("error")
		return err
	}

	c.record("ok")
	if c.cache != nil {
		c.cache.Set(key, body, c.ttl)
	}
	return nil
}

// Flush drops every cached response.
func (c *Client) Flush() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func (c *Client) cached(key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	body, ok := v.([]byte)
	return body, ok
}

func (c *Client) record(status string) {
	if c.recorder != nil {
		c.recorder.RecordUpstream("espn", status)
	}
}

func decode(body []byte, result interface{}) error {
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (c *Client) setCookies(req *http.Request) {
	if c.Config.SWID == "" && c.Config.ESPNS2 == "" {
		return
	}
	cookie := fmt.Sprintf("SWID=%s; espn_s2=%s", c.Config.SWID, c.Config.ESPNS2)
	req.Header.Set("Cookie", cookie)
}
