// Package catalog proxies the read-only third-party free-to-play games
// API. Responses are relayed verbatim; the upstream is never written to.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrNotFound reports the upstream's "no such game" sentinel.
var ErrNotFound = errors.New("game not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Games returns the raw JSON body of the full game list.
func (c *Client) Games(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/games")
}

// Game returns the raw JSON body for a single game. The upstream answers
// unknown ids with a sentinel body rather than a status code; that maps
// to ErrNotFound.
func (c *Client) Game(ctx context.Context, id string) ([]byte, error) {
	body, err := c.get(ctx, "/game?id="+url.QueryEscape(id))
	if err != nil {
		return nil, err
	}
	if isAbsent(body) {
		return nil, ErrNotFound
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func isAbsent(body []byte) bool {
	t := bytes.TrimSpace(body)
	if len(t) == 0 {
		return true
	}
	switch string(t) {
	case "0", "[]", "null":
		return true
	}
	var sentinel struct {
		Status *int `json:"status"`
	}
	if err := json.Unmarshal(t, &sentinel); err == nil && sentinel.Status != nil && *sentinel.Status == 0 {
		return true
	}
	return false
}
