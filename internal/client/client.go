// Package client provides a REST client for the chatdeck server. It
// implements store.Gateway, so the stores can run against a remote
// server instead of a local database connection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/chatdeck/chatdeck/internal/db"
	"github.com/chatdeck/chatdeck/internal/models"
)

// Client talks to a chatdeck server's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses the CHATDECK_SERVER_URL env var or defaults to
// localhost:8080. Timeout can be configured via CHATDECK_CLIENT_TIMEOUT.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("CHATDECK_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	timeout := 30 * time.Second
	if t := os.Getenv("CHATDECK_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// do executes one API request. A 404 maps onto db.ErrNotFound so callers
// can treat the remote server and a local db client interchangeably.
func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, db.ErrNotFound)
	case resp.StatusCode >= http.StatusBadRequest:
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error: %s", apiErr.Error)
		}
		return fmt.Errorf("server error: %s", resp.Status)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *Client) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+id, nil, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) CreateChat(ctx context.Context, chat models.Chat) (*models.Chat, error) {
	var saved models.Chat
	if err := c.do(ctx, http.MethodPost, "/api/chats", chat, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) UpdateChat(ctx context.Context, id string, chat models.Chat) (*models.Chat, error) {
	var saved models.Chat
	if err := c.do(ctx, http.MethodPut, "/api/chats/"+id, chat, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/chats/"+id, nil, nil)
}

func (c *Client) ListFolders(ctx context.Context) ([]models.Folder, error) {
	var folders []models.Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (c *Client) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders/"+id, nil, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

func (c *Client) CreateFolder(ctx context.Context, folder models.Folder) (*models.Folder, error) {
	var saved models.Folder
	if err := c.do(ctx, http.MethodPost, "/api/folders", folder, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) UpdateFolder(ctx context.Context, id string, folder models.Folder) (*models.Folder, error) {
	var saved models.Folder
	if err := c.do(ctx, http.MethodPut, "/api/folders/"+id, folder, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/folders/"+id, nil, nil)
}

// Stats fetches the server's runtime statistics.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var snap map[string]any
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}
