package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/timada-org/taskhub/pkg/todo"
)

const basePath = "/api/todo/v1/items"

// ClientOptions configures the API client. HTTPClient is optional; the
// default has a 30s timeout.
type ClientOptions struct {
	URL        string
	HTTPClient *http.Client
}

// Client talks to the taskhub todo API. It implements every capability in
// pkg/todo, so it can back an Items collection directly.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(options ClientOptions) (*Client, error) {
	if options.URL == "" {
		return nil, fmt.Errorf("client: URL is required")
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL: strings.TrimRight(options.URL, "/"),
		http:    httpClient,
	}, nil
}

func (c *Client) GetItems(ctx context.Context, jwt string, userID int64, cutOff time.Time) (*todo.ToDoResponse, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	query.Set("cutoff", cutOff.Format(time.RFC3339))

	return c.do(ctx, jwt, http.MethodGet, basePath+"?"+query.Encode(), nil)
}

func (c *Client) CompleteItem(ctx context.Context, jwt string, userID, todoID int64, cutOff time.Time) (*todo.ToDoResponse, error) {
	return c.do(ctx, jwt, http.MethodPost, c.itemPath(todoID, "/complete", userID, cutOff), nil)
}

func (c *Client) DeleteItem(ctx context.Context, jwt string, userID, todoID int64, cutOff time.Time) (*todo.ToDoResponse, error) {
	return c.do(ctx, jwt, http.MethodDelete, c.itemPath(todoID, "", userID, cutOff), nil)
}

func (c *Client) CreateItem(ctx context.Context, jwt string, userID int64, item todo.NewTodo, cutOff time.Time) (*todo.ToDoResponse, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	query.Set("cutoff", cutOff.Format(time.RFC3339))

	return c.do(ctx, jwt, http.MethodPost, basePath+"?"+query.Encode(), item)
}

func (c *Client) ReassignItem(ctx context.Context, jwt string, userID, todoID, newUserID int64, cutOff time.Time) (*todo.ToDoResponse, error) {
	body := struct {
		AssignedTo int64 `json:"assigned_to"`
	}{AssignedTo: newUserID}

	return c.do(ctx, jwt, http.MethodPost, c.itemPath(todoID, "/reassign", userID, cutOff), body)
}

func (c *Client) itemPath(todoID int64, suffix string, userID int64, cutOff time.Time) string {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))
	query.Set("cutoff", cutOff.Format(time.RFC3339))

	return fmt.Sprintf("%s/%d%s?%s", basePath, todoID, suffix, query.Encode())
}

func (c *Client) do(ctx context.Context, jwt, method, path string, body any) (*todo.ToDoResponse, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+jwt)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out todo.ToDoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("client: %s %s returned %d", method, path, resp.StatusCode)
		}
		return nil, err
	}

	return &out, nil
}
