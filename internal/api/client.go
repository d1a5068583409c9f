// Package api is the HTTP client for the remote todo collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taskdeck/internal/todo"
)

const (
	contentType = "application/json; charset=utf-8"
	userAgent   = "taskdeck"
)

// ErrRequest is wrapped by every error the client returns.
var ErrRequest = errors.New("todo api request failed")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrRequest }

type Client struct {
	base   *url.URL
	userID int
	http   *http.Client
}

// NewClient returns a client for the collection at baseURL owned by userID.
// A zero timeout leaves the transport default in place.
func NewClient(baseURL string, userID int, timeout time.Duration) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if raw == "" {
		return nil, errors.New("api url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}
	return &Client{
		base:   u,
		userID: userID,
		http:   &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) UserID() int { return c.userID }

func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	q := url.Values{}
	q.Set("userId", strconv.Itoa(c.userID))
	var todos []todo.Todo
	if err := c.do(ctx, http.MethodGet, c.endpoint("todos", q), nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

type createRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

func (c *Client) Create(ctx context.Context, title string) (todo.Todo, error) {
	var created todo.Todo
	body := createRequest{Title: title, Completed: false, UserID: c.userID}
	if err := c.do(ctx, http.MethodPost, c.endpoint("todos", nil), body, &created); err != nil {
		return todo.Todo{}, err
	}
	return created, nil
}

type updateRequest struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (c *Client) Update(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	var updated todo.Todo
	body := updateRequest{Title: t.Title, Completed: t.Completed}
	if err := c.do(ctx, http.MethodPatch, c.endpoint("todos/"+strconv.Itoa(t.ID), nil), body, &updated); err != nil {
		return todo.Todo{}, err
	}
	return updated, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.endpoint("todos/"+strconv.Itoa(id), nil), nil, nil)
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode %s body: %v", ErrRequest, method, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", userAgent)
	if in != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, URL: endpoint, Code: resp.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrRequest, method, endpoint, err)
	}
	return nil
}
