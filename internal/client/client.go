// Package client talks to a running issueboard API over HTTP
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/thenoetrevino/issueboard/internal/board"
	"github.com/thenoetrevino/issueboard/internal/models"
)

const defaultTimeout = 10 * time.Second

// ErrUnauthorized is returned when the server rejects the token
var ErrUnauthorized = errors.New("unauthorized: log in again or set ISSUEBOARD_TOKEN")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client is a REST client for the issueboard API. It implements board.Source.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ board.Source = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent on every request
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token and keeps it for later requests
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var resp struct {
		User  *models.User `json:"user"`
		Token string       `json:"token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users/login", body, &resp); err != nil {
		return nil, "", err
	}
	c.token = resp.Token
	return resp.User, resp.Token, nil
}

// FetchIssuesForProject returns a project's issues in creation order
func (c *Client) FetchIssuesForProject(ctx context.Context, projectID string) ([]*models.Issue, error) {
	var issues []*models.Issue
	path := "/api/issues?projectId=" + url.QueryEscape(projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &issues); err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	return issues, nil
}

// FetchUsers returns every user
func (c *Client) FetchUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}

// GetProject returns a project with its issues
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	return &p, nil
}

// GetIssue returns an issue with its comments
func (c *Client) GetIssue(ctx context.Context, id string) (*models.Issue, error) {
	var i models.Issue
	if err := c.do(ctx, http.MethodGet, "/api/issues/"+url.PathEscape(id), nil, &i); err != nil {
		return nil, fmt.Errorf("failed to fetch issue: %w", err)
	}
	return &i, nil
}

// Board asks the server to compute the lanes for a project
func (c *Client) Board(ctx context.Context, projectID string, f board.Filter) (board.Lanes, error) {
	q := url.Values{}
	setIf := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIf("search", f.Search)
	setIf("assigneeId", f.AssigneeID)
	setIf("reporterId", f.ReporterID)
	setIf("status", string(f.Status))
	setIf("type", string(f.Type))

	path := "/api/projects/" + url.PathEscape(projectID) + "/board"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var lanes board.Lanes
	if err := c.do(ctx, http.MethodGet, path, nil, &lanes); err != nil {
		return board.Lanes{}, fmt.Errorf("failed to fetch board: %w", err)
	}
	return lanes, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && path != "/api/users/login" {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if sonic.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{StatusCode: status, Message: msg}
}
