package shortcut

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the Shortcut REST API endpoint
	DefaultBaseURL = "https://api.app.shortcut.com"

	// DefaultPageSize bounds the story search to a single page
	DefaultPageSize = 50
)

// TokenSource supplies the API token for each request. Implemented by the
// token store so the client never holds a copy of the secret.
type TokenSource interface {
	Token() (string, bool)
}

// Client is a typed Shortcut REST API client
type Client struct {
	baseURL    string
	pageSize   int
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Shortcut API client
func NewClient(baseURL string, pageSize int, tokens TokenSource, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Client{
		baseURL:  baseURL,
		pageSize: pageSize,
		tokens:   tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// get issues one authenticated GET and classifies the outcome into the
// closed error set: ErrNoToken, TransportError, StatusError, DecodeError.
func get[T any](ctx context.Context, c *Client, endpoint string, query url.Values) (T, error) {
	var result T

	token, ok := c.tokens.Token()
	if !ok {
		return result, ErrNoToken
	}

	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return result, &TransportError{Err: err}
	}
	req.Header.Set("Shortcut-Token", token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, &TransportError{Err: err}
	}

	// Timing is logged for observability only
	c.logger.Debug("shortcut API request",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &StatusError{Code: resp.StatusCode}
	}

	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("decode failed", "endpoint", endpoint, "err", err)
		return result, &DecodeError{Err: err}
	}

	return result, nil
}

// CurrentMember returns the authenticated user's profile
func (c *Client) CurrentMember(ctx context.Context) (Member, error) {
	return get[Member](ctx, c, "/api/v3/member", nil)
}

// Workflows returns all workflows in the workspace
func (c *Client) Workflows(ctx context.Context) ([]Workflow, error) {
	return get[[]Workflow](ctx, c, "/api/v3/workflows", nil)
}

// Teams returns all groups in the workspace
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	return get[[]Team](ctx, c, "/api/v3/groups", nil)
}

// Epic returns a single epic by id
func (c *Client) Epic(ctx context.Context, id int) (Epic, error) {
	return get[Epic](ctx, c, fmt.Sprintf("/api/v3/epics/%d", id), nil)
}

// MyStories returns the stories owned by the given mention name that are
// not done, bounded to a single page.
func (c *Client) MyStories(ctx context.Context, mentionName string) ([]Story, error) {
	query := url.Values{}
	query.Set("query", fmt.Sprintf("owner:%s !is:done", mentionName))
	query.Set("page_size", strconv.Itoa(c.pageSize))

	results, err := get[StorySearchResults](ctx, c, "/api/v3/search/stories", query)
	if err != nil {
		return nil, err
	}
	return results.Data, nil
}

// ValidateToken checks whether the stored token is accepted by the API.
// The failure reason is logged at debug level and otherwise discarded.
func (c *Client) ValidateToken(ctx context.Context) bool {
	_, err := c.CurrentMember(ctx)
	if err != nil {
		c.logger.Debug("token validation failed", "err", err)
		return false
	}
	return true
}
