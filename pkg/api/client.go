package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the aura API. The session credential is an opaque cookie
// held by the jar; it is attached to every request and never inspected.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.SugaredLogger
}

func NewClient(baseURL string, logger *zap.SugaredLogger) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("bad base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

// RequestJSON issues method against path and decodes the response into out
// (which may be nil). The body is always read as text first so that non-JSON
// error bodies from the server do not mask the real failure; a success body
// that fails to parse degrades to an empty payload.
func (c *Client) RequestJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		// a non-JSON error body simply leaves Message empty
		_ = json.Unmarshal(text, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Warnw("api error", "method", method, "path", path, "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(text, out); err != nil {
			// tolerate malformed success bodies, caller keeps zero values
			c.logger.Debugw("non-json success body", "path", path)
		}
	}

	return nil
}

func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.RequestJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.RequestJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Health(ctx context.Context) error {
	return c.GetJSON(ctx, "/api/health", nil)
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.PostJSON(ctx, "/api/login", map[string]string{"username": username, "password": password}, nil)
}

func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.PostJSON(ctx, "/api/signup", map[string]string{"username": username, "password": password}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.PostJSON(ctx, "/api/logout", map[string]string{}, nil)
}

// Me returns the current session's user, or nil when the server reports no
// active session. A nil user is not an error.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp meResponse
	if err := c.GetJSON(ctx, "/api/me", &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) CreatePost(ctx context.Context, text string) error {
	return c.PostJSON(ctx, "/api/posts", map[string]string{"text": text}, nil)
}

// Feed fetches at most limit posts in server order, most recent first.
func (c *Client) Feed(ctx context.Context, limit int) ([]*Post, error) {
	var resp feedResponse
	if err := c.GetJSON(ctx, fmt.Sprintf("/api/posts?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

func (c *Client) Vote(ctx context.Context, postID string, value int) error {
	return c.PostJSON(ctx, "/api/vote", map[string]interface{}{"post_id": postID, "value": value}, nil)
}
