// Package client is a typed HTTP client for the blogspace API. Credentials
// are passed per call; the client itself holds no session state and is safe
// for concurrent use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/blogspace/internal/models"
)

// Client talks to one API base URL.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL with a 30 second timeout.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Details) > 0 {
		parts := make([]string, 0, len(e.Details))
		for k, v := range e.Details {
			parts = append(parts, k+" "+v)
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("status %d: %s", e.Status, msg)
}

// Session is the register/login response.
type Session struct {
	Message   string              `json:"message"`
	User      models.User         `json:"user"`
	Blog      *models.BlogSummary `json:"blog"`
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// PostList is the GET /api/posts response.
type PostList struct {
	Blog  models.BlogSummary `json:"blog"`
	Posts []models.Post      `json:"posts"`
}

// BlogUpdate holds the fields to change; nil fields are left out.
type BlogUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Subdomain   *string `json:"subdomain,omitempty"`
}

// PostUpdate holds the fields to change; nil fields are left out.
type PostUpdate struct {
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	FeaturedImage *string `json:"featuredImage,omitempty"`
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	body := map[string]string{"currentPassword": current, "newPassword": next}
	return c.do(ctx, http.MethodPut, "/api/auth/password", token, body, nil)
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/account", token, nil, nil)
}

// Activity lists the caller's audit entries, newest first.
func (c *Client) Activity(ctx context.Context, token string, limit, offset int) ([]models.AuditEntry, error) {
	var out []models.AuditEntry
	path := fmt.Sprintf("/api/auth/activity?limit=%d&offset=%d", limit, offset)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyBlog(ctx context.Context, token string) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodGet, "/api/blogs/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BlogBySubdomain(ctx context.Context, subdomain string) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodGet, "/api/blogs/"+subdomain, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBlog(ctx context.Context, token string, id int, in BlogUpdate) (*models.Blog, error) {
	var out models.Blog
	if err := c.do(ctx, http.MethodPut, "/api/blogs/"+strconv.Itoa(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPosts(ctx context.Context, token string) (*PostList, error) {
	var out PostList
	if err := c.do(ctx, http.MethodGet, "/api/posts", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+strconv.Itoa(id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, token, title, content, featuredImage string) (*models.Post, error) {
	var out models.Post
	body := map[string]string{"title": title, "content": content, "featuredImage": featuredImage}
	if err := c.do(ctx, http.MethodPost, "/api/posts", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePost(ctx context.Context, token string, id int, in PostUpdate) (*models.Post, error) {
	var out models.Post
	if err := c.do(ctx, http.MethodPut, "/api/posts/"+strconv.Itoa(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, token string, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+strconv.Itoa(id), token, nil, nil)
}

// do sends one request. token, when non-empty, is sent as a bearer
// credential on this request only.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error   string            `json:"error"`
			Details map[string]string `json:"details"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Details = payload.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
