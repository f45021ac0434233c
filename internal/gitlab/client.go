// Package gitlab is a minimal client for the GitLab REST API (v4),
// covering the surface the sync engine needs: projects, issues, notes,
// labels, milestones and user lookup. Transient failures are retried with
// exponential backoff.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	apiPrefix = "/api/v4"
	userAgent = "issuebridge-server/1.0"

	defaultRequestTimeout = 15 * time.Second
	defaultMaxTries       = 4
	perPage               = "100"

	// maxResponseSize caps response bodies to guard against a
	// misbehaving server.
	maxResponseSize = 100 * 1024 * 1024
)

// Client talks to a single GitLab instance.
type Client struct {
	baseURL  string
	token    string
	client   *http.Client
	timeout  time.Duration
	maxTries uint
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// WithRequestTimeout bounds each individual API call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxTries sets how often a transient failure is attempted before
// giving up.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// NewClient creates a client for the instance at baseURL, authenticating
// with the given personal access token.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSuffix(baseURL, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid GitLab URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid GitLab URL %q: unsupported scheme", baseURL)
	}

	c := &Client{
		baseURL:  trimmed,
		token:    token,
		client:   &http.Client{},
		timeout:  defaultRequestTimeout,
		maxTries: defaultMaxTries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the instance URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type apiResponse struct {
	body     []byte
	nextPage string
}

// do performs a request with retries. Transient errors (network failures,
// 429, 5xx) are retried with exponential backoff; everything else fails
// immediately. POST requests are never retried: a create that times out
// after the server committed it would be duplicated by a blind replay.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (*apiResponse, error) {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	maxTries := c.maxTries
	if method == http.MethodPost {
		maxTries = 1
	}

	operation := func() (*apiResponse, error) {
		resp, err := c.doOnce(ctx, method, path, query, reqBody)
		if err != nil && !IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return resp, err
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxTries),
	)
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, reqBody []byte) (*apiResponse, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		bodyReader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(respBody) > maxResponseSize {
		return nil, fmt.Errorf("response exceeds maximum allowed size of %d bytes", maxResponseSize)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	return &apiResponse{
		body:     respBody,
		nextPage: resp.Header.Get("X-Next-Page"),
	}, nil
}

// errorMessage extracts the "message" field GitLab puts in error bodies,
// falling back to the truncated raw body.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if len(payload.Message) > 0 {
			return strings.Trim(string(payload.Message), `"`)
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.body, out)
}

func (c *Client) writeJSON(ctx context.Context, method, path string, payload, out any) error {
	resp, err := c.do(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(resp.body, out)
}

// listPaged fetches every page of a collection endpoint, following the
// X-Next-Page header.
func listPaged[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var items []T
	page := "1"
	for {
		q := url.Values{}
		for key, values := range query {
			q[key] = values
		}
		q.Set("page", page)
		q.Set("per_page", perPage)

		resp, err := c.do(ctx, http.MethodGet, path, q, nil)
		if err != nil {
			return nil, err
		}
		var pageItems []T
		if err := json.Unmarshal(resp.body, &pageItems); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		items = append(items, pageItems...)

		if resp.nextPage == "" {
			break
		}
		page = resp.nextPage
	}
	return items, nil
}

func projectPath(project string) string {
	return "/projects/" + url.PathEscape(project)
}

// Project fetches a project by numeric id or full path.
func (c *Client) Project(ctx context.Context, project string) (*Project, error) {
	var p Project
	if err := c.getJSON(ctx, projectPath(project), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListIssues returns the project's issues in all states, most recently
// updated first. A non-zero updatedAfter restricts the listing to issues
// updated at or after that time.
func (c *Client) ListIssues(ctx context.Context, project string, updatedAfter time.Time) ([]*Issue, error) {
	query := url.Values{}
	query.Set("state", "all")
	query.Set("order_by", "updated_at")
	query.Set("sort", "desc")
	if !updatedAfter.IsZero() {
		query.Set("updated_after", updatedAfter.UTC().Format(time.RFC3339))
	}
	return listPaged[*Issue](ctx, c, projectPath(project)+"/issues", query)
}

// GetIssue fetches a single issue by IID.
func (c *Client) GetIssue(ctx context.Context, project string, iid int64) (*Issue, error) {
	var issue Issue
	if err := c.getJSON(ctx, fmt.Sprintf("%s/issues/%d", projectPath(project), iid), nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, project string, opts CreateIssueOptions) (*Issue, error) {
	var issue Issue
	if err := c.writeJSON(ctx, http.MethodPost, projectPath(project)+"/issues", opts, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue updates an existing issue.
func (c *Client) UpdateIssue(ctx context.Context, project string, iid int64, opts UpdateIssueOptions) (*Issue, error) {
	var issue Issue
	path := fmt.Sprintf("%s/issues/%d", projectPath(project), iid)
	if err := c.writeJSON(ctx, http.MethodPut, path, opts, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// ListNotes returns every note on an issue, oldest first.
func (c *Client) ListNotes(ctx context.Context, project string, iid int64) ([]*Note, error) {
	query := url.Values{}
	query.Set("order_by", "created_at")
	query.Set("sort", "asc")
	path := fmt.Sprintf("%s/issues/%d/notes", projectPath(project), iid)
	return listPaged[*Note](ctx, c, path, query)
}

// CreateNote adds a comment to an issue.
func (c *Client) CreateNote(ctx context.Context, project string, iid int64, body string) (*Note, error) {
	var note Note
	path := fmt.Sprintf("%s/issues/%d/notes", projectPath(project), iid)
	payload := map[string]string{"body": body}
	if err := c.writeJSON(ctx, http.MethodPost, path, payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// ListLabels returns every label defined on the project.
func (c *Client) ListLabels(ctx context.Context, project string) ([]Label, error) {
	return listPaged[Label](ctx, c, projectPath(project)+"/labels", nil)
}

// CreateLabel creates a project label. An empty color falls back to the
// default.
func (c *Client) CreateLabel(ctx context.Context, project, name, color string) (*Label, error) {
	if color == "" {
		color = DefaultLabelColor
	}
	var label Label
	payload := map[string]string{"name": name, "color": color}
	if err := c.writeJSON(ctx, http.MethodPost, projectPath(project)+"/labels", payload, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// ListMilestones returns every milestone defined on the project.
func (c *Client) ListMilestones(ctx context.Context, project string) ([]Milestone, error) {
	return listPaged[Milestone](ctx, c, projectPath(project)+"/milestones", nil)
}

// CreateMilestone creates a project milestone.
func (c *Client) CreateMilestone(ctx context.Context, project string, opts CreateMilestoneOptions) (*Milestone, error) {
	var milestone Milestone
	if err := c.writeJSON(ctx, http.MethodPost, projectPath(project)+"/milestones", opts, &milestone); err != nil {
		return nil, err
	}
	return &milestone, nil
}

// UserByUsername looks up a user by exact username.
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	query := url.Values{}
	query.Set("username", username)
	var users []User
	if err := c.getJSON(ctx, "/users", query, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, &StatusError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("user %q not found", username)}
	}
	return &users[0], nil
}

// CurrentUser returns the user the access token belongs to. Used to
// validate credentials.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
