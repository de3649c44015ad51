// Package findr is a Go client for the procurement dashboard API.
package findr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tonzxz12/Findr-sub000/internal/listing"
	"github.com/tonzxz12/Findr-sub000/internal/models"
)

// Client talks to one API deployment on behalf of one user
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	clientID   string
}

// ClientOption represents a client configuration option
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithToken sets the session token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithClientID selects the tenant sent as X-Client-ID
func WithClientID(clientID string) ClientOption {
	return func(c *Client) {
		c.clientID = clientID
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Error is the body returned by the API for failed requests
type Error struct {
	Message    string `json:"error"`
	StatusCode int    `json:"status"`
	Timestamp  string `json:"timestamp"`
	Details    string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// SetClientID switches the tenant used by subsequent calls
func (c *Client) SetClientID(clientID string) {
	c.clientID = clientID
}

// Registration is the account created by Register
type Registration struct {
	User   *models.User   `json:"user"`
	Client *models.Client `json:"client"`
}

// Register creates a user together with its company
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*Registration, error) {
	var result Registration
	if err := c.makeRequest(ctx, http.MethodPost, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login signs in and keeps the returned token for later calls. When the user
// owns exactly one client it becomes the selected tenant.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var result models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.makeRequest(ctx, http.MethodPost, "/auth/login", body, &result); err != nil {
		return nil, err
	}

	c.token = result.Token
	if c.clientID == "" && len(result.Clients) == 1 {
		c.clientID = result.Clients[0].ID
	}
	return &result, nil
}

// Dashboard retrieves the selected tenant's dashboard
func (c *Client) Dashboard(ctx context.Context) (*models.DashboardPayload, error) {
	var result models.DashboardPayload
	if err := c.makeRequest(ctx, http.MethodGet, "/dashboard", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOptions controls search, sort and paging of list calls
type ListOptions struct {
	Search   string
	Sort     listing.Sort
	Page     int
	PageSize int
}

// SortBy returns options sorted by column, flipping the direction when the
// column is already active.
func (o ListOptions) SortBy(column string) ListOptions {
	o.Sort = listing.Toggle(o.Sort, column)
	o.Page = 1
	return o
}

func (o *ListOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Search != "" {
		params.Set("search", o.Search)
	}
	if o.Sort.Column != "" {
		params.Set("sort", o.Sort.Column)
		params.Set("order", string(o.Sort.Direction))
	}
	if o.Page > 0 {
		params.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(o.PageSize))
	}
	return params
}

// ListProjects retrieves one page of the selected tenant's projects
func (c *Client) ListProjects(ctx context.Context, opts *ListOptions) (*listing.Page[*models.Project], error) {
	var result listing.Page[*models.Project]

	path := "/projects"
	if params := opts.values(); len(params) > 0 {
		path += "?" + params.Encode()
	}

	if err := c.makeRequest(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProject retrieves a project of the selected tenant
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var result models.Project
	if err := c.makeRequest(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProject creates a project for the selected tenant
func (c *Client) CreateProject(ctx context.Context, in *models.ProjectInput) (*models.Project, error) {
	var result models.Project
	if err := c.makeRequest(ctx, http.MethodPost, "/projects", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateProject replaces the writable fields of a project
func (c *Client) UpdateProject(ctx context.Context, id string, in *models.ProjectInput) (*models.Project, error) {
	var result models.Project
	if err := c.makeRequest(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteProject deletes a project and its attachments
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.makeRequest(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) makeRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	endpoint := fmt.Sprintf("%s/api%s", c.baseURL, path)

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
