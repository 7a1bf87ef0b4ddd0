// Package notion implements workspace.Store against the Notion REST API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"portfolio/internal/workspace"
)

const (
	// DefaultBaseURL is the Notion API root
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the Notion-Version header value the wire types match
	DefaultVersion = "2022-06-28"
	// DefaultTimeout bounds every request
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is Notion's documented average of 3 requests per second
	DefaultRateLimit = 3.0
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	APIKey    string
	BaseURL   string
	Version   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; negative disables limiting
}

// Client talks to the Notion API. It never retries; a rejected call is
// returned to the caller as a *workspace.APIError.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Notion API client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("notion API key cannot be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: cfg.Version,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		logger:  logger,
	}, nil
}

// do sends one request and decodes a 2xx body into dest.
func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("notion request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// decodeAPIError turns an error body into *workspace.APIError, keeping the
// raw body as the message when it is not Notion's error object.
func decodeAPIError(status int, body []byte) error {
	apiErr := &workspace.APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	apiErr.Status = status
	return apiErr
}

type createPageRequest struct {
	Parent     workspace.Parent     `json:"parent"`
	Properties workspace.Properties `json:"properties"`
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props workspace.Properties) (*workspace.Page, error) {
	payload := createPageRequest{
		Parent:     workspace.Parent{Type: "database_id", DatabaseID: databaseID},
		Properties: props,
	}
	var page workspace.Page
	if err := c.do(ctx, http.MethodPost, "/pages", payload, &page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return &page, nil
}

type queryRequest struct {
	Filter      *workspace.Filter `json:"filter,omitempty"`
	StartCursor string            `json:"start_cursor,omitempty"`
	PageSize    int               `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []workspace.Page `json:"results"`
	NextCursor *string          `json:"next_cursor"`
	HasMore    bool             `json:"has_more"`
}

func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q *workspace.Query) ([]workspace.Page, error) {
	payload := queryRequest{PageSize: workspace.DefaultPageSize}
	if q != nil {
		payload.Filter = q.Filter
	}

	pages := []workspace.Page{}
	path := "/databases/" + url.PathEscape(databaseID) + "/query"
	for {
		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, path, payload, &resp); err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}
		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		payload.StartCursor = *resp.NextCursor
	}
}

func (c *Client) RetrievePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	var page workspace.Page
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &page); err != nil {
		return nil, fmt.Errorf("retrieve page: %w", err)
	}
	return &page, nil
}

type updatePageRequest struct {
	Properties workspace.Properties `json:"properties,omitempty"`
	Archived   *bool                `json:"archived,omitempty"`
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, props workspace.Properties) (*workspace.Page, error) {
	var page workspace.Page
	payload := updatePageRequest{Properties: props}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), payload, &page); err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return &page, nil
}

func (c *Client) ArchivePage(ctx context.Context, pageID string) (*workspace.Page, error) {
	archived := true
	var page workspace.Page
	payload := updatePageRequest{Archived: &archived}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), payload, &page); err != nil {
		return nil, fmt.Errorf("archive page: %w", err)
	}
	return &page, nil
}

func (c *Client) ListBlockChildren(ctx context.Context, blockID, cursor string, pageSize int) (*workspace.BlockList, error) {
	if pageSize <= 0 || pageSize > workspace.DefaultPageSize {
		pageSize = workspace.DefaultPageSize
	}
	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	if cursor != "" {
		params.Set("start_cursor", cursor)
	}

	var list workspace.BlockList
	path := "/blocks/" + url.PathEscape(blockID) + "/children?" + params.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, fmt.Errorf("list block children: %w", err)
	}
	return &list, nil
}

type appendRequest struct {
	Children []workspace.BlockInput `json:"children"`
}

func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []workspace.BlockInput) ([]workspace.Block, error) {
	var list workspace.BlockList
	path := "/blocks/" + url.PathEscape(blockID) + "/children"
	if err := c.do(ctx, http.MethodPatch, path, appendRequest{Children: children}, &list); err != nil {
		return nil, fmt.Errorf("append block children: %w", err)
	}
	return list.Results, nil
}

var _ workspace.Store = (*Client)(nil)
