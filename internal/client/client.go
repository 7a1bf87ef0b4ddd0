// Package client is a Go client for the portfolio API. The credential lives
// in an explicit Session passed to New; the client attaches it to every
// call and clears it when the API rejects it.
package client

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
	"strings"
	"time"

	"portfolio/internal/domain/models"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// ErrSessionExpired matches an *APIError for a missing, invalid or
// expired token. The session has already been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, msg)
}

// Is matches ErrSessionExpired on 401 and 403.
func (e *APIError) Is(target error) bool {
	return target == ErrSessionExpired &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// Client calls the portfolio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	logger     *slog.Logger
}

// New creates a client for baseURL using session for credentials.
func New(baseURL string, session *Session, logger *slog.Logger) *Client {
	if session == nil {
		session = NewSession()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		session:    session,
		logger:     logger,
	}
}

// Session returns the session the client reads and updates.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) do(ctx context.Context, method, path string, payload, dest any) error {
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
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp.StatusCode, respBody)
		if errors.Is(apiErr, ErrSessionExpired) {
			c.session.Clear()
		}
		return apiErr
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var problem struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Message = problem.Message
		apiErr.Detail = problem.Detail
		if apiErr.Detail == "" {
			apiErr.Detail = problem.Error
		}
	}
	return apiErr
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", req)
}

// Login signs in.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", models.LoginRequest{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*models.AuthResult, error) {
	var result models.AuthResult
	if err := c.do(ctx, http.MethodPost, path, payload, &result); err != nil {
		return nil, err
	}
	c.session.Set(result.Token, result.User)
	return &result, nil
}

// Logout tells the API and clears the session even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*models.UserProfile, error) {
	var resp struct {
		User models.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ProfileUpdate lists the profile fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	FullName *string `json:"fullName,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// UpdateProfile changes the given fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.UserProfile, error) {
	var resp struct {
		User models.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/user/update", update, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ListCaseStudies returns the published case studies.
func (c *Client) ListCaseStudies(ctx context.Context) ([]models.CaseStudy, error) {
	var resp struct {
		CaseStudies []models.CaseStudy `json:"caseStudies"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/case-studies", nil, &resp); err != nil {
		return nil, err
	}
	return resp.CaseStudies, nil
}

// GetCaseStudy returns one case study, with its block tree when
// includeContent is set.
func (c *Client) GetCaseStudy(ctx context.Context, id string, includeContent bool) (*models.CaseStudyWithContent, error) {
	path := "/api/case-studies/" + url.PathEscape(id)
	if includeContent {
		path += "?includeContent=true"
	}
	var resp struct {
		CaseStudy models.CaseStudyWithContent `json:"caseStudy"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.CaseStudy, nil
}

// RenderCaseStudy returns the sanitized HTML of a case study's content.
func (c *Client) RenderCaseStudy(ctx context.Context, id string) (string, error) {
	var resp struct {
		HTML string `json:"html"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/case-studies/"+url.PathEscape(id)+"/render", nil, &resp); err != nil {
		return "", err
	}
	return resp.HTML, nil
}

// CreateCaseStudy adds a case study.
func (c *Client) CreateCaseStudy(ctx context.Context, req models.CreateCaseStudyRequest) (*models.CaseStudy, error) {
	var resp struct {
		CaseStudy models.CaseStudy `json:"caseStudy"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/case-studies", req, &resp); err != nil {
		return nil, err
	}
	return &resp.CaseStudy, nil
}

// UpdateCaseStudy sends fields as the partial update body. A key mapped to
// nil clears that field.
func (c *Client) UpdateCaseStudy(ctx context.Context, id string, fields map[string]any) (*models.CaseStudy, error) {
	var resp struct {
		CaseStudy models.CaseStudy `json:"caseStudy"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/case-studies/"+url.PathEscape(id), fields, &resp); err != nil {
		return nil, err
	}
	return &resp.CaseStudy, nil
}

// DeleteCaseStudy archives a case study.
func (c *Client) DeleteCaseStudy(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/case-studies/"+url.PathEscape(id), nil, nil)
}

// Overview returns the admin database summary.
func (c *Client) Overview(ctx context.Context) (*models.DatabaseOverview, error) {
	var resp struct {
		Overview models.DatabaseOverview `json:"overview"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/database/overview", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Overview, nil
}
