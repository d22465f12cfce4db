package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cogniapply/internal/models"
	"github.com/desertthunder/cogniapply/internal/shared"
	"golang.org/x/time/rate"
)

// SessionSource supplies the credentials attached to authenticated requests.
type SessionSource interface {
	Current() (*models.Session, error)
}

// APIService makes HTTP requests to the automation backend.
//
// Authenticated requests carry HTTP Basic credentials from the current session.
// Non-2xx answers become [shared.ServerError]; network failures become [shared.TransportError].
type APIService struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionSource
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIService creates a new API service instance for the backend at baseURL.
func NewAPIService(baseURL string, client *http.Client, sessions SessionSource) *APIService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		sessions:   sessions,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     log.New(io.Discard),
	}
}

// NewAPIServiceFromConfig creates an API service with the timeout and throttling of cfg.
func NewAPIServiceFromConfig(cfg shared.BackendConfig, sessions SessionSource, logger *log.Logger) *APIService {
	api := NewAPIService(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()}, sessions)
	if cfg.RequestsPerSecond > 0 {
		burst := max(cfg.Burst, 1)
		api.SetLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst))
	}
	if logger != nil {
		api.SetLogger(logger)
	}
	return api
}

// SetLimiter replaces the outbound request limiter.
func (a *APIService) SetLimiter(l *rate.Limiter) { a.limiter = l }

// SetLogger sets the logger used for request tracing.
func (a *APIService) SetLogger(l *log.Logger) { a.logger = l }

// BaseURL returns the backend root without a trailing slash.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Decode unmarshals the response body into v.
func (r *APIResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: malformed response body: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// FilePart is a file sent in a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Get performs an authenticated GET request.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil, "", true)
}

// PostJSON performs a POST request with v encoded as JSON.
//
// When authenticated is false no session is required, as for registration and login.
func (a *APIService) PostJSON(ctx context.Context, path string, v any, authenticated bool) (*APIResponse, error) {
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return a.do(ctx, http.MethodPost, path, body, "application/json", authenticated)
}

// PostMultipart performs an authenticated multipart/form-data POST.
func (a *APIService) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart) (*APIResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}

	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file %s: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Filename, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return a.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), true)
}

func (a *APIService) do(ctx context.Context, method, path string, body io.Reader, contentType string, authenticated bool) (*APIResponse, error) {
	var session *models.Session
	if authenticated {
		s, err := a.sessions.Current()
		if err != nil {
			return nil, err
		}
		if !s.Valid() {
			return nil, &shared.AuthError{Err: shared.ErrNoSession}
		}
		session = s
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if session != nil {
		req.Header.Set("Authorization", BasicAuth(session.Username, session.Password))
	}

	op := method + " " + path
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, &shared.TransportError{Op: op, Err: err}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Debug("request failed", "op", op, "error", err)
		return nil, &shared.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &shared.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	a.logger.Debug("request", "op", op, "status", resp.StatusCode)

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiResp, &shared.ServerError{Status: resp.StatusCode, Message: errorDetail(apiResp)}
	}

	return apiResp, nil
}

// BasicAuth formats the Authorization header value for username and password.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// errorDetail extracts the backend's explanation from an error body.
//
// The detail field is either a message string or a list of validation entries with msg fields.
func errorDetail(resp *APIResponse) string {
	generic := fmt.Sprintf("request failed with status %d", resp.StatusCode)

	obj, ok := resp.JSONData.(map[string]any)
	if !ok {
		return generic
	}

	switch detail := obj["detail"].(type) {
	case string:
		if detail != "" {
			return detail
		}
	case []any:
		for _, entry := range detail {
			if m, ok := entry.(map[string]any); ok {
				if msg, ok := m["msg"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	}
	return generic
}
