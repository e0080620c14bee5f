// Package client is a typed HTTP client for the chat REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/conversation"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/app/sessions"
	"github.com/pagukapadiya/chatgpt-clone-fullstack/internal/domain"
)

const DefaultBaseURL = "http://localhost:5000"

// APIError is a non-2xx response. 400 and 404 unwrap to the matching domain sentinel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return domain.ErrInvalidInput
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrInternal
	}
}

type Client struct {
	baseURL string
	prefix  string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAPIPrefix overrides the "/api" route prefix.
func WithAPIPrefix(prefix string) Option {
	return func(c *Client) { c.prefix = "/" + strings.Trim(prefix, "/") }
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/api",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	Pagination *Pagination     `json:"pagination"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// SessionPage is one page of ListSessions.
type SessionPage struct {
	Sessions   []domain.SessionSummary
	Pagination Pagination
}

func (c *Client) StartChat(ctx context.Context) (conversation.StartChatResult, error) {
	var out conversation.StartChatResult
	_, err := c.do(ctx, http.MethodPost, "/chat/start", nil, &out)
	return out, err
}

func (c *Client) SendMessage(ctx context.Context, id domain.SessionID, question string) (domain.Message, error) {
	var out domain.Message
	body := map[string]string{"question": question}
	_, err := c.do(ctx, http.MethodPost, "/chat/"+url.PathEscape(string(id))+"/message", body, &out)
	return out, err
}

func (c *Client) UpdateFeedback(
	ctx context.Context,
	id domain.SessionID,
	messageID domain.MessageID,
	feedback domain.Feedback,
) (domain.Message, error) {
	var out domain.Message
	path := fmt.Sprintf("/chat/%s/message/%d/feedback", url.PathEscape(string(id)), int(messageID))
	_, err := c.do(ctx, http.MethodPut, path, map[string]string{"feedback": string(feedback)}, &out)
	return out, err
}

func (c *Client) ListSessions(ctx context.Context, params sessions.ListParams) (SessionPage, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit != 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.SortBy != "" {
		q.Set("sortBy", string(params.SortBy))
	}
	if params.SortOrder != "" {
		q.Set("sortOrder", string(params.SortOrder))
	}
	path := "/sessions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page SessionPage
	env, err := c.do(ctx, http.MethodGet, path, nil, &page.Sessions)
	if err != nil {
		return SessionPage{}, err
	}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// AllSessions walks every page of ListSessions.
func (c *Client) AllSessions(ctx context.Context) ([]domain.SessionSummary, error) {
	var out []domain.SessionSummary
	params := sessions.DefaultListParams().WithLimit(sessions.MaxLimit)
	for {
		page, err := c.ListSessions(ctx, params)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Sessions...)
		if !page.Pagination.HasNext {
			return out, nil
		}
		params = params.WithPage(page.Pagination.Page + 1)
	}
}

func (c *Client) GetSession(ctx context.Context, id domain.SessionID) (domain.SessionDetail, error) {
	var out domain.SessionDetail
	_, err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(string(id)), nil, &out)
	return out, err
}

func (c *Client) DeleteSession(ctx context.Context, id domain.SessionID) error {
	_, err := c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(string(id)), nil, nil)
	return err
}

func (c *Client) RenameSession(ctx context.Context, id domain.SessionID, title string) (domain.SessionSummary, error) {
	var out domain.SessionSummary
	_, err := c.do(ctx, http.MethodPut, "/sessions/"+url.PathEscape(string(id))+"/title", map[string]string{"title": title}, &out)
	return out, err
}

func (c *Client) Statistics(ctx context.Context) (domain.Statistics, error) {
	var out domain.Statistics
	_, err := c.do(ctx, http.MethodGet, "/sessions/statistics", nil, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) (sessions.Health, error) {
	var out sessions.Health
	_, err := c.do(ctx, http.MethodGet, "/chat/health", nil, &out)
	return out, err
}

// do sends one request under the API prefix and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.prefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode data: %w", err)
		}
	}
	return &env, nil
}
