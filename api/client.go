// Package api is the console's client for the central-kitchen REST backend.
//
// Every exported method issues exactly one HTTP request. Nothing is retried,
// cached or deduplicated; callers re-fetch after a mutation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultTimeout     = 10 * time.Second
	DefaultQualityPath = "/api/quality-traces"
)

type Client struct {
	rc          *resty.Client
	baseURL     string
	qualityPath string
	token       string
}

type Option func(*Client)

// WithQualityPath overrides the quality trace collection path.
func WithQualityPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.qualityPath = strings.TrimRight(path, "/")
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL = strings.TrimRight(baseURL, "/")
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	rc.OnAfterResponse(logFailures)

	c := &Client{rc: rc, baseURL: baseURL, qualityPath: DefaultQualityPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// logFailures reports unauthorized and server-side failures. The response
// still reaches the caller unchanged.
func logFailures(_ *resty.Client, resp *resty.Response) error {
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		log.Printf("api: 未授权访问: %s %s", resp.Request.Method, resp.Request.URL)
	case code >= 500:
		log.Printf("api: 服务器错误 %d: %s %s", code, resp.Request.Method, resp.Request.URL)
	}
	return nil
}

// WithToken returns a client that sends token as a bearer credential. The
// underlying transport is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) QualityPath() string { return c.qualityPath }

// HTTPError is a non-2xx response from the backend.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("api %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, body)
}

// Message returns the backend's error message when the body carries one,
// else the status text.
func (e *HTTPError) Message() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal([]byte(e.Body), &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func statusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

// ErrorMessage turns any client error into text for a notice.
func ErrorMessage(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "请求超时"
	}
	return "网络错误，请检查后端服务"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	req := c.rc.R().SetContext(ctx)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	if !resp.IsSuccess() {
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}
	if result == nil || len(resp.Body()) == 0 {
		return nil
	}
	if s, ok := result.(*string); ok && !json.Valid(resp.Body()) {
		*s = string(resp.Body())
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("api %s %s: decode: %w", method, path, err)
	}
	return nil
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var out T
	err := c.do(ctx, method, path, query, body, &out)
	return out, err
}

func idPath(base string, id int64, suffix ...string) string {
	p := fmt.Sprintf("%s/%d", base, id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
