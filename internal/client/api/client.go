package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/ludonova/internal/client/session"
	"github.com/iudanet/ludonova/pkg/api"
)

const (
	// HeaderRequestID carries the per-request correlation id
	HeaderRequestID = "X-Request-ID"

	// maxRetries bounds how many times one request is replayed after a refresh
	maxRetries = 1
)

// DefaultUnauthenticatedPaths are the auth handshake endpoints. They never get
// a bearer token and a 401 from them never triggers a refresh.
var DefaultUnauthenticatedPaths = []string{
	"/auth/login",
	"/auth/register",
	"/auth/refresh",
	"/auth/steam",
}

// TokenStore is the part of session.Store the client depends on
type TokenStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Rotate(ctx context.Context, usedRefreshToken string, tokens api.AuthTokens) error
	Clear(ctx context.Context) error
	BeginRefresh()
	Expire()
}

// LoginRedirector is told to send the user to the login entry point after the
// session could not be refreshed.
type LoginRedirector interface {
	RedirectToLogin(route string)
}

// RedirectFunc adapts a function to LoginRedirector
type RedirectFunc func(route string)

// RedirectToLogin calls f(route)
func (f RedirectFunc) RedirectToLogin(route string) { f(route) }

// Config contains client parameters
type Config struct {
	BaseURL              string
	LoginRoute           string
	UnauthenticatedPaths []string
	Timeout              time.Duration
	RefreshTimeout       time.Duration
	InsecureSkipVerify   bool
}

// Client представляет HTTP клиент для взаимодействия с LudoNova API.
// Он подставляет bearer токен из TokenStore и прозрачно обновляет сессию при 401.
type Client struct {
	httpClient *http.Client
	store      TokenStore
	redirector LoginRedirector
	logger     *slog.Logger
	refreshes  singleflight.Group
	cfg        Config
	// failedErr is the outcome of the last failed refresh of failedToken
	failedErr   error
	failedToken string
	// refreshMu serializes refresh exchanges with the auth API
	// and guards failedToken and failedErr
	refreshMu sync.Mutex
}

// NewClient создает новый API клиент
func NewClient(cfg Config, store TokenStore, redirector LoginRedirector, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = cfg.Timeout
	}
	if cfg.LoginRoute == "" {
		cfg.LoginRoute = "/login"
	}
	if cfg.UnauthenticatedPaths == nil {
		cfg.UnauthenticatedPaths = DefaultUnauthenticatedPaths
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if redirector == nil {
		redirector = RedirectFunc(func(string) {})
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureSkipVerify {
		// только для локальной разработки с самоподписанным сертификатом
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	return &Client{
		cfg:        cfg,
		store:      store,
		redirector: redirector,
		logger:     logger,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			// Authorization переносится net/http только на тот же хост,
			// поэтому токен не уходит на сторонний адрес при редиректе
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Request describes one API call. Path is relative to the base URL.
type Request struct {
	Header http.Header
	Query  url.Values
	Body   any
	Method string
	Path   string
}

// pendingRequest is the immutable descriptor of an outgoing request. It is
// built once and replayed as is, only the bearer token differs between attempts.
type pendingRequest struct {
	header    http.Header
	method    string
	path      string
	url       string
	requestID string
	body      []byte
	public    bool
}

type response struct {
	header     http.Header
	body       []byte
	statusCode int
}

// Do sends req and decodes a successful JSON response into out (if not nil).
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	p, err := c.prepare(req)
	if err != nil {
		return err
	}

	token := ""
	if !p.public {
		token = c.accessToken(ctx)
	}

	return c.send(ctx, p, 0, token, out)
}

// send performs attempt number attempt (0 = original, 1 = replay after refresh)
func (c *Client) send(ctx context.Context, p *pendingRequest, attempt int, token string, out any) error {
	resp, err := c.roundTrip(ctx, p, attempt, token)
	if err != nil {
		return err
	}

	if resp.statusCode != http.StatusUnauthorized {
		return c.decode(p, resp, out)
	}

	httpErr := newHTTPError(p, resp)
	if p.public {
		return &UnauthenticatedEndpointError{HTTPError: httpErr}
	}
	if attempt >= maxRetries {
		c.logger.Warn("request rejected after token refresh", "path", p.path, "request_id", p.requestID)
		return httpErr
	}

	fresh, err := c.refresh(ctx, token)
	if err != nil {
		return err
	}

	return c.send(ctx, p, attempt+1, fresh, out)
}

// IsUnauthenticatedPath reports whether path is on the allow-list
func (c *Client) IsUnauthenticatedPath(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, prefix := range c.cfg.UnauthenticatedPaths {
		if path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}
	return false
}

// LoginRoute returns the configured login entry point
func (c *Client) LoginRoute() string {
	return c.cfg.LoginRoute
}

func (c *Client) prepare(req *Request) (*pendingRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if !strings.HasPrefix(req.Path, "/") {
		return nil, fmt.Errorf("request path must start with '/': %q", req.Path)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	u := c.cfg.BaseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	header := http.Header{}
	for k, v := range req.Header {
		header[k] = append([]string(nil), v...)
	}
	header.Set("Accept", "application/json")

	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		header.Set("Content-Type", "application/json")
	}

	return &pendingRequest{
		method:    method,
		path:      req.Path,
		url:       u,
		header:    header,
		body:      body,
		requestID: uuid.NewString(),
		public:    c.IsUnauthenticatedPath(req.Path),
	}, nil
}

// accessToken returns the stored access token or "" when there is no session
func (c *Client) accessToken(ctx context.Context) string {
	if c.store == nil {
		return ""
	}
	sess, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Debug("no auth token attached", "error", err)
		return ""
	}
	return sess.Tokens.AccessToken
}

func (c *Client) roundTrip(ctx context.Context, p *pendingRequest, attempt int, token string) (*response, error) {
	var bodyReader io.Reader
	if p.body != nil {
		bodyReader = bytes.NewReader(p.body)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, p.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Копия заголовков, чтобы повтор не видел изменений предыдущей попытки
	req.Header = p.header.Clone()
	req.Header.Set(HeaderRequestID, p.requestID)
	if !p.public && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("HTTP request failed",
			"method", p.method,
			"path", p.path,
			"attempt", attempt,
			"request_id", p.requestID,
			"error", err,
		)
		return nil, &TransportError{Method: p.method, Path: p.path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: p.method, Path: p.path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	logLevel := slog.LevelDebug
	if resp.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if resp.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	c.logger.Log(ctx, logLevel, "HTTP request",
		"method", p.method,
		"path", p.path,
		"status", resp.StatusCode,
		"attempt", attempt,
		"authenticated", !p.public && token != "",
		"request_id", p.requestID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &response{statusCode: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

func (c *Client) decode(p *pendingRequest, resp *response, out any) error {
	// Проверяем статус код
	if resp.statusCode < 200 || resp.statusCode >= 300 {
		return newHTTPError(p, resp)
	}

	// Декодируем успешный ответ
	if out != nil && len(bytes.TrimSpace(resp.body)) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
