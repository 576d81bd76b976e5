package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tastectl/cli/internal/session"
	"github.com/tastectl/cli/internal/ui"
)

const (
	// DefaultLoadingText is shown when a request asks for a loading
	// indicator without its own text.
	DefaultLoadingText = "Loading..."

	// expiredNotice is the fixed message for the 401 expiry sequence,
	// regardless of what the server said.
	expiredNotice = "Session expired, please log in again"

	defaultTimeout       = 30 * time.Second
	defaultRedirectDelay = 1500 * time.Millisecond
)

// Request describes one outbound call. The zero value of every flag gives
// the default behavior: no loading indicator, error notices on, automatic
// 401 handling on, standard envelope interpretation.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Header http.Header

	// ShowLoading displays a loading indicator for the duration of the
	// call; LoadingText overrides DefaultLoadingText.
	ShowLoading bool
	LoadingText string

	// SuppressErrorNotice disables the user-visible notice on failure.
	SuppressErrorNotice bool

	// NoAutoRedirect makes a 401 reject like any other HTTP error
	// instead of running the session-expiry sequence.
	NoAutoRedirect bool

	// Raw skips envelope interpretation and returns the body verbatim,
	// for the few endpoints that do not follow the envelope convention.
	Raw bool

	// Timeout overrides the client default for this call only.
	Timeout time.Duration
}

// envelope is the uniform response shape of conforming endpoints.
type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// businessSuccess is the single success predicate for envelope codes.
func businessSuccess(code int) bool {
	return code == 0 || code == 200
}

// Hooks are the user-interface side effects the gateway may trigger. Nil
// fields are replaced with no-ops.
type Hooks struct {
	Notifier  ui.Notifier
	Navigator ui.Navigator
	Loader    ui.Loader
}

// Client is the single choke point for outbound API calls. It resolves
// URLs against the base URL, attaches the bearer token from the session
// store, interprets the response envelope, and classifies failures. It
// never retries; retries are the caller's business.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// RedirectDelay is the pause between the expiry notice and the
	// login redirect. Zero means the default.
	RedirectDelay time.Duration

	store     *session.Store
	notifier  ui.Notifier
	navigator ui.Navigator
	loader    ui.Loader
	logger    zerolog.Logger
	latch     redirectLatch

	// expiryDone tracks in-flight redirect timers so Close can wait for
	// them in tests.
	expiryDone sync.WaitGroup
}

// NewClient creates a gateway bound to a base URL and session store.
func NewClient(baseURL string, store *session.Store, hooks Hooks, logger zerolog.Logger) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		store:     store,
		notifier:  hooks.Notifier,
		navigator: hooks.Navigator,
		loader:    hooks.Loader,
		logger:    logger,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.navigator == nil {
		c.navigator = nopNavigator{}
	}
	if c.loader == nil {
		c.loader = nopLoader{}
	}
	return c
}

// Do performs the request and returns the envelope payload bytes, or the
// verbatim body when Raw is set. Every failure is a typed error from this
// package; nothing is swallowed.
func (c *Client) Do(r Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target := resolveURL(c.BaseURL, r.Path)
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		jsonData, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, vs := range r.Header {
		req.Header[http.CanonicalHeaderKey(k)] = vs
	}
	// The caller's explicit Authorization header wins over the session
	// token.
	if req.Header.Get("Authorization") == "" {
		if tok := c.store.Snapshot().Token; tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if r.ShowLoading {
		text := r.LoadingText
		if text == "" {
			text = DefaultLoadingText
		}
		stop := c.loader.Start(text)
		defer stop()
	}

	httpClient := c.HTTPClient
	if r.Timeout > 0 {
		clone := *c.HTTPClient
		clone.Timeout = r.Timeout
		httpClient = &clone
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		nerr := &NetworkError{Err: err}
		c.logger.Debug().Str("method", method).Str("url", target).Err(err).Msg("request failed")
		c.notice(r, "Network error, please check your connection")
		return nil, nerr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		nerr := &NetworkError{Err: err}
		c.notice(r, "Network error, please check your connection")
		return nil, nerr
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode == http.StatusUnauthorized {
		uerr := &UnauthorizedError{}
		if r.NoAutoRedirect {
			c.notice(r, expiredNotice)
			return nil, uerr
		}
		c.handleUnauthorized()
		return nil, uerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{StatusCode: resp.StatusCode}
		c.notice(r, fmt.Sprintf("Request failed (HTTP %d)", resp.StatusCode))
		return nil, herr
	}

	if r.Raw {
		return respBody, nil
	}

	// 204-style responses have no envelope to interpret.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		c.notice(r, "Unexpected response from server")
		return nil, fmt.Errorf("failed to parse response envelope: %w", err)
	}
	if !businessSuccess(env.Code) {
		berr := &BusinessError{Code: env.Code, Message: env.Message}
		c.notice(r, env.Message)
		return nil, berr
	}
	return env.Data, nil
}

// DoJSON performs the request and unmarshals the payload into out. A nil
// out discards the payload.
func (c *Client) DoJSON(r Request, out interface{}) error {
	data, err := c.Do(r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response payload: %w", err)
	}
	return nil
}

// handleUnauthorized runs the session-expiry sequence at most once
// concurrently: clear the session, show the fixed expiry notice, and after
// a short delay (so the notice is seen before the screen changes) redirect
// to login and release the latch. Later 401s while the latch is pending
// are absorbed; their calls still return UnauthorizedError.
func (c *Client) handleUnauthorized() {
	if !c.latch.tryAcquire() {
		return
	}
	if err := c.store.Logout(); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear session after 401")
	}
	c.notifier.Notice(expiredNotice)

	delay := c.RedirectDelay
	if delay <= 0 {
		delay = defaultRedirectDelay
	}
	c.expiryDone.Add(1)
	time.AfterFunc(delay, func() {
		defer c.expiryDone.Done()
		c.navigator.GotoLogin()
		c.latch.release()
	})
}

// WaitForRedirect blocks until any pending expiry redirect has completed.
func (c *Client) WaitForRedirect() {
	c.expiryDone.Wait()
}

// notice posts a failure message unless the request opted out.
func (c *Client) notice(r Request, msg string) {
	if r.SuppressErrorNotice || msg == "" {
		return
	}
	c.notifier.Notice(msg)
}

// resolveURL joins path to base exactly once. Absolute URLs pass through
// verbatim, which makes resolution idempotent.
func resolveURL(base, path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

type nopNotifier struct{}

func (nopNotifier) Notice(string) {}

type nopNavigator struct{}

func (nopNavigator) GotoLogin() {}

type nopLoader struct{}

func (nopLoader) Start(string) func() { return func() {} }
