package gateway

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tastectl/cli/internal/session"
	"github.com/tastectl/cli/internal/storage"
)

type fakeNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (f *fakeNotifier) Notice(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, msg)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notices)
}

func (f *fakeNotifier) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.notices) == 0 {
		return ""
	}
	return f.notices[len(f.notices)-1]
}

type fakeNavigator struct {
	redirects int32
}

func (f *fakeNavigator) GotoLogin() {
	atomic.AddInt32(&f.redirects, 1)
}

type fakeLoader struct {
	starts int32
	stops  int32
}

func (f *fakeLoader) Start(text string) func() {
	atomic.AddInt32(&f.starts, 1)
	return func() {
		atomic.AddInt32(&f.stops, 1)
	}
}

type testEnv struct {
	client    *Client
	store     *session.Store
	notifier  *fakeNotifier
	navigator *fakeNavigator
	loader    *fakeLoader
}

func newTestEnv(baseURL string) *testEnv {
	env := &testEnv{
		store:     session.NewStore(storage.NewMemStore()),
		notifier:  &fakeNotifier{},
		navigator: &fakeNavigator{},
		loader:    &fakeLoader{},
	}
	env.client = NewClient(baseURL, env.store, Hooks{
		Notifier:  env.notifier,
		Navigator: env.navigator,
		Loader:    env.loader,
	}, zerolog.Nop())
	env.client.RedirectDelay = 20 * time.Millisecond
	return env
}

func testProfile() *session.Profile {
	return &session.Profile{ID: 7, DisplayName: "Sam", AvatarURL: "https://cdn.example.com/a.png"}
}

func TestEnvelopeClassification(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantCode    int
		wantMessage string
		wantData    string
	}{
		{name: "code 0 resolves", body: `{"code":0,"data":{"x":1},"message":"ok"}`, wantData: `{"x":1}`},
		{name: "code 200 resolves", body: `{"code":200,"data":{"x":1},"message":"ok"}`, wantData: `{"x":1}`},
		{name: "code 500 rejects", body: `{"code":500,"data":null,"message":"bad input"}`, wantErr: true, wantCode: 500, wantMessage: "bad input"},
		{name: "code 1 rejects", body: `{"code":1,"data":null,"message":"denied"}`, wantErr: true, wantCode: 1, wantMessage: "denied"},
		{name: "negative code rejects", body: `{"code":-1,"data":null,"message":"oops"}`, wantErr: true, wantCode: -1, wantMessage: "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			env := newTestEnv(srv.URL)
			data, err := env.client.Do(Request{Path: "/foo"})

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Do failed: %v", err)
				}
				if string(data) != tt.wantData {
					t.Errorf("data = %s, want %s", data, tt.wantData)
				}
				return
			}

			if err == nil {
				t.Fatal("Do succeeded, want BusinessError")
			}
			berr, ok := err.(*BusinessError)
			if !ok {
				t.Fatalf("error type = %T, want *BusinessError", err)
			}
			if berr.Code != tt.wantCode || berr.Message != tt.wantMessage {
				t.Errorf("BusinessError = {%d %q}, want {%d %q}", berr.Code, berr.Message, tt.wantCode, tt.wantMessage)
			}
			if env.notifier.last() != tt.wantMessage {
				t.Errorf("notice = %q, want %q", env.notifier.last(), tt.wantMessage)
			}
		})
	}
}

func TestResolveURLIdempotent(t *testing.T) {
	const base = "https://api.example.com"

	tests := []struct {
		path string
		want string
	}{
		{"/api/tasks", "https://api.example.com/api/tasks"},
		{"api/tasks", "https://api.example.com/api/tasks"},
		{"https://other.example.com/v1/x", "https://other.example.com/v1/x"},
	}

	for _, tt := range tests {
		got := resolveURL(base, tt.path)
		if got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.path, got, tt.want)
		}
		// Resolving an already-resolved URL must not prefix again.
		if again := resolveURL(base, got); again != got {
			t.Errorf("resolveURL(resolveURL(%q)) = %q, want %q", tt.path, again, got)
		}
	}
}

func TestAuthHeaderInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"code":0,"data":null,"message":"ok"}`)
	}))
	defer srv.Close()

	// No token: no Authorization header.
	env := newTestEnv(srv.URL)
	if _, err := env.client.Do(Request{Path: "/foo"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}

	// Token present: bearer header attached.
	if err := env.store.Login("abc", testProfile()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := env.client.Do(Request{Path: "/foo"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc")
	}

	// Explicit caller header wins over the session token.
	hdr := http.Header{}
	hdr.Set("Authorization", "Basic Zm9v")
	if _, err := env.client.Do(Request{Path: "/foo", Header: hdr}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotAuth != "Basic Zm9v" {
		t.Errorf("Authorization = %q, want caller override %q", gotAuth, "Basic Zm9v")
	}
}

func TestRequestIDHeader(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		fmt.Fprint(w, `{"code":0,"data":null,"message":"ok"}`)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	if _, err := env.client.Do(Request{Path: "/foo"}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestUnauthorizedClearsSessionAndRedirectsOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	if err := env.store.Login("abc", testProfile()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err := env.client.Do(Request{Path: "/foo"})
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want UnauthorizedError", err)
	}

	if env.store.Snapshot().IsLoggedIn() {
		t.Error("session still logged in after 401")
	}
	if env.notifier.count() != 1 {
		t.Errorf("notices = %d, want 1", env.notifier.count())
	}
	if env.notifier.last() != "Session expired, please log in again" {
		t.Errorf("notice = %q, want fixed expiry text", env.notifier.last())
	}

	// Redirect fires only after the display delay.
	if n := atomic.LoadInt32(&env.navigator.redirects); n != 0 {
		t.Errorf("redirects before delay = %d, want 0", n)
	}
	env.client.WaitForRedirect()
	if n := atomic.LoadInt32(&env.navigator.redirects); n != 1 {
		t.Errorf("redirects = %d, want 1", n)
	}
}

func TestConcurrent401sAreSuppressed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	env.client.RedirectDelay = 200 * time.Millisecond
	if err := env.store.Login("abc", testProfile()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.client.Do(Request{Path: "/foo"})
			if !IsUnauthorized(err) {
				t.Errorf("error = %v, want UnauthorizedError", err)
			}
		}()
	}
	wg.Wait()
	env.client.WaitForRedirect()

	if env.notifier.count() != 1 {
		t.Errorf("notices = %d, want exactly 1", env.notifier.count())
	}
	if n := atomic.LoadInt32(&env.navigator.redirects); n != 1 {
		t.Errorf("redirects = %d, want exactly 1", n)
	}
}

func TestUnauthorizedWithNoAutoRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	if err := env.store.Login("abc", testProfile()); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err := env.client.Do(Request{Path: "/foo", NoAutoRedirect: true})
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want UnauthorizedError", err)
	}

	// Session untouched, no redirect scheduled.
	if !env.store.Snapshot().IsLoggedIn() {
		t.Error("session cleared despite NoAutoRedirect")
	}
	env.client.WaitForRedirect()
	if n := atomic.LoadInt32(&env.navigator.redirects); n != 0 {
		t.Errorf("redirects = %d, want 0", n)
	}
}

func TestHTTPErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	_, err := env.client.Do(Request{Path: "/foo"})
	status, ok := HTTPStatus(err)
	if !ok || status != 500 {
		t.Fatalf("error = %v, want HTTPError with status 500", err)
	}
	if env.notifier.count() != 1 {
		t.Errorf("notices = %d, want 1", env.notifier.count())
	}

	// Opting out suppresses the notice but still rejects.
	_, err = env.client.Do(Request{Path: "/foo", SuppressErrorNotice: true})
	if _, ok := HTTPStatus(err); !ok {
		t.Fatalf("error = %v, want HTTPError", err)
	}
	if env.notifier.count() != 1 {
		t.Errorf("notices = %d, want still 1 after opt-out", env.notifier.count())
	}
}

func TestNetworkErrorClassification(t *testing.T) {
	// Reserve a port and close it so the connection is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	env := newTestEnv(srv.URL)
	_, err := env.client.Do(Request{Path: "/foo"})
	if !IsNetworkError(err) {
		t.Fatalf("error = %v, want NetworkError", err)
	}
	if env.notifier.count() != 1 {
		t.Errorf("notices = %d, want 1", env.notifier.count())
	}
}

func TestRawSkipsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"bespoke":true}`)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	data, err := env.client.Do(Request{Path: "/foo", Raw: true})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if string(data) != `{"bespoke":true}` {
		t.Errorf("data = %s, want verbatim body", data)
	}
}

func TestDoJSONUnmarshalsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":{"x":1},"message":"ok"}`)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	var out struct {
		X int `json:"x"`
	}
	if err := env.client.DoJSON(Request{Path: "/foo"}, &out); err != nil {
		t.Fatalf("DoJSON failed: %v", err)
	}
	if out.X != 1 {
		t.Errorf("x = %d, want 1", out.X)
	}
}

func TestLoaderReleasedOnEveryPath(t *testing.T) {
	var status int32 = 200
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(atomic.LoadInt32(&status))
		w.WriteHeader(code)
		if code == http.StatusOK {
			fmt.Fprint(w, `{"code":500,"data":null,"message":"nope"}`)
		}
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)

	// Business failure path.
	env.client.Do(Request{Path: "/foo", ShowLoading: true})
	// HTTP failure path.
	atomic.StoreInt32(&status, 503)
	env.client.Do(Request{Path: "/foo", ShowLoading: true})

	starts := atomic.LoadInt32(&env.loader.starts)
	stops := atomic.LoadInt32(&env.loader.stops)
	if starts != 2 || stops != 2 {
		t.Errorf("loader starts/stops = %d/%d, want 2/2", starts, stops)
	}
}

func TestQueryParamsAppended(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"code":0,"data":null,"message":"ok"}`)
	}))
	defer srv.Close()

	env := newTestEnv(srv.URL)
	req := Request{Path: "/api/tasks"}
	req.Query = map[string][]string{"page": {"2"}, "keyword": {"tea"}}
	if _, err := env.client.Do(req); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if gotQuery != "keyword=tea&page=2" {
		t.Errorf("query = %q, want %q", gotQuery, "keyword=tea&page=2")
	}
}
