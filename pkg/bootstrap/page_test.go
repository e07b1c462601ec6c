package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"aura/pkg/api"
	"aura/pkg/dom"

	"go.uber.org/zap"
)

// recordingBackend is a minimal fake API that remembers every request body
// by path.
type recordingBackend struct {
	mu       sync.Mutex
	bodies   map[string][]string
	handlers map[string]http.HandlerFunc
}

func newBackend() *recordingBackend {
	return &recordingBackend{
		bodies:   map[string][]string{},
		handlers: map[string]http.HandlerFunc{},
	}
}

func (b *recordingBackend) handle(path string, h http.HandlerFunc) {
	b.handlers[path] = h
}

func (b *recordingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.bodies[r.URL.Path] = append(b.bodies[r.URL.Path], string(body))
	b.mu.Unlock()

	if h, ok := b.handlers[r.URL.Path]; ok {
		h(w, r)
		return
	}
	w.Write([]byte(`{}`))
}

func (b *recordingBackend) requests(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.bodies[path]...)
}

func newTestPage(t *testing.T, doc *dom.Element, backend *recordingBackend) *Page {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page := &Page{
		Doc:    doc,
		API:    client,
		Logger: zap.NewNop().Sugar(),
	}
	page.Boot(context.Background())

	return page
}

func TestBootEmptyPageOnlyProbesHealth(t *testing.T) {
	backend := newBackend()
	doc := dom.H("body", nil)

	newTestPage(t, doc, backend)

	if got := len(backend.requests("/api/health")); got != 1 {
		t.Fatalf("expected 1 health probe but was %d", got)
	}
	for path := range backend.bodies {
		if path != "/api/health" {
			t.Errorf("unexpected request to %s", path)
		}
	}
}

func loginDoc() *dom.Element {
	return dom.H("body", nil,
		dom.H("form", dom.Attrs{"id": "loginForm"},
			dom.H("input", dom.Attrs{"name": "username", "value": "amy"}),
			dom.H("input", dom.Attrs{"name": "password", "value": ""}),
		),
	)
}

func TestLoginSubmitsEmptyPassword(t *testing.T) {
	backend := newBackend()
	doc := loginDoc()

	newTestPage(t, doc, backend)

	doc.GetElementByID("loginForm").Dispatch("submit")

	reqs := backend.requests("/api/login")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 login request but was %d", len(reqs))
	}

	var body map[string]string
	json.Unmarshal([]byte(reqs[0]), &body)
	if body["username"] != "amy" || body["password"] != "" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestLoginSuccessNavigates(t *testing.T) {
	backend := newBackend()
	doc := loginDoc()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var navigations []string
	page := &Page{
		Doc:      doc,
		API:      client,
		Logger:   zap.NewNop().Sugar(),
		Navigate: func(target string) { navigations = append(navigations, target) },
	}
	page.Boot(context.Background())

	doc.GetElementByID("loginForm").Dispatch("submit")

	if len(navigations) != 1 || navigations[0] != "index.html" {
		t.Fatalf("expected navigation to index.html but was %v", navigations)
	}
}

func TestLoginFailureNotifiesWithoutNavigating(t *testing.T) {
	backend := newBackend()
	backend.handle("/api/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_password"}`))
	})

	doc := loginDoc()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var notified string
	navigated := false
	page := &Page{
		Doc:      doc,
		API:      client,
		Logger:   zap.NewNop().Sugar(),
		Notify:   func(msg string) { notified = msg },
		Navigate: func(string) { navigated = true },
	}
	page.Boot(context.Background())

	doc.GetElementByID("loginForm").Dispatch("submit")

	if notified != "Login failed: invalid_password" {
		t.Errorf("unexpected notification: %q", notified)
	}
	if navigated {
		t.Errorf("navigated despite failure")
	}
}

func TestProfileFilled(t *testing.T) {
	backend := newBackend()
	backend.handle("/api/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{"username":"amy","aura_total":42,"streak":3}}`))
	})

	doc := dom.H("body", nil,
		dom.H("span", dom.Attrs{"id": "profileUsername"}),
		dom.H("span", dom.Attrs{"id": "profileAura"}),
		dom.H("span", dom.Attrs{"id": "profileStreak"}),
	)

	newTestPage(t, doc, backend)

	if got := doc.GetElementByID("profileUsername").TextContent(); got != "@amy" {
		t.Errorf("unexpected username: %q", got)
	}
	if got := doc.GetElementByID("profileAura").TextContent(); got != "42" {
		t.Errorf("unexpected aura: %q", got)
	}
	if got := doc.GetElementByID("profileStreak").TextContent(); got != "3" {
		t.Errorf("unexpected streak: %q", got)
	}
}

func TestProfileAnonymous(t *testing.T) {
	backend := newBackend()
	backend.handle("/api/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":null}`))
	})

	doc := dom.H("body", nil, dom.H("span", dom.Attrs{"id": "profileUsername"}))

	newTestPage(t, doc, backend)

	if got := doc.GetElementByID("profileUsername").TextContent(); got != "Not logged in" {
		t.Errorf("unexpected username: %q", got)
	}
}

func TestFeedBootRendersPosts(t *testing.T) {
	backend := newBackend()
	backend.handle("/api/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts":[
			{"id":"1","author":"amy","text":"hi","created_at":"2026-08-20T10:30:00Z","aura_sum":3,"votes_count":2},
			{"id":"2","author":"bob","text":"yo","created_at":"2026-08-20T09:30:00Z","aura_sum":0,"votes_count":0}
		]}`))
	})

	doc := dom.H("body", nil, dom.H("div", dom.Attrs{"id": "feed"}))

	page := newTestPage(t, doc, backend)

	if page.Feed == nil {
		t.Fatalf("feed renderer not attached")
	}

	if got := len(doc.GetElementByID("feed").FindAll("div", "post")); got != 2 {
		t.Fatalf("expected 2 cards but was %d", got)
	}
}

func TestNewPostRejectsBlankTextLocally(t *testing.T) {
	backend := newBackend()
	doc := dom.H("body", nil,
		dom.H("form", dom.Attrs{"id": "newPostForm"},
			dom.H("textarea", dom.Attrs{"name": "text", "value": "   "}),
		),
	)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(srv.URL, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var notified string
	page := &Page{
		Doc:    doc,
		API:    client,
		Logger: zap.NewNop().Sugar(),
		Notify: func(msg string) { notified = msg },
	}
	page.Boot(context.Background())

	doc.GetElementByID("newPostForm").Dispatch("submit")

	if notified != "Write something first." {
		t.Errorf("unexpected notification: %q", notified)
	}
	if got := len(backend.requests("/api/posts")); got != 0 {
		t.Errorf("expected no post request but was %d", got)
	}
}
