package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// FakeBackend is an in-process clustering backend. Routes are matched on
// method and path below /clustering/; unknown routes answer 404.
type FakeBackend struct {
	Server *httptest.Server

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []string
}

// NewFakeBackend starts a fake backend. Call Close when done.
func NewFakeBackend() *FakeBackend {
	b := &FakeBackend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	return b
}

// URL returns the base URL to configure the client with
func (b *FakeBackend) URL() string {
	return b.Server.URL
}

// Close shuts the server down
func (b *FakeBackend) Close() {
	b.Server.Close()
}

// Handle registers h for method and path, e.g. ("GET", "results/abc/")
func (b *FakeBackend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[routeKey(method, path)] = h
}

// JSON registers a canned JSON reply
func (b *FakeBackend) JSON(method, path string, status int, body string) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// File registers a binary reply with a Content-Disposition filename
func (b *FakeBackend) File(method, path, contentType, filename string, data []byte) {
	b.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		if filename != "" {
			w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		}
		_, _ = w.Write(data)
	})
}

// Calls returns the "METHOD path" of every request served so far
func (b *FakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.calls))
	copy(out, b.calls)
	return out
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/clustering/")
	key := routeKey(r.Method, path)

	b.mu.Lock()
	b.calls = append(b.calls, key)
	h, ok := b.routes[key]
	b.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "not found"}`))
		return
	}
	h(w, r)
}

func routeKey(method, path string) string {
	return method + " " + path
}
