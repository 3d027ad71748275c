package fixtures

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is a request received by the Backend.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Body          string
	Authorization string
}

// Backend is a fake backend API, it records every request it receives.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	routes   map[string]http.HandlerFunc
}

// NewBackend starts a Backend, it is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{routes: map[string]http.HandlerFunc{}}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))

	t.Cleanup(b.Close)

	return b
}

// Handle routes requests matching method and path to h.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.routes[method+" "+path] = h
}

// JSON responds to requests matching method and path with status and body encoded as JSON.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	})
}

// Requests returns the requests received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]Request(nil), b.requests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Body:          string(body),
		Authorization: r.Header.Get("Authorization"),
	})
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	h(w, r)
}
