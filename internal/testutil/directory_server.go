package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// DirectoryServer is an httptest server that answers like the TVMaze API.
// Responses are keyed by search query and by show id path segment.
type DirectoryServer struct {
	*httptest.Server

	mu       sync.Mutex
	searches map[string]string
	episodes map[string]string
	requests []string
}

// NewDirectoryServer starts a fake directory. Unknown queries answer "[]",
// unknown shows answer 404 like the real service.
func NewDirectoryServer() *DirectoryServer {
	d := &DirectoryServer{
		searches: make(map[string]string),
		episodes: make(map[string]string),
	}
	d.Server = httptest.NewServer(http.HandlerFunc(d.serve))
	return d
}

// WithSearch registers the payload returned for a query.
func (d *DirectoryServer) WithSearch(query, payload string) *DirectoryServer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.searches[query] = payload
	return d
}

// WithEpisodes registers the payload returned for a show id.
func (d *DirectoryServer) WithEpisodes(showID, payload string) *DirectoryServer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.episodes[showID] = payload
	return d
}

// Requests returns the request URIs served so far.
func (d *DirectoryServer) Requests() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.requests...)
}

func (d *DirectoryServer) serve(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	d.requests = append(d.requests, r.URL.RequestURI())
	d.mu.Unlock()

	switch {
	case r.URL.Path == "/search/shows":
		d.mu.Lock()
		payload, ok := d.searches[r.URL.Query().Get("q")]
		d.mu.Unlock()
		if !ok {
			payload = "[]"
		}
		writeJSON(w, payload)
	case strings.HasPrefix(r.URL.Path, "/shows/") && strings.HasSuffix(r.URL.Path, "/episodes"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/shows/"), "/episodes")
		d.mu.Lock()
		payload, ok := d.episodes[id]
		d.mu.Unlock()
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"name":"Not Found","message":"","code":0,"status":404}`))
			return
		}
		writeJSON(w, payload)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, payload string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(payload))
}
