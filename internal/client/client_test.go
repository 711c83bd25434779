package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/testutil"
)

func newTestClient(baseURL string) Client {
	return NewClient(&config.Config{
		DirectoryBaseURL: baseURL,
		ClientTimeout:    "10s",
	})
}

func TestClient_SearchShows(t *testing.T) {
	dir := testutil.NewDirectoryServer().
		WithSearch("Girls", testutil.GirlsSearchJSON("http://static.tvmaze.com/uploads/images/medium_portrait/31/78286.jpg"))
	defer dir.Close()

	shows, err := newTestClient(dir.URL).SearchShows(context.Background(), "Girls")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}

	if len(shows) != 1 {
		t.Fatalf("Expected 1 show, got %d", len(shows))
	}

	got := shows[0]
	if got.ID != 139 || got.Name != "Girls" {
		t.Errorf("Unexpected show: %+v", got)
	}
	if !strings.HasPrefix(got.Summary, "<p>") {
		t.Errorf("Expected summary markup, got %q", got.Summary)
	}
	if got.ImageURL() != "http://static.tvmaze.com/uploads/images/medium_portrait/31/78286.jpg" {
		t.Errorf("Unexpected image URL %q", got.ImageURL())
	}
}

func TestClient_SearchShows_PreservesOrderAndCount(t *testing.T) {
	entries := []testutil.ShowEntryOptions{
		{ShowID: 5, Name: "E"},
		{ShowID: 3, Name: "C"},
		{ShowID: 9, Name: "I"},
		{ShowID: 1, Name: "A"},
	}
	dir := testutil.NewDirectoryServer().WithSearch("letters", testutil.GenerateShowSearchJSON(entries))
	defer dir.Close()

	shows, err := newTestClient(dir.URL).SearchShows(context.Background(), "letters")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}

	if len(shows) != len(entries) {
		t.Fatalf("Expected %d shows, got %d", len(entries), len(shows))
	}
	for i, e := range entries {
		if shows[i].ID != e.ShowID || shows[i].Name != e.Name {
			t.Errorf("Show %d: expected {%d %s}, got {%d %s}", i, e.ShowID, e.Name, shows[i].ID, shows[i].Name)
		}
	}
}

func TestClient_SearchShows_EscapesQuery(t *testing.T) {
	dir := testutil.NewDirectoryServer().
		WithSearch("law & order", testutil.GenerateShowSearchJSON([]testutil.ShowEntryOptions{{ShowID: 7, Name: "Law & Order"}}))
	defer dir.Close()

	shows, err := newTestClient(dir.URL).SearchShows(context.Background(), "  law & order ")
	if err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if len(shows) != 1 || shows[0].ID != 7 {
		t.Fatalf("Expected the escaped query to reach the directory, got %+v", shows)
	}

	reqs := dir.Requests()
	if len(reqs) != 1 || reqs[0] != "/search/shows?q=law+%26+order" {
		t.Errorf("Unexpected request URIs: %v", reqs)
	}
}

func TestClient_SearchShows_EmptyQuery(t *testing.T) {
	dir := testutil.NewDirectoryServer()
	defer dir.Close()

	c := newTestClient(dir.URL)
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.SearchShows(context.Background(), q)
		if !errors.Is(err, apperrors.ErrEmptyQuery) {
			t.Errorf("Query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}

	if n := len(dir.Requests()); n != 0 {
		t.Errorf("Expected no requests for blank queries, got %d", n)
	}
}

func TestClient_GetEpisodes(t *testing.T) {
	dir := testutil.NewDirectoryServer().WithEpisodes("139", testutil.GirlsEpisodesJSON())
	defer dir.Close()

	episodes, err := newTestClient(dir.URL).GetEpisodes(context.Background(), 139)
	if err != nil {
		t.Fatalf("GetEpisodes failed: %v", err)
	}

	want := []models.Episode{
		{ID: 11, Name: "Pilot", Season: 1, Number: 1},
		{ID: 12, Name: "Vagina Panic", Season: 1, Number: 2},
		{ID: 13, Name: "All Adventurous Women Do", Season: 1, Number: 3},
	}
	if len(episodes) != len(want) {
		t.Fatalf("Expected %d episodes, got %d", len(want), len(episodes))
	}
	for i := range want {
		if episodes[i] != want[i] {
			t.Errorf("Episode %d: expected %+v, got %+v", i, want[i], episodes[i])
		}
	}
}

func TestClient_GetEpisodes_InvalidID(t *testing.T) {
	dir := testutil.NewDirectoryServer()
	defer dir.Close()

	_, err := newTestClient(dir.URL).GetEpisodes(context.Background(), 0)
	if !errors.Is(err, apperrors.ErrInvalidShowID) {
		t.Fatalf("Expected ErrInvalidShowID, got %v", err)
	}
	if n := len(dir.Requests()); n != 0 {
		t.Errorf("Expected no requests, got %d", n)
	}
}

func TestClient_GetEpisodes_NotFound(t *testing.T) {
	dir := testutil.NewDirectoryServer()
	defer dir.Close()

	_, err := newTestClient(dir.URL).GetEpisodes(context.Background(), 9999)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "9999") {
		t.Errorf("Expected error to mention the show id, got: %v", err)
	}
}

func TestClient_SearchShows_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchShows(context.Background(), "Girls")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !errors.Is(err, &apperrors.ErrUnexpectedStatus{}) {
		t.Fatalf("Expected ErrUnexpectedStatus, got %v", err)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected error mentioning status 500, got: %v", err)
	}
}

func TestClient_SearchShows_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"object"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchShows(context.Background(), "Girls")
	if !errors.Is(err, &apperrors.ErrMalformedResponse{}) {
		t.Fatalf("Expected ErrMalformedResponse, got %v", err)
	}
}

func TestClient_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchShows(context.Background(), "Girls")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly one request, got %d", calls.Load())
	}
}

func TestClient_RetriesServerErrorsWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.GirlsEpisodesJSON()))
	}))
	defer server.Close()

	c := NewClient(&config.Config{
		DirectoryBaseURL: server.URL,
		ClientTimeout:    "10s",
		ClientRetries:    2,
	})

	episodes, err := c.GetEpisodes(context.Background(), 139)
	if err != nil {
		t.Fatalf("GetEpisodes failed: %v", err)
	}
	if len(episodes) != 3 {
		t.Errorf("Expected 3 episodes, got %d", len(episodes))
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 requests, got %d", calls.Load())
	}
}

func TestClient_DoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(&config.Config{
		DirectoryBaseURL: server.URL,
		ClientTimeout:    "10s",
		ClientRetries:    3,
	})

	_, err := c.GetEpisodes(context.Background(), 1)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected a single request for 404, got %d", calls.Load())
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	dir := testutil.NewDirectoryServer()
	defer dir.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(dir.URL).SearchShows(ctx, "Girls")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestClient_SetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).SearchShows(context.Background(), "x"); err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if gotUA != config.GetUserAgent() {
		t.Errorf("Expected User-Agent %q, got %q", config.GetUserAgent(), gotUA)
	}
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "trims", query: "  girls ", want: "girls"},
		{name: "blank", query: " \t", want: ""},
		// "e" followed by U+0301 COMBINING ACUTE ACCENT composes to U+00E9
		{name: "composes accents", query: "Poke\u0301mon", want: "Pok\u00e9mon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeQuery(tt.query); got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestClient_Close(t *testing.T) {
	dir := testutil.NewDirectoryServer().WithSearch("Girls", testutil.GirlsSearchJSON(""))
	defer dir.Close()

	c := newTestClient(dir.URL)
	if _, err := c.SearchShows(context.Background(), "Girls"); err != nil {
		t.Fatalf("SearchShows failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The client stays usable after idle connections are dropped.
	if _, err := c.SearchShows(context.Background(), "Girls"); err != nil {
		t.Fatalf("SearchShows after Close failed: %v", err)
	}
}

func TestClient_GetEpisodes_UndeclaredCharsetBeyondOneKilobyte(t *testing.T) {
	episodes := make([]testutil.EpisodeOptions, 0, 31)
	for i := 1; i <= 30; i++ {
		episodes = append(episodes, testutil.EpisodeOptions{EpisodeID: i, Name: "Episode name", Season: 1, Number: testutil.IntPtr(i)})
	}
	episodes = append(episodes, testutil.EpisodeOptions{EpisodeID: 31, Name: "Café", Season: 2, Number: testutil.IntPtr(1)})
	payload := testutil.GenerateEpisodesJSON(episodes)
	if len(payload) <= 1024 {
		t.Fatalf("Payload must exceed 1KB, got %d bytes", len(payload))
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).GetEpisodes(context.Background(), 139)
	if err != nil {
		t.Fatalf("GetEpisodes failed: %v", err)
	}
	if len(got) != 31 {
		t.Fatalf("Expected 31 episodes, got %d", len(got))
	}
	if last := got[30].Name; last != "Café" {
		t.Errorf("Expected last name %q, got %q", "Café", last)
	}
}
