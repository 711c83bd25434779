// Package web serves the search page, its two form events and a JSON API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Belphemur/ShowSearch/internal/client"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/controller"
	"github.com/Belphemur/ShowSearch/internal/session"
)

// Server wires the HTTP routes to the controller and the session store.
type Server struct {
	ctrl       *controller.Controller
	pages      *session.Store
	client     client.Client
	router     *mux.Router
	httpServer *http.Server
}

// NewServer builds the router. Call ListenAndServe to start accepting requests.
func NewServer(cfg *config.Config, ctrl *controller.Controller, pages *session.Store, c client.Client) *Server {
	registerHTTPMetrics()

	s := &Server{
		ctrl:   ctrl,
		pages:  pages,
		client: c,
		router: mux.NewRouter(),
	}

	s.router.Use(logRequests)
	s.router.Handle("/", instrument("page", s.handlePage)).Methods(http.MethodGet)
	s.router.Handle("/search", instrument("search", s.handleSearch)).Methods(http.MethodPost)
	s.router.Handle("/episodes", instrument("episodes", s.handleEpisodes)).Methods(http.MethodPost)
	s.router.Handle("/healthz", instrument("healthz", handleHealth)).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/shows", instrument("api_shows", s.handleAPIShows)).Methods(http.MethodGet)
	api.Handle("/shows/{id:[0-9]+}/episodes", instrument("api_episodes", s.handleAPIEpisodes)).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the address ListenAndServe binds to.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe blocks until the server stops. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) ListenAndServe() error {
	logger := config.GetLogger()
	logger.Info().Str("address", s.httpServer.Addr).Msg("Starting web server")
	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger := config.GetLogger()

		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}
