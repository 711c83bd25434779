package web

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/reporting"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	var buf bytes.Buffer
	if err := s.pages.Render(r.Context(), id, &buf); err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Str("session", id).Msg("Failed to render page")
		reporting.Capture(r.Context(), err, map[string]string{"route": "page"})
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// handleSearch is the search-submit event. Failures are already visible on the
// page as a notice, so the browser is always sent back to it.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	query := r.PostFormValue("q")
	if err := s.ctrl.Search(r.Context(), id, query); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("session", id).Str("query", query).Msg("Search event failed")
		reporting.Capture(r.Context(), err, map[string]string{"route": "search"})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEpisodes is the episode-button event. The clicked button submits its
// show id as show_id.
func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	raw := strings.TrimSpace(r.PostFormValue("show_id"))
	showID, err := strconv.Atoi(raw)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Str("session", id).Str("show_id", raw).Msg("Ignoring episode event without a show id")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := s.ctrl.ExpandEpisodes(r.Context(), id, showID); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("session", id).Int("show_id", showID).Msg("Episode event failed")
		reporting.Capture(r.Context(), err, map[string]string{"route": "episodes"})
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
