package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Belphemur/ShowSearch/internal/apperrors"
	"github.com/Belphemur/ShowSearch/internal/config"
	"github.com/Belphemur/ShowSearch/internal/models"
	"github.com/Belphemur/ShowSearch/internal/reporting"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}

// statusFor maps a directory lookup error to the API status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEmptyQuery), errors.Is(err, apperrors.ErrInvalidShowID):
		return http.StatusBadRequest
	case errors.Is(err, &apperrors.ErrNotFound{}):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) respondLookupError(w http.ResponseWriter, r *http.Request, route string, err error) {
	code := statusFor(err)
	if code == http.StatusBadGateway {
		logger := config.GetLogger()
		logger.Error().Err(err).Str("route", route).Msg("Directory lookup failed")
		reporting.Capture(r.Context(), err, map[string]string{"route": route})
		respondError(w, code, "show directory unavailable")
		return
	}
	respondError(w, code, err.Error())
}

func (s *Server) handleAPIShows(w http.ResponseWriter, r *http.Request) {
	shows, err := s.client.SearchShows(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondLookupError(w, r, "api_shows", err)
		return
	}
	if shows == nil {
		shows = []models.Show{}
	}
	respondJSON(w, http.StatusOK, shows)
}

func (s *Server) handleAPIEpisodes(w http.ResponseWriter, r *http.Request) {
	showID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid show id")
		return
	}

	episodes, err := s.client.GetEpisodes(r.Context(), showID)
	if err != nil {
		s.respondLookupError(w, r, "api_episodes", err)
		return
	}
	if episodes == nil {
		episodes = []models.Episode{}
	}
	respondJSON(w, http.StatusOK, episodes)
}
