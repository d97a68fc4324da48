package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bimmerbailey/clarifier/internal/recommend"
)

// maxBodyBytes caps recommendation request bodies.
const maxBodyBytes = 1 << 20

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status       string `json:"status"`
	Strategy     string `json:"strategy"`
	Provider     string `json:"provider"`
	ConfigSource string `json:"config_source"`
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Strategy:     s.opts.Strategy,
		Provider:     s.opts.ProviderName,
		ConfigSource: s.opts.ConfigSource,
	}, s.logger)
}

func (s *Server) postRecommendation(w http.ResponseWriter, r *http.Request) error {
	if s.opts.ModelID == "" {
		return errModelNotConfigured
	}

	var req recommend.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	resp, err := s.opts.Recommender.Recommend(r.Context(), s.opts.ModelID, req)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, resp, s.logger)
	return nil
}
