package api

import (
	"net/http"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/magnification/jobtrack/internal/services"
	"github.com/pkg/errors"
)

func (s *Server) startScrape(w http.ResponseWriter, r *http.Request) {

	cfg, err := s.configs.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load search configuration")
		return
	}

	runID, err := s.workflow.Start(*cfg)
	if err != nil {
		var configurationErr *models.ConfigurationError
		switch {
		case errors.Is(err, services.ErrAlreadyRunning):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &configurationErr):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"run_id":  runID,
		"message": "Scraping started",
	})
}

func (s *Server) scrapeStatus(w http.ResponseWriter, r *http.Request) {

	state, err := s.workflow.Status(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) cancelScrape(w http.ResponseWriter, r *http.Request) {

	if err := s.workflow.Cancel(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
