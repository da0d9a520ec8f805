package api

import (
	"encoding/json"
	"net/http"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/pkg/errors"
)

func (s *Server) loadConfig(w http.ResponseWriter, r *http.Request) {

	cfg, err := s.configs.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load search configuration")
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) saveConfig(w http.ResponseWriter, r *http.Request) {

	var cfg models.SearchConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "malformed configuration: "+err.Error())
		return
	}

	if err := s.configs.Save(r.Context(), cfg); err != nil {
		var configurationErr *models.ConfigurationError
		if errors.As(err, &configurationErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save search configuration")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Configuration saved successfully"})
}
