package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {

	includeIgnored := r.URL.Query().Get("include_ignored") == "true"

	jobs, err := s.jobs.GetAll(r.Context(), includeIgnored)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "jobs": jobs})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {

	jobID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.jobs.GetByID(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "job": job})
}

func (s *Server) listJobStatuses(w http.ResponseWriter, r *http.Request) {

	jobID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	statuses, err := s.jobs.GetStatuses(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load statuses")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "statuses": statuses})
}

func (s *Server) setJobIgnore(w http.ResponseWriter, r *http.Request) {

	jobID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var body struct {
		Ignore bool `json:"ignore"`
	}
	if err = json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err = s.jobs.SetIgnored(r.Context(), jobID, body.Ignore); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update job")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) updateJobStatus(w http.ResponseWriter, r *http.Request) {

	jobID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	var body struct {
		Status      string  `json:"status"`
		Checked     bool    `json:"checked"`
		DateReached *string `json:"date_reached"`
	}
	if err = json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err = s.jobs.UpdateStatus(r.Context(), jobID, body.Status, body.Checked, body.DateReached); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
