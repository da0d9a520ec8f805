package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/magnification/jobtrack/internal/entities"
	"github.com/magnification/jobtrack/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type workflowService interface {
	Start(cfg models.SearchConfig) (string, error)
	Status(runID string) (services.RunState, error)
	Cancel(runID string) error
}

type configStore interface {
	Load(ctx context.Context) (*models.SearchConfig, error)
	Save(ctx context.Context, cfg models.SearchConfig) error
}

type jobStore interface {
	GetAll(ctx context.Context, includeIgnored bool) ([]entities.Job, error)
	GetByID(ctx context.Context, id int) (*entities.Job, error)
	GetStatuses(ctx context.Context, jobID int) ([]entities.ApplicationStatus, error)
	SetIgnored(ctx context.Context, jobID int, ignored bool) error
	UpdateStatus(ctx context.Context, jobID int, statusName string, checked bool, dateReached *string) error
}

// Server exposes the scrape workflow, the persisted search configuration,
// and the job tracking records over HTTP. All logic lives in the services
// and repositories; handlers only shape requests and responses.
type Server struct {
	srv      *http.Server
	workflow workflowService
	configs  configStore
	jobs     jobStore
}

func NewServer(port int, workflow workflowService, configs configStore, jobs jobStore) *Server {

	s := &Server{
		workflow: workflow,
		configs:  configs,
		jobs:     jobs,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/scrape/start", s.startScrape)
	mux.HandleFunc("GET /api/scrape/status/{id}", s.scrapeStatus)
	mux.HandleFunc("POST /api/scrape/cancel/{id}", s.cancelScrape)
	mux.HandleFunc("GET /api/config/load", s.loadConfig)
	mux.HandleFunc("POST /api/config/save", s.saveConfig)
	mux.HandleFunc("GET /api/jobs", s.listJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.getJob)
	mux.HandleFunc("GET /api/jobs/{id}/statuses", s.listJobStatuses)
	mux.HandleFunc("POST /api/jobs/{id}/ignore", s.setJobIgnore)
	mux.HandleFunc("POST /api/jobs/{id}/status", s.updateJobStatus)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

func (s *Server) Run() error {
	log.Infof("http server listening on %v", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{"success": false, "message": message})
}
