package services

import (
	"context"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type searchConfigStore interface {
	Load(ctx context.Context) (*models.SearchConfig, error)
}

// ScrapeScheduler triggers the workflow on a cron schedule. A tick that lands
// while a run is still active is skipped, not queued.
type ScrapeScheduler struct {
	workflow *Workflow
	configs  searchConfigStore
	cron     *cron.Cron
}

func NewScrapeScheduler(workflow *Workflow, configs searchConfigStore, schedule string) (*ScrapeScheduler, error) {

	if schedule == "" {
		return nil, errors.New("schedule must not be empty")
	}

	s := &ScrapeScheduler{
		workflow: workflow,
		configs:  configs,
		cron:     cron.New(),
	}

	_, err := s.cron.AddFunc(schedule, s.runScheduledScrape)
	if err != nil {
		return nil, err
	}

	s.cron.Start()
	log.Infof("scrape scheduler started with schedule %q", schedule)
	return s, nil
}

func (s *ScrapeScheduler) Stop() {
	s.cron.Stop()
}

func (s *ScrapeScheduler) runScheduledScrape() {

	cfg, err := s.configs.Load(context.Background())
	if err != nil {
		log.Errorf("scheduled scrape skipped, can't load configuration: %v", err)
		return
	}

	runID, err := s.workflow.Start(*cfg)
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			log.Warn("scheduled scrape skipped, a run is already active")
		} else {
			log.Errorf("scheduled scrape failed to start: %v", err)
		}
		return
	}

	log.Infof("scheduled scrape started, run %v", runID)
}
