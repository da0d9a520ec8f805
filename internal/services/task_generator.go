package services

import (
	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// GenerateTasks expands a validated search configuration into one scrape task
// per search term, in configuration order. The same configuration always
// yields the same task sequence.
func GenerateTasks(cfg models.SearchConfig) ([]models.ScrapeTask, error) {

	if len(cfg.SearchTerms) == 0 {
		return nil, &models.ConfigurationError{Message: "no search terms provided"}
	}

	if len(cfg.Sites) == 0 {
		return nil, &models.ConfigurationError{Message: "no sites provided"}
	}

	tasks := lo.Map(cfg.SearchTerms, func(term string, _ int) models.ScrapeTask {
		return models.ScrapeTask{
			SearchTerm:    term,
			Sites:         cfg.Sites,
			HoursOld:      cfg.HoursOld,
			ResultsWanted: cfg.ResultsWanted,
		}
	})

	log.Infof("generated %v scraping tasks for %v sites each", len(tasks), len(cfg.Sites))
	return tasks, nil
}
