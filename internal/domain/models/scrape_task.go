package models

import "strings"

// ScrapeTask is an immutable unit of work: one search term scraped across the
// full site set with shared recency and result-cap parameters.
type ScrapeTask struct {
	SearchTerm    string
	Sites         []Site
	HoursOld      int
	ResultsWanted int
}

// ID returns a filename-safe identifier derived from the search term.
func (t ScrapeTask) ID() string {
	sanitized := strings.NewReplacer(" ", "_", "/", "_").Replace(t.SearchTerm)
	return "task_" + strings.ToLower(sanitized)
}
