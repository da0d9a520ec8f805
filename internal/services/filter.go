package services

import (
	"github.com/magnification/jobtrack/internal/domain/models"
)

// ListingPassesFilters evaluates the grouped keyword filters against a job's
// title and description. A dimension passes when any keyword of any group is
// a case-insensitive substring of the field; an empty group list passes
// vacuously. Both dimensions must pass for the job to stay active.
func ListingPassesFilters(title, description string, cfg models.SearchConfig) bool {

	if !cfg.TitleFilters.Matches(title) {
		return false
	}

	return cfg.DescriptionFilters.Matches(description)
}
