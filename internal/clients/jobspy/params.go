package jobspy

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/magnification/jobtrack/internal/domain/models"
)

type SearchParameters struct {
	SearchTerm    string
	Sites         []models.Site
	HoursOld      int
	ResultsWanted int
}

func (s SearchParameters) Validate() error {

	if s.SearchTerm == "" {
		return fmt.Errorf("search term must not be empty")
	}

	if len(s.Sites) == 0 {
		return fmt.Errorf("at least one site is required")
	}

	for _, site := range s.Sites {
		if _, err := models.ToSite(string(site)); err != nil {
			return err
		}
	}

	if s.HoursOld <= 0 {
		return fmt.Errorf("hours old must be positive")
	}

	if s.ResultsWanted <= 0 || s.ResultsWanted > models.MaxResultsWanted {
		return fmt.Errorf("results wanted must be between 1 and %d", models.MaxResultsWanted)
	}

	return nil
}

func (s SearchParameters) ToUrlParams() url.Values {

	params := url.Values{}
	params.Add("search_term", s.SearchTerm)
	for _, site := range s.Sites {
		params.Add("site_name", string(site))
	}
	params.Add("hours_old", strconv.Itoa(s.HoursOld))
	params.Add("results_wanted", strconv.Itoa(s.ResultsWanted))

	return params
}
