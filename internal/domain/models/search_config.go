package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// AllowedHoursOld are the accepted recency windows for a search, in hours.
var AllowedHoursOld = []int{24, 48, 72, 168, 336, 720}

const (
	DefaultHoursOld      = 24
	DefaultResultsWanted = 20
	MaxResultsWanted     = 100
)

type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "invalid search configuration: " + e.Message
}

// FilterGroups is a list of keyword groups. A text passes the filter when any
// keyword of any group is a case-insensitive substring of it; an empty group
// list passes everything.
//
// The persisted form may be a legacy flat array of keywords, which is read as
// a single group. Serialization always writes the grouped form.
type FilterGroups [][]string

func (f *FilterGroups) UnmarshalJSON(b []byte) error {
	var grouped [][]string
	if err := json.Unmarshal(b, &grouped); err == nil {
		*f = grouped
		return nil
	}

	var flat []string
	if err := json.Unmarshal(b, &flat); err != nil {
		return fmt.Errorf("filter must be an array of keywords or an array of keyword groups")
	}
	if len(flat) == 0 {
		*f = FilterGroups{}
	} else {
		*f = FilterGroups{flat}
	}
	return nil
}

// Matches reports whether text contains at least one keyword of at least one
// group, ignoring case. Empty group lists match vacuously; empty groups and
// empty keywords are skipped.
func (f FilterGroups) Matches(text string) bool {
	if len(f) == 0 {
		return true
	}

	lowered := strings.ToLower(text)
	for _, group := range f {
		for _, keyword := range group {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword != "" && strings.Contains(lowered, keyword) {
				return true
			}
		}
	}
	return false
}

type SearchConfig struct {
	SearchTerms        []string     `json:"search_terms" validate:"required,min=1,dive,required"`
	TitleFilters       FilterGroups `json:"job_titles"`
	DescriptionFilters FilterGroups `json:"description_keywords"`
	Sites              []Site       `json:"sites" validate:"required,min=1"`
	HoursOld           int          `json:"hours_old" validate:"required"`
	ResultsWanted      int          `json:"results_wanted" validate:"min=1,max=100"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SearchTerms:        []string{},
		TitleFilters:       FilterGroups{},
		DescriptionFilters: FilterGroups{},
		Sites:              append([]Site{}, SupportedSites...),
		HoursOld:           DefaultHoursOld,
		ResultsWanted:      DefaultResultsWanted,
	}
}

// Normalize trims and deduplicates search terms and sites, preserving order.
func (c *SearchConfig) Normalize() {
	terms := lo.Map(c.SearchTerms, func(t string, _ int) string { return strings.TrimSpace(t) })
	terms = lo.Filter(terms, func(t string, _ int) bool { return t != "" })
	c.SearchTerms = lo.Uniq(terms)
	c.Sites = lo.Uniq(c.Sites)
}

func (c SearchConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigurationError{Message: err.Error()}
	}

	for _, site := range c.Sites {
		if _, err := ToSite(string(site)); err != nil {
			return &ConfigurationError{Message: err.Error()}
		}
	}

	if !lo.Contains(AllowedHoursOld, c.HoursOld) {
		return &ConfigurationError{
			Message: fmt.Sprintf("hours_old must be one of %v, got %v", AllowedHoursOld, c.HoursOld),
		}
	}

	return nil
}
