package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SearchConfig_UnmarshalsGroupedFilters(t *testing.T) {

	raw := `{
		"search_terms": ["Backend Engineer"],
		"job_titles": [["engineer"], ["developer"]],
		"description_keywords": [["go", "golang"]],
		"sites": ["indeed", "linkedin"],
		"hours_old": 168,
		"results_wanted": 20
	}`

	var cfg SearchConfig
	assert.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	assert.Equal(t, FilterGroups{{"engineer"}, {"developer"}}, cfg.TitleFilters)
	assert.Equal(t, FilterGroups{{"go", "golang"}}, cfg.DescriptionFilters)
	assert.NoError(t, cfg.Validate())
}

func Test_SearchConfig_NormalizesLegacyFlatFilters(t *testing.T) {

	raw := `{
		"search_terms": ["Backend Engineer"],
		"job_titles": ["engineer", "developer"],
		"description_keywords": [],
		"sites": ["indeed"],
		"hours_old": 24,
		"results_wanted": 10
	}`

	var cfg SearchConfig
	assert.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	assert.Equal(t, FilterGroups{{"engineer", "developer"}}, cfg.TitleFilters)
	assert.Empty(t, cfg.DescriptionFilters)
}

func Test_SearchConfig_Normalize_DeduplicatesSearchTerms(t *testing.T) {

	cfg := SearchConfig{
		SearchTerms: []string{" Backend Engineer ", "Backend Engineer", "", "Data Engineer"},
		Sites:       []Site{SiteIndeed, SiteIndeed},
	}
	cfg.Normalize()

	assert.Equal(t, []string{"Backend Engineer", "Data Engineer"}, cfg.SearchTerms)
	assert.Equal(t, []Site{SiteIndeed}, cfg.Sites)
}

func Test_SearchConfig_Validate_RejectsInvalidValues(t *testing.T) {

	valid := SearchConfig{
		SearchTerms:   []string{"Backend Engineer"},
		Sites:         []Site{SiteIndeed},
		HoursOld:      24,
		ResultsWanted: 20,
	}
	assert.NoError(t, valid.Validate())

	noTerms := valid
	noTerms.SearchTerms = nil
	assert.Error(t, noTerms.Validate())

	badSite := valid
	badSite.Sites = []Site{"monster"}
	assert.Error(t, badSite.Validate())

	badHours := valid
	badHours.HoursOld = 100
	assert.Error(t, badHours.Validate())

	badCap := valid
	badCap.ResultsWanted = 101
	assert.Error(t, badCap.Validate())
}

func Test_FilterGroups_Matches_AnyKeywordInAnyGroup(t *testing.T) {

	groups := FilterGroups{{"engineer"}, {"developer"}}
	assert.True(t, groups.Matches("Senior Software Developer"))

	singleGroup := FilterGroups{{"engineer", "architect"}}
	assert.False(t, singleGroup.Matches("Senior Software Developer"))

	assert.True(t, FilterGroups{}.Matches("anything at all"))
	assert.False(t, FilterGroups{{}}.Matches("empty groups match nothing"))
}
