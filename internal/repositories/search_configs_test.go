package repositories

import (
	"context"
	"testing"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchConfigsRepository(t *testing.T) *SearchConfigs {
	t.Helper()
	return NewSearchConfigsRepository(NewDataRepository(newTestDbContext(t).DB))
}

func Test_SearchConfigsRepository_LoadReturnsDefaultsWhenEmpty(t *testing.T) {

	repo := newSearchConfigsRepository(t)

	cfg, err := repo.Load(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cfg.SearchTerms)
	assert.Equal(t, models.SupportedSites, cfg.Sites)
	assert.Equal(t, models.DefaultHoursOld, cfg.HoursOld)
	assert.Equal(t, models.DefaultResultsWanted, cfg.ResultsWanted)
}

func Test_SearchConfigsRepository_SaveAndLoadRoundTrip(t *testing.T) {

	repo := newSearchConfigsRepository(t)
	ctx := context.Background()

	cfg := models.SearchConfig{
		SearchTerms:        []string{" Backend Engineer ", "Backend Engineer", "Data Engineer"},
		TitleFilters:       models.FilterGroups{{"engineer"}, {"developer"}},
		DescriptionFilters: models.FilterGroups{{"golang", "go"}},
		Sites:              []models.Site{models.SiteIndeed, models.SiteLinkedin},
		HoursOld:           168,
		ResultsWanted:      50,
	}
	require.NoError(t, repo.Save(ctx, cfg))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)

	// Save normalizes before writing: trimmed and deduplicated terms.
	assert.Equal(t, []string{"Backend Engineer", "Data Engineer"}, loaded.SearchTerms)
	assert.Equal(t, cfg.TitleFilters, loaded.TitleFilters)
	assert.Equal(t, cfg.DescriptionFilters, loaded.DescriptionFilters)
	assert.Equal(t, cfg.Sites, loaded.Sites)
	assert.Equal(t, 168, loaded.HoursOld)
	assert.Equal(t, 50, loaded.ResultsWanted)
}

func Test_SearchConfigsRepository_SaveRejectsInvalidConfiguration(t *testing.T) {

	repo := newSearchConfigsRepository(t)

	cfg := models.SearchConfig{
		SearchTerms:   []string{"Backend Engineer"},
		Sites:         []models.Site{models.SiteIndeed},
		HoursOld:      100, // not an allowed recency window
		ResultsWanted: 20,
	}
	err := repo.Save(context.Background(), cfg)

	var configurationErr *models.ConfigurationError
	assert.ErrorAs(t, err, &configurationErr)
}

func Test_SearchConfigsRepository_LoadNormalizesLegacyFlatFilters(t *testing.T) {

	dataRepo := NewDataRepository(newTestDbContext(t).DB)
	repo := NewSearchConfigsRepository(dataRepo)
	ctx := context.Background()

	legacy := []byte(`{
		"search_terms": ["Backend Engineer"],
		"job_titles": ["engineer", "developer"],
		"description_keywords": [],
		"sites": ["indeed"],
		"hours_old": 24,
		"results_wanted": 20
	}`)
	require.NoError(t, dataRepo.Save(ctx, "jobs_config", legacy))

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)

	// A flat keyword array reads as a single group.
	assert.Equal(t, models.FilterGroups{{"engineer", "developer"}}, cfg.TitleFilters)
	assert.Equal(t, models.FilterGroups{}, cfg.DescriptionFilters)
}

func Test_DataRepository_SaveLoadRemove(t *testing.T) {

	repo := NewDataRepository(newTestDbContext(t).DB)
	ctx := context.Background()

	loaded, err := repo.Load(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	require.NoError(t, repo.Save(ctx, "key", []byte("first")))
	require.NoError(t, repo.Save(ctx, "key", []byte("second")))

	loaded, err = repo.Load(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), loaded)

	require.NoError(t, repo.Remove(ctx, "key"))
	loaded, err = repo.Load(ctx, "key")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
