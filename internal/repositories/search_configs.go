package repositories

import (
	"context"
	"encoding/json"

	"github.com/magnification/jobtrack/internal/domain/models"
	"github.com/pkg/errors"
)

const searchConfigKey = "jobs_config"

type dataStore interface {
	Save(ctx context.Context, id string, data []byte) error
	Load(ctx context.Context, id string) ([]byte, error)
}

// SearchConfigs persists the user's search configuration as a JSON document.
// Legacy documents with flat filter arrays are normalized to grouped form
// while decoding; a fully valid configuration is the only thing ever written.
type SearchConfigs struct {
	data dataStore
}

func NewSearchConfigsRepository(data dataStore) *SearchConfigs {
	return &SearchConfigs{data: data}
}

func (repo *SearchConfigs) Load(ctx context.Context) (*models.SearchConfig, error) {

	raw, err := repo.data.Load(ctx, searchConfigKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load search configuration")
	}

	if raw == nil {
		cfg := models.DefaultSearchConfig()
		return &cfg, nil
	}

	var cfg models.SearchConfig
	if err = json.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode search configuration")
	}

	cfg.Normalize()
	return &cfg, nil
}

func (repo *SearchConfigs) Save(ctx context.Context, cfg models.SearchConfig) error {

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode search configuration")
	}

	return repo.data.Save(ctx, searchConfigKey, raw)
}
