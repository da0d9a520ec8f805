package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ScraperConfig struct {
	ProviderURL                  string        `mapstructure:"provider_url"`
	ProviderMaxRequestsPerSecond float32       `mapstructure:"provider_max_requests_per_second"`
	Workers                      int           `mapstructure:"workers"`
	RunTimeout                   time.Duration `mapstructure:"run_timeout"`
	// Schedule is a cron expression for periodic scrapes; empty disables them.
	Schedule string `mapstructure:"schedule"`
}

func (config ScraperConfig) validate() error {

	if config.ProviderURL == "" {
		return fmt.Errorf("missing variable: provider_url")
	}

	if config.Workers <= 0 {
		return fmt.Errorf("workers must be greater than zero")
	}

	if config.RunTimeout <= 0 {
		return fmt.Errorf("run_timeout must be greater than zero")
	}

	return nil
}

func (config ScraperConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("scraper.provider_url", "PROVIDER_URL")
	if err != nil {
		return err
	}

	err = viper.BindEnv("scraper.workers", "SCRAPER_WORKERS")
	if err != nil {
		return err
	}

	err = viper.BindEnv("scraper.run_timeout", "SCRAPER_RUN_TIMEOUT")
	if err != nil {
		return err
	}

	return viper.BindEnv("scraper.schedule", "SCRAPER_SCHEDULE")
}
