package config

import (
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	override := Config{
		DB:     DBConfig{ConnectionString: "newConnectionString"},
		Logger: LoggerConfig{LogLevel: LevelDebug, OutputFile: "override.log"},
		Scraper: ScraperConfig{
			ProviderURL: "http://override:9000",
			Workers:     7,
			RunTimeout:  3 * time.Minute,
			Schedule:    "0 6 * * *",
		},
		Server: ServerConfig{Port: 9999},
	}
	os.Setenv("MODE", "test")

	os.Setenv("DB_CONNECTION_STRING", override.DB.ConnectionString)
	os.Setenv("LOG_LEVEL", string(override.Logger.LogLevel))
	os.Setenv("LOG_OUTPUT_FILE", override.Logger.OutputFile)
	os.Setenv("PROVIDER_URL", override.Scraper.ProviderURL)
	os.Setenv("SCRAPER_WORKERS", strconv.Itoa(override.Scraper.Workers))
	os.Setenv("SCRAPER_RUN_TIMEOUT", "3m")
	os.Setenv("SCRAPER_SCHEDULE", override.Scraper.Schedule)
	os.Setenv("PORT", strconv.Itoa(override.Server.Port))

	cfg := Get()

	assert.Equal(t, override.DB.ConnectionString, cfg.DB.ConnectionString)
	assert.Equal(t, override.Logger.LogLevel, cfg.Logger.LogLevel)
	assert.Equal(t, override.Logger.OutputFile, cfg.Logger.OutputFile)
	assert.Equal(t, override.Scraper.ProviderURL, cfg.Scraper.ProviderURL)
	assert.Equal(t, override.Scraper.Workers, cfg.Scraper.Workers)
	assert.Equal(t, override.Scraper.RunTimeout, cfg.Scraper.RunTimeout)
	assert.Equal(t, override.Scraper.Schedule, cfg.Scraper.Schedule)
	assert.Equal(t, override.Server.Port, cfg.Server.Port)
}
