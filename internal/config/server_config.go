package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

func (config ServerConfig) validate() error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func (config ServerConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("server.port", "PORT")
}
