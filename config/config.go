package config

import (
	"lendex/core"

	configUtil "github.com/fox-one/pkg/config"
)

const (
	defaultMaximumAge     = 3600
	defaultPriceCacheSecs = 5
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configUtil.AutomaticLoadEnv("LENDEX")
	if configFile != "" {
		if err := configUtil.LoadYaml(configFile, config); err != nil {
			return err
		}
	}

	defaultConfig(config)
	return nil
}

func defaultConfig(config *core.Config) {
	if config.Oracle.MaximumAge <= 0 {
		config.Oracle.MaximumAge = defaultMaximumAge
	}

	if config.PriceCacheSeconds <= 0 {
		config.PriceCacheSeconds = defaultPriceCacheSecs
	}
}
