package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ForecastConfig holds runtime limits for forecast CSV ingestion.
type ForecastConfig struct {
	MaxUploadBytes int64 `mapstructure:"maxUploadBytes"`
	MaxRows        int   `mapstructure:"maxRows"`
}

func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		MaxUploadBytes: 10 << 20,
		MaxRows:        100_000,
	}
}

// ForecastConfigHolder exposes the current forecast limits, hot-reloaded
// from forecast.yml when the file changes.
type ForecastConfigHolder struct {
	current atomic.Value // holds ForecastConfig
}

func NewForecastConfigHolder() (*ForecastConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("forecast")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/demandcast/config")
	v.AddConfigPath("/etc/demandcast")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DEMANDCAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultForecastConfig()
	v.SetDefault("forecast.maxUploadBytes", defaults.MaxUploadBytes)
	v.SetDefault("forecast.maxRows", defaults.MaxRows)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg ForecastConfig
	if err := v.UnmarshalKey("forecast", &cfg); err != nil {
		return nil, err
	}
	if err := validateForecastConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ForecastConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ForecastConfig
		if err := v.UnmarshalKey("forecast", &updated); err != nil {
			log.Printf("[forecast-config] reload failed: %v", err)
			return
		}
		if err := validateForecastConfig(updated); err != nil {
			log.Printf("[forecast-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
	})

	return holder, nil
}

// Current returns the active forecast limits.
func (h *ForecastConfigHolder) Current() ForecastConfig {
	if h == nil {
		return DefaultForecastConfig()
	}
	if cfg, ok := h.current.Load().(ForecastConfig); ok {
		return cfg
	}
	return DefaultForecastConfig()
}

func validateForecastConfig(cfg ForecastConfig) error {
	if cfg.MaxUploadBytes <= 0 {
		return errors.New("forecast.maxUploadBytes must be positive")
	}
	if cfg.MaxRows <= 0 {
		return errors.New("forecast.maxRows must be positive")
	}
	return nil
}
