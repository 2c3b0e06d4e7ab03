package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

type StreamConfig struct {
	ReconnectDelay time.Duration
	DialTimeout    time.Duration
}

type UIConfig struct {
	PageSize int
}

type AppConfig struct {
	Environment string
	Server      ServerConfig
	Stream      StreamConfig
	UI          UIConfig
}

// Load reads config.yaml if present and applies RELAYDASH_* env overrides.
// A missing config file is not an error; defaults cover every key.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("RELAYDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.baseurl", "http://localhost:8000")
	v.SetDefault("server.requesttimeout", "15s")

	v.SetDefault("stream.reconnectdelay", "5s")
	v.SetDefault("stream.dialtimeout", "10s")

	v.SetDefault("ui.pagesize", 50)
}
