package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type serverConfig struct {
	Address        string   `mapstructure:"address"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type redisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type authConfig struct {
	Secret        string        `mapstructure:"secret"`
	Issuer        string        `mapstructure:"issuer"`
	AccessTTL     time.Duration `mapstructure:"access_ttl"`
	RefreshTTL    time.Duration `mapstructure:"refresh_ttl"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	AbuseWindow   time.Duration `mapstructure:"abuse_window"`
	AbuseMaxCount int64         `mapstructure:"abuse_max_count"`
}

type observabilityConfig struct {
	Metrics   bool `mapstructure:"metrics"`
	Latency   bool `mapstructure:"latency_histograms"`
	AuditLogs bool `mapstructure:"audit_logs"`
}

type appConfig struct {
	Server        serverConfig        `mapstructure:"server"`
	Redis         redisConfig         `mapstructure:"redis"`
	Auth          authConfig          `mapstructure:"auth"`
	Observability observabilityConfig `mapstructure:"observability"`
}

// loadConfig reads config.yaml (or the file at path) with environment
// overrides prefixed TODOBACKEND, e.g. TODOBACKEND_SERVER_PORT=9000.
func loadConfig(path string) (*appConfig, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("auth.issuer", "todo-backend")
	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 10*24*time.Hour)
	v.SetDefault("auth.key_prefix", "tb")
	v.SetDefault("auth.abuse_window", 2*24*time.Hour)
	v.SetDefault("auth.abuse_max_count", 3)

	v.SetEnvPrefix("TODOBACKEND")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, defaults plus env carry a dev setup
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c appConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Auth.Secret == "" {
		return nil, fmt.Errorf("auth.secret is required (32 bytes minimum)")
	}
	return &c, nil
}
