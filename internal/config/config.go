package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type NATSConfig struct {
	URL     string
	Enabled bool
}

type SecurityConfig struct {
	SessionTokenBytes int
}

// PolicyConfig selects the visibility policy variant. "legacy" reproduces the
// PHP platform's observed behavior (no block check on content, custom lists
// always deny, group membership approximated by prior participation);
// "strict" enables the corrected semantics.
type PolicyConfig struct {
	Variant string
}

type JobsConfig struct {
	ReconcileSpec  string
	PruneSpec      string
	PruneSeenAfter time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	NATS             NATSConfig
	Security         SecurityConfig
	Policy           PolicyConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("OPENWONDER")
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
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Policy.Variant != "legacy" && cfg.Policy.Variant != "strict" {
		return nil, fmt.Errorf("policy.variant must be legacy or strict, got %q", cfg.Policy.Variant)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.enabled", true)

	v.SetDefault("security.sessiontokenbytes", 64)

	v.SetDefault("policy.variant", "legacy")

	v.SetDefault("jobs.reconcilespec", "0 0 3 * * *")
	v.SetDefault("jobs.prunespec", "0 0 * * * *")
	v.SetDefault("jobs.pruneseenafter", "2160h") // 90 days
}
