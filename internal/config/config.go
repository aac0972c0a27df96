package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"portfolio_tracker_back/pkg/cache"
	"portfolio_tracker_back/pkg/coingecko"
	"portfolio_tracker_back/pkg/repository"
	"portfolio_tracker_back/pkg/retry"
)

const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

type Config struct {
	Port           string
	LogLevel       string
	DB             repository.Config
	Redis          cache.RedisConfig
	CacheBackend   string
	EthereumRPC    string
	SolanaRPC      string
	CoinGecko      coingecko.Config
	Retry          retry.Config
	SessionTTL     time.Duration
	SecureCookie   bool
	CORSOrigins    []string
	MigrationsPath string
}

// Load reads .env (if present) and config.yml from dir. Secrets only come
// from the environment.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	rc := retry.DefaultConfig()
	if n := v.GetInt("retry.attempts"); n > 0 {
		rc.MaxAttempts = n
	}
	if d := v.GetDuration("retry.initial_delay"); d > 0 {
		rc.InitialDelay = d
	}
	if d := v.GetDuration("retry.max_delay"); d > 0 {
		rc.MaxDelay = d
	}
	if m := v.GetFloat64("retry.multiplier"); m > 0 {
		rc.Multiplier = m
	}

	cfg := &Config{
		Port:     envOr("PORT", v.GetString("port")),
		LogLevel: v.GetString("log.level"),
		DB: repository.Config{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			Username: v.GetString("db.username"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   v.GetString("db.dbname"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: cache.RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("redis.db"),
		},
		CacheBackend: strings.ToLower(v.GetString("cache.backend")),
		EthereumRPC:  envOr("ETHEREUM_RPC_URL", v.GetString("chains.ethereum.rpc")),
		SolanaRPC:    envOr("SOLANA_RPC_URL", v.GetString("chains.solana.rpc")),
		CoinGecko: coingecko.Config{
			BaseURL:       v.GetString("coingecko.base_url"),
			APIKey:        os.Getenv("COINGECKO_API_KEY"),
			RatePerMinute: v.GetInt("coingecko.rate_per_minute"),
		},
		Retry:          rc,
		SessionTTL:     v.GetDuration("session.ttl"),
		SecureCookie:   v.GetBool("session.secure"),
		CORSOrigins:    v.GetStringSlice("cors.origins"),
		MigrationsPath: v.GetString("migrations.path"),
	}

	if cfg.CacheBackend != CacheRedis && cfg.CacheBackend != CacheMemory {
		return nil, errors.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("cache.backend", CacheRedis)
	v.SetDefault("coingecko.base_url", coingecko.DefaultBaseURL)
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("migrations.path", "schema")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
