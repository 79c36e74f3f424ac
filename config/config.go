package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Orders    OrdersConfig
}

type AppConfig struct {
	Env          string
	Port         string
	SeedDefaults bool
}

type DatabaseConfig struct {
	Driver     string // sqlite | mongo
	SQLitePath string
	MongoURL   string
	MongoDB    string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration // 0 = tokens never expire
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string // text | json
	File   string // empty = stdout only
}

type RateLimitConfig struct {
	LoginPerSecond float64
	LoginBurst     int
}

type OrdersConfig struct {
	RecentLimitMax int
}

// Load reads an optional .env file (or path, when given) and the environment.
// Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else is a broken file.
		if !isNotExist(err) {
			return nil, err
		}
	}

	return &Config{
		App: AppConfig{
			Env:          v.GetString("APP_ENV"),
			Port:         v.GetString("APP_PORT"),
			SeedDefaults: v.GetBool("SEED_DEFAULTS"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			SQLitePath: v.GetString("SQLITE_PATH"),
			MongoURL:   v.GetString("MONGO_URL"),
			MongoDB:    v.GetString("MONGO_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
			File:   v.GetString("LOG_FILE"),
		},
		RateLimit: RateLimitConfig{
			LoginPerSecond: v.GetFloat64("LOGIN_RATE_PER_SECOND"),
			LoginBurst:     v.GetInt("LOGIN_RATE_BURST"),
		},
		Orders: OrdersConfig{
			RecentLimitMax: v.GetInt("RECENT_LIMIT_MAX"),
		},
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SEED_DEFAULTS", true)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("SQLITE_PATH", "pos.db")
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "kasir")
	v.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOGIN_RATE_PER_SECOND", 1)
	v.SetDefault("LOGIN_RATE_BURST", 5)
	v.SetDefault("RECENT_LIMIT_MAX", 1000)
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
