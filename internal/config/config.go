package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Events   EventsConfig   `mapstructure:"events"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	// Driver selects the record store: "mongo" or "memory".
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	URLExpiry       time.Duration `mapstructure:"url_expiry"`
}

// CacheConfig configures the cache store and entry lifetimes.
type CacheConfig struct {
	// Driver selects the cache store: "memory" or "mongo".
	Driver          string        `mapstructure:"driver"`
	LibraryTTL      time.Duration `mapstructure:"library_ttl"`
	MembershipTTL   time.Duration `mapstructure:"membership_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type SweepConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// EventsConfig controls the database change-stream watcher (replica sets only).
type EventsConfig struct {
	Watch bool `mapstructure:"watch"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"` // "production" or "development"
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. cache.membership_ttl -> CACHE_MEMBERSHIP_TTL
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("24h", "168h") decode straight into time.Duration fields.
	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "ptrainer")
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.url_expiry", "15m")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.library_ttl", "168h")
	v.SetDefault("cache.membership_ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.interval", "1h")
	v.SetDefault("events.watch", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "production")
}
