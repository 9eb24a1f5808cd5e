package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service  ServiceConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Catalog  CatalogConfig
	Log      LogConfig
}

type ServiceConfig struct {
	Name string
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig enables the tenant cache when URL is set.
type RedisConfig struct {
	URL            string
	TenantCacheTTL time.Duration
}

// NATSConfig enables catalog events when URL is set.
type NATSConfig struct {
	URL           string
	SubjectPrefix string
}

type CatalogConfig struct {
	DefaultPageSize    int
	MaxPageSize        int
	ImportMaxFileBytes int64
}

type LogConfig struct {
	Level string
}

// Load reads configuration from the environment, optionally layered over the YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

func LoadWith(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "vitrina")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "vitrina")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "vitrina")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("TENANT_CACHE_TTL", "10m")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT_PREFIX", "catalog")
	v.SetDefault("CATALOG_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("CATALOG_MAX_PAGE_SIZE", 100)
	v.SetDefault("IMPORT_MAX_FILE_BYTES", 10<<20)
	v.SetDefault("LOG_LEVEL", "info")

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	tenantCacheTTL, err := time.ParseDuration(v.GetString("TENANT_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parsing TENANT_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Service: ServiceConfig{
			Name: v.GetString("SERVICE_NAME"),
		},
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			URL:            v.GetString("REDIS_URL"),
			TenantCacheTTL: tenantCacheTTL,
		},
		NATS: NATSConfig{
			URL:           v.GetString("NATS_URL"),
			SubjectPrefix: v.GetString("NATS_SUBJECT_PREFIX"),
		},
		Catalog: CatalogConfig{
			DefaultPageSize:    v.GetInt("CATALOG_DEFAULT_PAGE_SIZE"),
			MaxPageSize:        v.GetInt("CATALOG_MAX_PAGE_SIZE"),
			ImportMaxFileBytes: v.GetInt64("IMPORT_MAX_FILE_BYTES"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
