// Package config carga la configuración desde variables de entorno
// (y opcionalmente un archivo YAML indicado por CONFIG_FILE) usando Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageRedis    = "redis"
)

type Config struct {
	Port         string        `mapstructure:"port"`
	APIPrefix    string        `mapstructure:"api_prefix"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// CORSOrigins es CSV; "*" permite cualquier origen.
	CORSOrigins string `mapstructure:"cors_origins"`

	Storage StorageConfig `mapstructure:",squash"`
	Log     LogConfig     `mapstructure:",squash"`
}

type StorageConfig struct {
	// Driver: memory | postgres | sqlite | redis.
	// Vacío: postgres si hay DB_DSN, memory si no.
	Driver        string `mapstructure:"storage_driver"`
	DSN           string `mapstructure:"db_dsn"`
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type LogConfig struct {
	Level  string `mapstructure:"log_level"`
	Format string `mapstructure:"log_format"`
	App    string `mapstructure:"app_name"`
}

var keys = []string{
	"port", "api_prefix", "read_timeout", "write_timeout", "idle_timeout", "cors_origins",
	"storage_driver", "db_dsn", "sqlite_path", "redis_addr", "redis_password", "redis_db",
	"log_level", "log_format", "app_name",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("api_prefix", "/api/v1")
	v.SetDefault("read_timeout", 5*time.Second)
	v.SetDefault("write_timeout", 10*time.Second)
	v.SetDefault("idle_timeout", 60*time.Second)
	v.SetDefault("cors_origins", "*")
	v.SetDefault("sqlite_path", "pets.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "pet-adoption-api")
}

// Load lee defaults, CONFIG_FILE (si existe) y env, en ese orden de prioridad creciente.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	// AutomaticEnv no alcanza para Unmarshal: las keys sin default deben estar bindeadas.
	for _, k := range keys {
		_ = v.BindEnv(k, strings.ToUpper(k))
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Storage.Driver = resolveDriver(cfg.Storage)
	cfg.APIPrefix = normalizePrefix(cfg.APIPrefix)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("DB_DSN is required for postgres storage")
		}
	case StorageRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return errors.New("REDIS_ADDR is required for redis storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// Addr devuelve la dirección de escucha (":5000").
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AllowedOrigins parsea CORSOrigins.
func (c *Config) AllowedOrigins() []string {
	out := make([]string, 0)
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func resolveDriver(s StorageConfig) string {
	d := strings.ToLower(strings.TrimSpace(s.Driver))
	if d != "" {
		return d
	}
	if strings.TrimSpace(s.DSN) != "" {
		return StoragePostgres
	}
	return StorageMemory
}

func normalizePrefix(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	return "/" + strings.Trim(p, "/")
}
