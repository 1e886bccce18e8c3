package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	StoragePostgres = "postgres"
	StorageBadger   = "badger"
	StorageMemory   = "memory"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort         string        `env:"HTTP_PORT" envDefault:"8080"`
	StorageDriver    string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBAutoMigrate    bool          `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	BadgerPath       string        `env:"BADGER_PATH" envDefault:"./data/messages"`
	ShopifyAPIKey    string        `env:"SHOPIFY_API_KEY"`
	ShopifyAPISecret string        `env:"SHOPIFY_API_SECRET"`
	AuthDisabled     bool          `env:"AUTH_DISABLED" envDefault:"false"`
	AuthDevShop      string        `env:"AUTH_DEV_SHOP" envDefault:"dev-shop.myshopify.com"`
	AuthLoginURL     string        `env:"AUTH_LOGIN_URL"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	MutationLimit    int           `env:"MUTATION_RATE_LIMIT" envDefault:"60"`
	MutationWindow   time.Duration `env:"MUTATION_RATE_WINDOW" envDefault:"1m"`
	LogDevelopment   bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa las reglas de storage y rate limit que dependen de más de una variable.
// Las credenciales de Shopify se validan aparte con ValidateAuth.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageBadger:
		if strings.TrimSpace(c.BadgerPath) == "" {
			return errors.New("BADGER_PATH is required for the badger storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.MutationLimit < 0 {
		return errors.New("MUTATION_RATE_LIMIT must not be negative")
	}
	return nil
}

// ValidateAuth exige las credenciales de la app salvo con AUTH_DISABLED.
// Solo lo llama el servidor HTTP; la consola local no autentica.
func (c *Config) ValidateAuth() error {
	if c.AuthDisabled {
		return nil
	}
	if strings.TrimSpace(c.ShopifyAPIKey) == "" || strings.TrimSpace(c.ShopifyAPISecret) == "" {
		return errors.New("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required unless AUTH_DISABLED=true")
	}
	return nil
}
