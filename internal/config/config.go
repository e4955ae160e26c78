// Package config loads the server settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/phenrril/maison/internal/money"
)

// Cart store backends.
const (
	CartStoreRedis    = "redis"
	CartStoreBolt     = "bolt"
	CartStorePostgres = "postgres"
)

type Config struct {
	Env       string         `yaml:"env"`
	Port      string         `yaml:"port"`
	StoreName string         `yaml:"store_name"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     RedisConfig    `yaml:"redis"`
	Cart      CartConfig     `yaml:"cart"`
	Catalog   CatalogConfig  `yaml:"catalog"`
	Pricing   PricingConfig  `yaml:"pricing"`
	HTTP      HTTPConfig     `yaml:"http"`
	Admin     AdminConfig    `yaml:"admin"`
	Logging   LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type CartConfig struct {
	Store      string `yaml:"store"`
	BoltPath   string `yaml:"bolt_path"`
	TTL        string `yaml:"ttl"`
	SessionKey string `yaml:"session_key"`
}

type CatalogConfig struct {
	TTL         string `yaml:"ttl"`
	RefreshCron string `yaml:"refresh_cron"`
}

// PricingConfig amounts are in minor units of Currency.
type PricingConfig struct {
	Currency              string `yaml:"currency"`
	FreeShippingThreshold int64  `yaml:"free_shipping_threshold"`
	FlatShippingFee       int64  `yaml:"flat_shipping_fee"`
}

type HTTPConfig struct {
	CORSOrigins    []string `yaml:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Env:       "development",
		Port:      "8080",
		StoreName: "Maison",
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "maison",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{URL: "redis://localhost:6379"},
		Cart: CartConfig{
			Store:    CartStoreRedis,
			BoltPath: "data/carts.db",
			TTL:      "168h",
		},
		Catalog: CatalogConfig{TTL: "5m", RefreshCron: "@every 5m"},
		Pricing: PricingConfig{
			Currency:              "NGN",
			FreeShippingThreshold: 5_000_000,
			FlatShippingFee:       200_000,
		},
		HTTP: HTTPConfig{
			CORSOrigins:    []string{"http://localhost:3000"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path when it is set and exists, then applies the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.Port, "PORT")
	setString(&c.StoreName, "STORE_NAME")
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSLMODE")
	setString(&c.Redis.URL, "REDIS_URL")
	setString(&c.Cart.Store, "CART_STORE")
	setString(&c.Cart.BoltPath, "BOLT_PATH")
	setString(&c.Cart.TTL, "CART_TTL")
	setString(&c.Cart.SessionKey, "SESSION_KEY")
	setString(&c.Catalog.TTL, "CATALOG_TTL")
	setString(&c.Catalog.RefreshCron, "CATALOG_REFRESH_CRON")
	setString(&c.Pricing.Currency, "CURRENCY")
	setString(&c.Admin.Token, "ADMIN_TOKEN")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.File, "LOG_FILE")

	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		c.HTTP.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.HTTP.CORSOrigins = append(c.HTTP.CORSOrigins, o)
			}
		}
	}
	if err := envInt64(&c.Pricing.FreeShippingThreshold, "FREE_SHIPPING_THRESHOLD"); err != nil {
		return err
	}
	if err := envInt64(&c.Pricing.FlatShippingFee, "FLAT_SHIPPING_FEE"); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.HTTP.RateLimitRPS = f
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.HTTP.RateLimitBurst = n
	}
	return nil
}

func envInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func (c *Config) Validate() error {
	switch c.Cart.Store {
	case CartStoreRedis, CartStoreBolt, CartStorePostgres:
	default:
		return fmt.Errorf("unknown cart store %q", c.Cart.Store)
	}
	code, err := money.Validate(c.Pricing.Currency)
	if err != nil {
		return err
	}
	c.Pricing.Currency = code
	if c.Pricing.FreeShippingThreshold < 0 || c.Pricing.FlatShippingFee < 0 {
		return errors.New("shipping amounts must not be negative")
	}
	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return errors.New("rate limit must be positive")
	}
	for name, d := range map[string]string{"cart ttl": c.Cart.TTL, "catalog ttl": c.Catalog.TTL} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.IsProduction() && c.Cart.SessionKey == "" {
		return errors.New("SESSION_KEY is required in production")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// DSN returns Database.DSN or builds one from the parts.
func (c *Config) DSN() string {
	d := c.Database
	if strings.TrimSpace(d.DSN) != "" {
		return d.DSN
	}
	return "host=" + d.Host + " user=" + d.User + " password=" + d.Password +
		" dbname=" + d.Name + " port=" + d.Port + " sslmode=" + d.SSLMode
}

func (c *Config) CartTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cart.TTL)
	return d
}

func (c *Config) CatalogTTL() time.Duration {
	d, _ := time.ParseDuration(c.Catalog.TTL)
	return d
}
