package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Logger   LoggerConfig   `envPrefix:"LOGGER_"`
	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	AppEnv        string `env:"APP_ENV" envDefault:"dev"`
	GRPCPort      string `env:"GRPC_PORT" envDefault:":8082"`
	StoreName     string `env:"STORE_NAME" envDefault:"My Simple Grocery"`
	Timezone      string `env:"TIMEZONE" envDefault:"Asia/Colombo"`
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`
}

// StoreConfig selects where collections are persisted.
type StoreConfig struct {
	Backend     string        `env:"STORE_BACKEND" envDefault:"file"` // file, memory, redis, postgres
	DataDir     string        `env:"DATA_DIR" envDefault:"./data"`
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"5s"`
}

type LoggerConfig struct {
	Level             string `env:"LEVEL" envDefault:"debug"`
	Encoding          string `env:"ENCODING" envDefault:"console"`
	DisableCaller     bool   `env:"DISABLE_CALLER" envDefault:"false"`
	DisableStacktrace bool   `env:"DISABLE_STACKTRACE" envDefault:"true"`
	File              string `env:"FILE"`
	MaxSizeMB         int    `env:"MAX_SIZE_MB" envDefault:"100"`
	MaxBackups        int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays        int    `env:"MAX_AGE_DAYS" envDefault:"30"`
}

type PostgresConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"pos"`
	Password        string        `env:"PASSWORD" envDefault:"pos"`
	DBName          string        `env:"DB" envDefault:"kdj_pos"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"1m"`
}

// DSN renders the connection URL understood by the pgx driver.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     p.DBName,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr      string `env:"ADDR" envDefault:"localhost:6379"`
	Password  string `env:"PASSWORD"`
	DB        int    `env:"DB" envDefault:"0"`
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"pos:"`
}

type KafkaConfig struct {
	Enabled      bool     `env:"ENABLED" envDefault:"false"`
	Brokers      []string `env:"BROKERS" envDefault:"localhost:9092" envSeparator:","`
	SalesTopic   string   `env:"TOPIC_SALES" envDefault:"pos.sales.events"`
	RestockTopic string   `env:"TOPIC_RESTOCK" envDefault:"pos.inventory.restock"`
	RestockGroup string   `env:"GROUP_RESTOCK" envDefault:"pos-restock"`
}

// LoadEnv reads a .env file when one exists, then the process environment.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case "file", "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("parse config: unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
	if cfg.Store.LockTimeout <= 0 {
		return nil, fmt.Errorf("parse config: LOCK_TIMEOUT must be positive")
	}
	return cfg, nil
}

// Location resolves TIMEZONE. Sale ids and report dates are computed in it.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

// IsDevelopment reports whether APP_ENV names a development environment.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Server.AppEnv) {
	case "dev", "development", "local":
		return true
	}
	return false
}
