package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "SALON"

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrEnvOverride   = errors.New("config: failed to apply environment overrides")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Server    ServerConfig    `toml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `toml:"database" envconfig:"DATABASE"`
	Redis     RedisConfig     `toml:"redis" envconfig:"REDIS"`
	Logs      LogsConfig      `toml:"logs" envconfig:"LOGS"`
	Metrics   MetricsConfig   `toml:"metrics" envconfig:"METRICS"`
	Site      SiteConfig      `toml:"site" envconfig:"SITE"`
	Gateway   GatewayConfig   `toml:"gateway" envconfig:"GATEWAY"`
	Slots     SlotsConfig     `toml:"slots" envconfig:"SLOTS"`
	Session   SessionConfig   `toml:"session" envconfig:"SESSION"`
	CORS      CORSConfig      `toml:"cors" envconfig:"CORS"`
	RateLimit RateLimitConfig `toml:"rate_limit" envconfig:"RATE_LIMIT"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`     // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`    // секунды
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq и golang-migrate
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr              string `toml:"addr" split_words:"true"`
	Password          string `toml:"password" split_words:"true"`
	DB                int    `toml:"db" split_words:"true"`
	LedgerKey         string `toml:"ledger_key" split_words:"true"`
	SessionKeyPrefix  string `toml:"session_key_prefix" split_words:"true"`
	SubmissionTimeout int    `toml:"submission_timeout" split_words:"true"` // секунды, TTL состояния submitting
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type MetricsConfig struct {
	Enabled           bool   `toml:"enabled" split_words:"true"`
	ServiceName       string `toml:"service_name" split_words:"true"`
	Path              string `toml:"path" split_words:"true"`
	PoolStatsInterval int    `toml:"pool_stats_interval" split_words:"true"` // секунды
}

type SiteConfig struct {
	BaseURL string `toml:"base_url" split_words:"true"`
}

type GatewayConfig struct {
	BaseURL     string `toml:"base_url" split_words:"true"`
	AccessToken string `toml:"access_token" split_words:"true"`
	PublicKey   string `toml:"public_key" split_words:"true"`
	Timeout     int    `toml:"timeout" split_words:"true"` // секунды
	// StatementDescriptor текст в выписке карты покупателя
	StatementDescriptor string `toml:"statement_descriptor" split_words:"true"`
}

// maxStatementDescriptor ограничение Mercado Pago на длину текста в выписке
const maxStatementDescriptor = 22

type SlotsConfig struct {
	OpenTime                string `toml:"open_time" split_words:"true"`
	CloseTime               string `toml:"close_time" split_words:"true"`
	StepMinutes             int    `toml:"step_minutes" split_words:"true"`
	AdvanceBookingDays      int    `toml:"advance_booking_days" split_words:"true"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes" split_words:"true"`
	HoldTTLMinutes          int    `toml:"hold_ttl_minutes" split_words:"true"`
	SweepInterval           int    `toml:"sweep_interval" split_words:"true"` // секунды
	Timezone                string `toml:"timezone" split_words:"true"`
}

// HoldTTL время жизни неподтвержденной резервации
func (s SlotsConfig) HoldTTL() time.Duration {
	return time.Duration(s.HoldTTLMinutes) * time.Minute
}

// Location часовой пояс салона
func (s SlotsConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type SessionConfig struct {
	CookieName string `toml:"cookie_name" split_words:"true"`
	HashKey    string `toml:"hash_key" split_words:"true"`
	BlockKey   string `toml:"block_key" split_words:"true"`
	MaxAge     int    `toml:"max_age" split_words:"true"` // секунды
	Secure     bool   `toml:"secure" split_words:"true"`
}

type CORSConfig struct {
	Enabled        bool     `toml:"enabled" split_words:"true"`
	AllowedOrigins []string `toml:"allowed_origins" split_words:"true"`
	MaxAge         int      `toml:"max_age" split_words:"true"` // секунды
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled" split_words:"true"`
	RequestsPerMinute int  `toml:"requests_per_minute" split_words:"true"`
	Burst             int  `toml:"burst" split_words:"true"`
	// TrustForwardedFor включать только за reverse proxy, который перезаписывает X-Forwarded-For
	TrustForwardedFor bool `toml:"trust_forwarded_for" split_words:"true"`
}

// Load читает config.toml, затем применяет переменные окружения с префиксом SALON_.
// Файл .env в рабочей директории загружается в окружение, если существует
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrEnvOverride, err)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setInt(&c.Server.HTTPPort, 8080)
	setInt(&c.Server.ReadTimeout, 10)
	setInt(&c.Server.WriteTimeout, 15)
	setInt(&c.Server.IdleTimeout, 60)
	setInt(&c.Server.ShutdownTimeout, 10)

	setString(&c.Database.SSLMode, "disable")
	setInt(&c.Database.MaxOpenConns, 10)
	setInt(&c.Database.MaxIdleConns, 5)
	setInt(&c.Database.ConnMaxLifetime, 300)

	setString(&c.Redis.LedgerKey, "salon:ledger")
	setString(&c.Redis.SessionKeyPrefix, "salon:session:")
	setInt(&c.Redis.SubmissionTimeout, 60)

	setString(&c.Logs.Level, "info")

	setString(&c.Metrics.ServiceName, "salon_booking")
	setString(&c.Metrics.Path, "/metrics")
	setInt(&c.Metrics.PoolStatsInterval, 15)

	setString(&c.Gateway.BaseURL, "https://api.mercadopago.com")
	setInt(&c.Gateway.Timeout, 10)

	setString(&c.Slots.OpenTime, "09:00")
	setString(&c.Slots.CloseTime, "19:00")
	setInt(&c.Slots.StepMinutes, 60)
	setInt(&c.Slots.MinBookingNoticeMinutes, 60)
	setInt(&c.Slots.HoldTTLMinutes, 30)
	setInt(&c.Slots.SweepInterval, 60)
	setString(&c.Slots.Timezone, "America/Sao_Paulo")

	setString(&c.Session.CookieName, "salon_session")
	setInt(&c.Session.MaxAge, 86400)

	setInt(&c.RateLimit.RequestsPerMinute, 10)
	setInt(&c.RateLimit.Burst, 3)
}

// Validate проверяет обязательные поля и границы значений
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Host == "" || c.Database.DBName == "" {
		problems = append(problems, "database.host and database.dbname are required")
	}
	if c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required")
	}
	if _, err := url.ParseRequestURI(c.Site.BaseURL); err != nil {
		problems = append(problems, "site.base_url must be an absolute URL")
	}
	if c.Gateway.AccessToken == "" {
		problems = append(problems, "gateway.access_token is required (SALON_GATEWAY_ACCESS_TOKEN)")
	}
	if c.Gateway.PublicKey == "" {
		problems = append(problems, "gateway.public_key is required")
	}
	if len(c.Gateway.StatementDescriptor) > maxStatementDescriptor {
		problems = append(problems, fmt.Sprintf("gateway.statement_descriptor must be at most %d characters", maxStatementDescriptor))
	}
	if n := len(c.Session.HashKey); n != 32 && n != 64 {
		problems = append(problems, "session.hash_key must be 32 or 64 bytes")
	}
	if n := len(c.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		problems = append(problems, "session.block_key must be empty or 16, 24 or 32 bytes")
	}
	if c.Slots.AdvanceBookingDays < 0 || c.Slots.AdvanceBookingDays > 365 {
		problems = append(problems, "slots.advance_booking_days must be in [0, 365]")
	}
	if c.Slots.MinBookingNoticeMinutes < 0 {
		problems = append(problems, "slots.min_booking_notice_minutes must not be negative")
	}
	if _, err := c.Slots.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("slots.timezone: %v", err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setInt(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

func setString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}
