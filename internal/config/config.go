// AngelaMos | 2026
// config.go

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Supabase  SupabaseConfig  `koanf:"supabase"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SupabaseConfig holds the hosted backend connection parameters. URL and
// AnonKey decide whether the data layer runs configured or degraded;
// DatabaseURL is the project's Postgres connection string the remote client
// talks to.
type SupabaseConfig struct {
	URL         string `koanf:"url"`
	AnonKey     string `koanf:"anon_key"`
	DatabaseURL string `koanf:"database_url"`
	JWTSecret   string `koanf:"jwt_secret"`
	ClientInfo  string `koanf:"client_info"`
}

type DatabaseConfig struct {
	SimpleProtocol  bool          `koanf:"simple_protocol"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

const (
	PlaceholderURL     = "https://placeholder.supabase.co"
	PlaceholderAnonKey = "placeholder-key"

	supabaseDomain   = ".supabase.co"
	minSupabaseURL   = 30
	minSupabaseKey   = 30
	defaultEnvFile   = ".env"
	productionEnvVal = "production"
)

// Load reads defaults, the optional YAML file at configPath, an optional
// .env file and finally the process environment, in that order of precedence.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if os.Getenv("ENVIRONMENT") != productionEnvVal {
		if err := godotenv.Load(defaultEnvFile); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "Ummah Social API",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"supabase.url":         PlaceholderURL,
		"supabase.anon_key":    PlaceholderAnonKey,
		"supabase.client_info": "islamic-social-platform",

		"database.simple_protocol":    false,
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"kafka.topic": "social-activity",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:5173"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Client-Info",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "ummah-social",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"SUPABASE_URL":                "supabase.url",
	"VITE_SUPABASE_URL":           "supabase.url",
	"SUPABASE_ANON_KEY":           "supabase.anon_key",
	"VITE_SUPABASE_ANON_KEY":      "supabase.anon_key",
	"SUPABASE_DB_URL":             "supabase.database_url",
	"DATABASE_URL":                "supabase.database_url",
	"SUPABASE_JWT_SECRET":         "supabase.jwt_secret",
	"SUPABASE_CLIENT_INFO":        "supabase.client_info",
	"DATABASE_SIMPLE_PROTOCOL":    "database.simple_protocol",
	"REDIS_URL":                   "redis.url",
	"KAFKA_BROKERS":               "kafka.brokers",
	"KAFKA_TOPIC":                 "kafka.topic",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(key, value string) (string, any) {
	mapped, ok := envKeyMap[key]
	if !ok || value == "" {
		return "", nil
	}
	if mapped == "kafka.brokers" {
		return mapped, splitList(value)
	}
	return mapped, value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func validate(c *Config) error {
	if c.Supabase.IsConfigured() && c.Supabase.DatabaseURL == "" {
		return fmt.Errorf("SUPABASE_DB_URL is required when Supabase is configured")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == productionEnvVal {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.requests and rate_limit.window must be positive")
	}

	return nil
}

// IsConfigured reports whether the connection parameters pass the minimal
// shape checks. When false every data operation short-circuits.
func (s SupabaseConfig) IsConfigured() bool {
	return s.URL != PlaceholderURL &&
		s.AnonKey != PlaceholderAnonKey &&
		strings.Contains(s.URL, supabaseDomain) &&
		len(s.URL) > minSupabaseURL &&
		len(s.AnonKey) > minSupabaseKey
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == productionEnvVal
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
