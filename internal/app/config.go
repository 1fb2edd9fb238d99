package app

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/travelplanner-backend/internal/data/sqlstore"
	"github.com/yungbote/travelplanner-backend/internal/platform/envutil"
	"github.com/yungbote/travelplanner-backend/internal/platform/logger"
)

const (
	BackendFile = "file"
	BackendSQL  = "sql"
)

type Config struct {
	HTTPAddr    string `yaml:"http_addr"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`

	StoreBackend string `yaml:"store_backend"`
	DataDir      string `yaml:"data_dir"`
	DBDriver     string `yaml:"db_driver"`
	DBDSN        string `yaml:"db_dsn"`
	DBLogLevel   string `yaml:"db_log_level"`
	SeedFile     string `yaml:"seed_attractions_file"`

	Postgres PostgresConfig `yaml:"postgres"`

	RedisAddr    string        `yaml:"redis_addr"`
	LikeTTLSecs  int           `yaml:"like_count_ttl_seconds"`
	LikeCountTTL time.Duration `yaml:"-"`

	AllowSelfLike   bool `yaml:"allow_self_like"`
	AllowSelfFollow bool `yaml:"allow_self_follow"`

	JWTSecretKey string   `yaml:"-"`
	CORSOrigins  []string `yaml:"cors_origins"`

	OpenAI OpenAIConfig `yaml:"openai"`

	OtelEnabled      bool    `yaml:"otel_enabled"`
	OtelEndpoint     string  `yaml:"otel_endpoint"`
	OtelSamplerRatio float64 `yaml:"otel_sampler_ratio"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// OpenAIConfig enables the model-backed planner and review summarizer when
// APIKey is set.
type OpenAIConfig struct {
	APIKey         string `yaml:"-"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

func defaultConfig() Config {
	return Config{
		HTTPAddr:     ":8080",
		ServiceName:  "travelplanner-backend",
		Environment:  "development",
		StoreBackend: BackendFile,
		DataDir:      "./data",
		DBDriver:     sqlstore.DriverSQLite,
		DBLogLevel:   "warn",
		Postgres: PostgresConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
		OpenAI: OpenAIConfig{
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		LikeTTLSecs:      60,
		AllowSelfLike:    true,
		AllowSelfFollow:  false,
		CORSOrigins:      []string{"*"},
		OtelSamplerRatio: 1,
	}
}

// LoadConfig reads the optional YAML file named by TRAVEL_CONFIG_YAML and
// then applies environment variables on top. Secrets only come from the
// environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("TRAVEL_CONFIG_YAML", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		log.Info("loaded config file", "path", path)
	}

	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	cfg.ServiceName = envutil.String("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)

	cfg.StoreBackend = strings.ToLower(envutil.String("STORE_BACKEND", cfg.StoreBackend))
	cfg.DataDir = envutil.String("DATA_DIR", cfg.DataDir)
	cfg.DBDriver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DBDriver))
	cfg.DBDSN = envutil.String("DB_DSN", cfg.DBDSN)
	cfg.DBLogLevel = envutil.String("DB_LOG_LEVEL", cfg.DBLogLevel)
	cfg.SeedFile = envutil.String("SEED_ATTRACTIONS_FILE", cfg.SeedFile)

	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.Int("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.LikeTTLSecs = envutil.Int("LIKE_COUNT_TTL_SECONDS", cfg.LikeTTLSecs)
	cfg.LikeCountTTL = time.Duration(cfg.LikeTTLSecs) * time.Second

	cfg.AllowSelfLike = envutil.Bool("ALLOW_SELF_LIKE", cfg.AllowSelfLike)
	cfg.AllowSelfFollow = envutil.Bool("ALLOW_SELF_FOLLOW", cfg.AllowSelfFollow)

	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", "")
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.OpenAI.APIKey = envutil.String("OPENAI_API_KEY", "")
	cfg.OpenAI.BaseURL = envutil.String("OPENAI_BASE_URL", cfg.OpenAI.BaseURL)
	cfg.OpenAI.Model = envutil.String("OPENAI_MODEL", cfg.OpenAI.Model)
	cfg.OpenAI.TimeoutSeconds = envutil.Int("OPENAI_TIMEOUT_SECONDS", cfg.OpenAI.TimeoutSeconds)
	cfg.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", cfg.OpenAI.MaxRetries)

	cfg.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.OtelEnabled)
	cfg.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OtelEndpoint)
	cfg.OtelSamplerRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.OtelSamplerRatio)

	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) finish() error {
	switch c.StoreBackend {
	case BackendFile, BackendSQL:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQL, c.StoreBackend)
	}
	if c.StoreBackend != BackendSQL || c.DBDSN != "" {
		return nil
	}
	switch c.DBDriver {
	case sqlstore.DriverSQLite:
		c.DBDSN = "file:travel.db?_foreign_keys=on"
	case sqlstore.DriverPostgres:
		c.DBDSN = c.Postgres.DSN()
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", sqlstore.DriverSQLite, sqlstore.DriverPostgres, c.DBDriver)
	}
	return nil
}

// DSN builds a postgres URL from the individual settings.
func (p PostgresConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Name,
	}
	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
