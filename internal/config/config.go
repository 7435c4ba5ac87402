package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string
	HTTPAddr    string
	LogLevel    string

	DBDriver    string
	DatabaseURL string

	// TokenSigningKey is the base64 encoded HMAC secret (token.signing.key).
	TokenSigningKey string

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	CSRFSecureCookie bool
}

// Load builds the configuration from an optional .env file, the process
// environment and finally the command line, each layer overriding the previous.
func Load(args []string) (*Config, error) {
	envFile := EnvDefault("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "taskmanager"),
		HTTPAddr:    EnvDefault("HTTP_ADDR", ":8080"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    EnvDefault("DB_DRIVER", DriverPostgres),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TokenSigningKey: os.Getenv("TOKEN_SIGNING_KEY"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "task_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "tasks"),

		CSRFSecureCookie: EnvBoolDefault("CSRF_SECURE_COOKIE", false),
	}

	flags := pflag.NewFlagSet("taskmanager", pflag.ContinueOnError)
	flags.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "database driver: postgres or sqlite")
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "database DSN")
	flags.StringSliceVar(&cfg.KafkaBrokers, "kafka-brokers", cfg.KafkaBrokers, "kafka bootstrap brokers")
	flags.StringVar(&cfg.ESURL, "es-url", cfg.ESURL, "elasticsearch URL, empty disables search")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := MustNonEmpty(c.DatabaseURL, "DATABASE_URL"); err != nil {
		return err
	}
	if err := MustNonEmpty(c.TokenSigningKey, "TOKEN_SIGNING_KEY"); err != nil {
		return err
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

func (c *Config) SearchEnabled() bool { return c.ESURL != "" }

func MustNonEmpty(value, envName string) error {
	if value == "" {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
