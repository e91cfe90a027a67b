package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"dispatch/internal/adapters/out/distancematrix"
	"dispatch/internal/jobs"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds all configuration for the service.
// The mapstructure tags name the environment variables, lower-cased.
type Config struct {
	HTTPPort string `mapstructure:"http_port"`

	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSslMode  string `mapstructure:"db_sslmode"`

	StorageDriver string `mapstructure:"storage_driver"`

	APIKey            string        `mapstructure:"apikey"`
	DistanceMatrixURL string        `mapstructure:"distance_matrix_url"`
	DistanceTimeout   time.Duration `mapstructure:"distance_timeout"`

	RedisAddr        string        `mapstructure:"redis_addr"`
	DistanceCacheTTL time.Duration `mapstructure:"distance_cache_ttl"`

	KafkaHost              string `mapstructure:"kafka_host"`
	KafkaOrderChangedTopic string `mapstructure:"kafka_order_changed_topic"`

	BacklogJobSchedule string `mapstructure:"backlog_job_schedule"`
	TracingEnabled     bool   `mapstructure:"tracing_enabled"`
	LogLevel           string `mapstructure:"log_level"`
}

var defaults = map[string]any{
	"http_port":                 "8080",
	"db_host":                   "localhost",
	"db_port":                   "5432",
	"db_user":                   "postgres",
	"db_password":               "",
	"db_name":                   "dispatch",
	"db_sslmode":                "disable",
	"storage_driver":            StorageDriverPostgres,
	"apikey":                    "",
	"distance_matrix_url":       distancematrix.DefaultBaseURL,
	"distance_timeout":          "5s",
	"redis_addr":                "",
	"distance_cache_ttl":        "24h",
	"kafka_host":                "",
	"kafka_order_changed_topic": "order.changed",
	"backlog_job_schedule":      jobs.DefaultBacklogSchedule,
	"tracing_enabled":           false,
	"log_level":                 "info",
}

// LoadConfig reads envFile (when it exists) into the process environment,
// then resolves every key from the environment with defaults applied.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []error

	if c.HTTPPort == "" {
		problems = append(problems, errors.New("HTTP_PORT is required"))
	}
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			problems = append(problems, errors.New("DB_HOST and DB_NAME are required for the postgres storage driver"))
		}
	case StorageDriverMemory:
	default:
		problems = append(problems, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.APIKey == "" {
		problems = append(problems, errors.New("APIKEY is required"))
	}
	if c.DistanceTimeout <= 0 {
		problems = append(problems, fmt.Errorf("DISTANCE_TIMEOUT must be positive, got %s", c.DistanceTimeout))
	}
	if c.RedisAddr != "" && c.DistanceCacheTTL <= 0 {
		problems = append(problems, fmt.Errorf("DISTANCE_CACHE_TTL must be positive, got %s", c.DistanceCacheTTL))
	}
	if c.KafkaHost != "" && c.KafkaOrderChangedTopic == "" {
		problems = append(problems, errors.New("KAFKA_ORDER_CHANGED_TOPIC is required when KAFKA_HOST is set"))
	}

	return errors.Join(problems...)
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KAFKA_HOST on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
