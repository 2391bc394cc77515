package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken    string       `yaml:"telegram_token"`
	GeminiAPIKey     string       `yaml:"gemini_api_key"`
	GeminiModel      string       `yaml:"gemini_model"`
	AdminTelegramIDs []int64      `yaml:"admin_telegram_ids"`
	DB               DBConfig     `yaml:"database"`
	Redis            RedisConfig  `yaml:"redis"`
	HTTP             HTTPConfig   `yaml:"http"`
	Logger           LoggerConfig `yaml:"logger"`
	Report           ReportConfig `yaml:"report"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"` // "postgres" or "sqlite"
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"` // sqlite file
}

// RedisConfig enables Redis-backed conversation state when Host is set
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTPConfig struct {
	Addr        string   `yaml:"addr"` // empty disables the API
	APIToken    string   `yaml:"api_token"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output"`
	Format     string `yaml:"format"`
}

// LogLevel returns the parsed level
func (c LoggerConfig) LogLevel() logger.LogLevel {
	return logger.ParseLevel(c.Level)
}

// ReportConfig holds report policy
type ReportConfig struct {
	// ExtendMonthToEnd shows the whole calendar month in monthly reports.
	ExtendMonthToEnd bool `yaml:"extend_month_to_end"`
	// Timezone decides which calendar day "today" is.
	Timezone string `yaml:"timezone"`
	// HighScoreThreshold and ProgressThreshold bound the weekly suggestion.
	HighScoreThreshold float64 `yaml:"high_score_threshold"`
	ProgressThreshold  float64 `yaml:"progress_threshold"`
	ChunkSize          int     `yaml:"chunk_size"`
}

// Location loads the configured timezone
func (c ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func defaults() *Config {
	return &Config{
		GeminiModel: "gemini-1.5-flash",
		DB: DBConfig{
			Driver:   "postgres",
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			DBName:   "tinnitus_helper",
			SSLMode:  "disable",
			Path:     "data/tinnitus.db",
		},
		Redis: RedisConfig{Port: "6379"},
		HTTP:  HTTPConfig{Addr: ":8080"},
		Logger: LoggerConfig{
			Level:      "info",
			OutputPath: "stdout",
			Format:     "json",
		},
		Report: ReportConfig{
			Timezone:           "UTC",
			HighScoreThreshold: 7,
			ProgressThreshold:  5,
			ChunkSize:          7,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
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

func (c *Config) applyEnv() error {
	envString("TELEGRAM_BOT_TOKEN", &c.TelegramToken)
	envString("GEMINI_API_KEY", &c.GeminiAPIKey)
	envString("GEMINI_MODEL", &c.GeminiModel)

	envString("DB_DRIVER", &c.DB.Driver)
	envString("DB_HOST", &c.DB.Host)
	envString("DB_PORT", &c.DB.Port)
	envString("DB_USER", &c.DB.User)
	envString("DB_PASSWORD", &c.DB.Password)
	envString("DB_NAME", &c.DB.DBName)
	envString("DB_SSLMODE", &c.DB.SSLMode)
	envString("DB_PATH", &c.DB.Path)

	envString("REDIS_HOST", &c.Redis.Host)
	envString("REDIS_PORT", &c.Redis.Port)
	envString("REDIS_PASSWORD", &c.Redis.Password)

	envString("HTTP_ADDR", &c.HTTP.Addr)
	envString("HTTP_API_TOKEN", &c.HTTP.APIToken)
	if raw := os.Getenv("HTTP_CORS_ORIGINS"); raw != "" {
		c.HTTP.CORSOrigins = splitList(raw)
	}

	envString("LOG_LEVEL", &c.Logger.Level)
	envString("LOG_OUTPUT", &c.Logger.OutputPath)
	envString("LOG_FORMAT", &c.Logger.Format)

	envString("REPORT_TIMEZONE", &c.Report.Timezone)

	var errs []error
	errs = append(errs,
		envInt("REDIS_DB", &c.Redis.DB),
		envBool("REPORT_EXTEND_MONTH_TO_END", &c.Report.ExtendMonthToEnd),
		envFloat("REPORT_HIGH_SCORE_THRESHOLD", &c.Report.HighScoreThreshold),
		envFloat("REPORT_PROGRESS_THRESHOLD", &c.Report.ProgressThreshold),
		envInt("REPORT_CHUNK_SIZE", &c.Report.ChunkSize),
	)

	if raw := os.Getenv("ADMIN_TELEGRAM_IDS"); raw != "" {
		ids, err := parseIDs(raw)
		if err != nil {
			errs = append(errs, err)
		} else {
			c.AdminTelegramIDs = ids
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" && c.HTTP.Addr == "" {
		errs = append(errs, errors.New("either TELEGRAM_BOT_TOKEN or HTTP_ADDR must be set"))
	}
	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case "sqlite":
		if c.DB.Path == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	if c.HTTP.Addr != "" && c.HTTP.APIToken == "" {
		errs = append(errs, errors.New("HTTP_API_TOKEN is required when the HTTP API is enabled"))
	}
	if _, err := c.Report.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.Report.ProgressThreshold > c.Report.HighScoreThreshold {
		errs = append(errs, errors.New("REPORT_PROGRESS_THRESHOLD must not exceed REPORT_HIGH_SCORE_THRESHOLD"))
	}
	if c.Report.ChunkSize <= 0 {
		errs = append(errs, errors.New("REPORT_CHUNK_SIZE must be positive"))
	}
	return errors.Join(errs...)
}

// IsAdmin reports whether the telegram account is configured as an admin
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func envString(key string, dst *string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func envInt(key string, dst *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid %s value: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
