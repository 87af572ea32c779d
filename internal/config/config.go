package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Database    DatabaseConfig    `mapstructure:"database"`
	SQLite      SQLiteConfig      `mapstructure:"sqlite"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Activity    ActivityConfig    `mapstructure:"activity"`
	Reminder    ReminderConfig    `mapstructure:"reminder"`
	Examples    ExamplesConfig    `mapstructure:"examples"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Server      ServerConfig      `mapstructure:"server"`
	Outputs     OutputsConfig     `mapstructure:"outputs"`
	Templates   TemplatesConfig   `mapstructure:"templates"`
}

type StorageConfig struct {
	Backend   string `mapstructure:"backend" validate:"oneof=file memory mysql sqlite redis"`
	Directory string `mapstructure:"directory"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
	Prefix   string `mapstructure:"prefix"`
}

type ActivityConfig struct {
	StorageKey  string `mapstructure:"storage_key" validate:"required"`
	Timezone    string `mapstructure:"timezone" validate:"omitempty,timezone"`
	WeekStart   string `mapstructure:"week_start" validate:"oneof=sunday monday tuesday wednesday thursday friday saturday"`
	HeatmapDays int    `mapstructure:"heatmap_days" validate:"gte=7,lte=3660"`
}

// Location returns the configured time zone, or the local time zone when none is set.
func (c ActivityConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("time.LoadLocation(%s) > %w", c.Timezone, err)
	}
	return loc, nil
}

func (c ActivityConfig) WeekStartDay() time.Weekday {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), c.WeekStart) {
			return day
		}
	}
	return time.Sunday
}

type ReminderConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Times         []string `mapstructure:"times" validate:"dive,hhmm"`
	DailyGoal     int      `mapstructure:"daily_goal" validate:"gte=0"`
	StreakEnabled bool     `mapstructure:"streak_enabled"`
	Title         string   `mapstructure:"title"`
	Message       string   `mapstructure:"message"`
	Notifier      string   `mapstructure:"notifier" validate:"oneof=console desktop"`
}

type ExamplesConfig struct {
	Provider       string `mapstructure:"provider" validate:"oneof=openai huggingface"`
	Count          int    `mapstructure:"count" validate:"gte=1,lte=10"`
	CacheDirectory string `mapstructure:"cache_directory"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type HuggingFaceConfig struct {
	APIToken string `mapstructure:"api_token"`
	Model    string `mapstructure:"model"`
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=0,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

type TemplatesConfig struct {
	ReportTemplate string `mapstructure:"report_template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	envFile    string
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	envFile := ".env"
	if configFile != "" {
		v.SetConfigFile(configFile)
		envFile = filepath.Join(filepath.Dir(configFile), ".env")
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studytracker")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		envFile:    envFile,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// Variables already set in the environment win over the .env file
	if err := godotenv.Load(loader.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", loader.envFile, err)
	}

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.directory", filepath.Join("data", "storage"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")
	v.SetDefault("sqlite.path", filepath.Join("data", "studytracker.db"))
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.prefix", "studytracker:")
	v.SetDefault("activity.storage_key", "anki_study_activity")
	v.SetDefault("activity.week_start", "sunday")
	v.SetDefault("activity.heatmap_days", 365)
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.times", []string{"09:00", "14:00", "19:00"})
	v.SetDefault("reminder.daily_goal", 20)
	v.SetDefault("reminder.streak_enabled", true)
	v.SetDefault("reminder.title", "Study Reminder")
	v.SetDefault("reminder.message", "You have reviewed {cards} of {goal} cards today.")
	v.SetDefault("reminder.notifier", "console")
	v.SetDefault("examples.provider", "openai")
	v.SetDefault("examples.count", 3)
	v.SetDefault("examples.cache_directory", filepath.Join("data", "cache", "examples"))
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("huggingface.model", "gpt2")
	v.SetDefault("huggingface.base_url", "https://api-inference.huggingface.co")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("outputs.report_directory", filepath.Join("outputs", "reports"))
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("templates.report_template", "")

	// Bind API credentials to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}
	if err := v.BindEnv("huggingface.api_token", "HF_API_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind HF_API_TOKEN environment variable: %w", err)
	}

	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
