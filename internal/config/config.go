package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidAdvanceDelay         = errors.New("quiz advance delay must be positive")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`            // current application environment (local, dev, production)
	TelegramAPIToken string   `mapstructure:"-"`              // Telegram API token loaded from environment
	QuestionsPath    string   `mapstructure:"questions_path"` // optional JSON question bank; empty means built-in flags
	Quiz             Quiz     `mapstructure:"quiz"`           // quiz engine section
	HTTP             HTTP     `mapstructure:"http"`           // HTTP API section
	Telegram         Telegram `mapstructure:"telegram"`       // Telegram client section
}

// Quiz contains quiz engine parameters.
type Quiz struct {
	AdvanceDelay time.Duration `mapstructure:"advance_delay"` // pause between an answer and the next question
}

// HTTP contains HTTP API parameters.
type HTTP struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Telegram contains Telegram client parameters.
type Telegram struct {
	Debug          bool `mapstructure:"debug"`
	UpdatesTimeout int  `mapstructure:"updates_timeout"` // long polling timeout in seconds
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A missing .env file is not an error, variables may come from the real environment.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("questions_path", "")
	v.SetDefault("quiz.advance_delay", "1s")
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", "5s")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.updates_timeout", 60)
}

func fromViper(v *viper.Viper) (*Config, error) {
	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if cfg.Quiz.AdvanceDelay <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAdvanceDelay, cfg.Quiz.AdvanceDelay)
	}

	return &cfg, nil
}

// IsProduction reports whether the application runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
