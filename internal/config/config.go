package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Classify  ClassifyConfig  `yaml:"classify" mapstructure:"classify"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Mail      MailConfig      `yaml:"mail" mapstructure:"mail"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures the tweet search phase.
type SearchConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	WindowHours    int     `yaml:"window_hours" mapstructure:"window_hours"`
	MaxResults     int     `yaml:"max_results" mapstructure:"max_results"`
	CooldownSecs   int     `yaml:"cooldown_secs" mapstructure:"cooldown_secs"`
	RatePerSec     float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	KeywordFile    string  `yaml:"keyword_file" mapstructure:"keyword_file"`
	AccountFile    string  `yaml:"account_file" mapstructure:"account_file"`
	MaxComboLength int     `yaml:"max_combo_length" mapstructure:"max_combo_length"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ClassifyConfig configures the two-stage incident classifier.
type ClassifyConfig struct {
	MinScore   int `yaml:"min_score" mapstructure:"min_score"`
	MinTextLen int `yaml:"min_text_len" mapstructure:"min_text_len"`
}

// StoreConfig configures the incident persistence backend.
type StoreConfig struct {
	Driver    string `yaml:"driver" mapstructure:"driver"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
}

// ExportConfig configures the bulk-upload endpoint.
type ExportConfig struct {
	UploadURL string `yaml:"upload_url" mapstructure:"upload_url"`
}

// MailConfig holds SMTP delivery settings for run reports.
type MailConfig struct {
	Host       string   `yaml:"host" mapstructure:"host"`
	Port       int      `yaml:"port" mapstructure:"port"`
	From       string   `yaml:"from" mapstructure:"from"`
	Password   string   `yaml:"password" mapstructure:"password"`
	Recipients []string `yaml:"recipients" mapstructure:"recipients"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FIREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.base_url", "https://api.twitterapi.io")
	v.SetDefault("search.window_hours", 72)
	v.SetDefault("search.max_results", 20)
	v.SetDefault("search.cooldown_secs", 60)
	v.SetDefault("search.rate_per_sec", 10)
	v.SetDefault("search.timeout_secs", 30)
	v.SetDefault("search.max_combo_length", 3)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("classify.min_score", 5)
	v.SetDefault("classify.min_text_len", 20)
	v.SetDefault("store.driver", "json")
	v.SetDefault("store.output_dir", "output")
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
