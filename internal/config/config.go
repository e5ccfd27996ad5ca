package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		// AllowedChatID restricts the bot to one chat; 0 allows any chat.
		AllowedChatID int64 `yaml:"allowed_chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Mode             string `yaml:"mode"` // "yahoo" or "static"
		MarketSymbol     string `yaml:"market_symbol"`
		VolatilitySymbol string `yaml:"volatility_symbol"`
		TimeoutSeconds   int    `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Schedule struct {
		SnapshotCron string `yaml:"snapshot_cron"`
	} `yaml:"schedule"`
	Advisor struct {
		DefaultAge       int     `yaml:"default_age"`
		AnnualGrowthRate float64 `yaml:"annual_growth_rate"`
	} `yaml:"advisor"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_ALLOWED_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.AllowedChatID = id
		}
	}
	if v := os.Getenv("DATA_SOURCE_MODE"); v != "" {
		cfg.DataSource.Mode = v
	}
	if v := os.Getenv("MARKET_SYMBOL"); v != "" {
		cfg.DataSource.MarketSymbol = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SNAPSHOT_CRON"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("DEFAULT_AGE"); v != "" {
		if age, err := strconv.Atoi(v); err == nil {
			cfg.Advisor.DefaultAge = age
		}
	}

	// Defaults
	if cfg.DataSource.Mode == "" {
		cfg.DataSource.Mode = "yahoo"
	}
	if cfg.DataSource.MarketSymbol == "" {
		cfg.DataSource.MarketSymbol = "^GSPC"
	}
	if cfg.DataSource.VolatilitySymbol == "" {
		cfg.DataSource.VolatilitySymbol = "^VIX"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 10
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 */15 * * * *"
	}
	if cfg.Advisor.DefaultAge == 0 {
		cfg.Advisor.DefaultAge = 30
	}
	if cfg.Advisor.AnnualGrowthRate == 0 {
		cfg.Advisor.AnnualGrowthRate = 0.07
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/portfolio_pilot.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.DataSource.Mode != "yahoo" && c.DataSource.Mode != "static" {
		return fmt.Errorf("data_source.mode must be \"yahoo\" or \"static\", got %q", c.DataSource.Mode)
	}
	if c.Advisor.DefaultAge < 1 || c.Advisor.DefaultAge > 120 {
		return fmt.Errorf("advisor.default_age must be between 1 and 120")
	}
	if c.Advisor.AnnualGrowthRate <= 0 || c.Advisor.AnnualGrowthRate >= 1 {
		return fmt.Errorf("advisor.annual_growth_rate must be a fraction between 0 and 1")
	}
	return nil
}
