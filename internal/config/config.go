package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	ModeWebhook = "webhook"
	ModePolling = "polling"

	ProviderYahoo    = "yahoo"
	ProviderVsTrader = "vstrader"
	ProviderMock     = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Mode     string `yaml:"mode"`
		APIBase  string `yaml:"api_base"`
	} `yaml:"telegram"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		Provider string        `yaml:"provider"`
		BaseURL  string        `yaml:"base_url"`
		APIKey   string        `yaml:"api_key"`
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"data_source"`
	Chart struct {
		Width          int `yaml:"width"`
		Height         int `yaml:"height"`
		DonchianWindow int `yaml:"donchian_window"`
		DefaultDays    int `yaml:"default_days"`
	} `yaml:"chart"`
	Batch struct {
		Delay time.Duration `yaml:"delay"`
	} `yaml:"batch"`
	Watchlist struct {
		File string `yaml:"file"`
	} `yaml:"watchlist"`
	Schedule struct {
		DigestCron   string `yaml:"digest_cron"`
		DigestChatID int64  `yaml:"digest_chat_id"`
		DigestDays   int    `yaml:"digest_days"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// envOverrides lists the environment variables that win over the YAML file.
// Unset variables leave the file value alone.
type envOverrides struct {
	BotToken      string        `envconfig:"BOT_TOKEN"`
	Port          string        `envconfig:"PORT"`
	TelegramMode  string        `envconfig:"TELEGRAM_MODE"`
	WatchlistFile string        `envconfig:"WATCHLIST_FILE"`
	SQLitePath    string        `envconfig:"SQLITE_PATH"`
	Proxy         string        `envconfig:"HTTPS_PROXY"`
	DigestCron    string        `envconfig:"DIGEST_CRON"`
	DigestChatID  int64         `envconfig:"DIGEST_CHAT_ID"`
	LogLevel      string        `envconfig:"LOG_LEVEL"`
	BatchDelay    time.Duration `envconfig:"BATCH_DELAY"`
	DataProvider  string        `envconfig:"DATA_PROVIDER"`
	VsTraderURL   string        `envconfig:"VSTRADER_BASE_URL"`
	VsTraderKey   string        `envconfig:"VSTRADER_API_KEY"`
}

// Load reads config from a YAML file, then a .env file, then applies
// environment variable overrides and defaults.
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

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	cfg.applyEnv(env)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(env envOverrides) {
	setString(&c.Telegram.BotToken, env.BotToken)
	setString(&c.Telegram.Mode, env.TelegramMode)
	setString(&c.Server.Port, env.Port)
	setString(&c.Watchlist.File, env.WatchlistFile)
	setString(&c.Database.SQLitePath, env.SQLitePath)
	setString(&c.Proxy, env.Proxy)
	setString(&c.Schedule.DigestCron, env.DigestCron)
	setString(&c.Log.Level, env.LogLevel)
	setString(&c.DataSource.Provider, env.DataProvider)
	setString(&c.DataSource.BaseURL, env.VsTraderURL)
	setString(&c.DataSource.APIKey, env.VsTraderKey)
	if env.DigestChatID != 0 {
		c.Schedule.DigestChatID = env.DigestChatID
	}
	if env.BatchDelay > 0 {
		c.Batch.Delay = env.BatchDelay
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Telegram.Mode == "" {
		c.Telegram.Mode = ModeWebhook
	}
	if c.Telegram.APIBase == "" {
		c.Telegram.APIBase = "https://api.telegram.org"
	}
	if c.Server.Port == "" {
		c.Server.Port = "5000"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
	}
	if c.DataSource.CacheTTL == 0 {
		c.DataSource.CacheTTL = 10 * time.Minute
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 1600
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 800
	}
	if c.Chart.DonchianWindow == 0 {
		c.Chart.DonchianWindow = 20
	}
	if c.Chart.DefaultDays == 0 {
		c.Chart.DefaultDays = 180
	}
	if c.Batch.Delay == 0 {
		c.Batch.Delay = 500 * time.Millisecond
	}
	if c.Watchlist.File == "" {
		c.Watchlist.File = "watchlist.json"
	}
	if c.Schedule.DigestDays == 0 {
		c.Schedule.DigestDays = c.Chart.DefaultDays
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token (BOT_TOKEN) is required")
	}
	switch c.Telegram.Mode {
	case ModeWebhook, ModePolling:
	default:
		return fmt.Errorf("telegram.mode must be %q or %q, got %q", ModeWebhook, ModePolling, c.Telegram.Mode)
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the vstrader provider")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive")
	}
	if c.Chart.DefaultDays <= 0 {
		return fmt.Errorf("chart.default_days must be positive")
	}
	if c.Schedule.DigestCron != "" && c.Schedule.DigestChatID == 0 {
		return fmt.Errorf("schedule.digest_chat_id (DIGEST_CHAT_ID) is required when digest_cron is set")
	}
	return nil
}
