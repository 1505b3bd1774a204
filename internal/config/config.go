package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"TrendSentinel/internal/channel"
	"TrendSentinel/internal/engine"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Exchange string `yaml:"exchange"` // "binance" (default) or "okx"
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
	} `yaml:"data_source"`
	Schedule struct {
		PollCron  string `yaml:"poll_cron"`
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Engine struct {
		UtBotKey             float64 `yaml:"utbot_key"`
		AtrPeriodUtBot       int     `yaml:"atr_period_utbot"`
		UseHeikinAshiSource  bool    `yaml:"use_heikin_ashi_source"`
		ChannelType          string  `yaml:"channel_type"`
		ChannelLength        int     `yaml:"channel_length"`
		BBStdDevMultiplier   float64 `yaml:"bb_stddev_multiplier"`
		PivotLookback        int     `yaml:"pivot_lookback"`
		AtrPeriodChannel     int     `yaml:"atr_period_channel"`
		AtrMultiplierChannel float64 `yaml:"atr_multiplier_channel"`
		UseWicksForBreakout  bool    `yaml:"use_wicks_for_breakout"`
	} `yaml:"engine"`
	Position struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"position"`
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
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("EXCHANGE"); v != "" {
		cfg.DataSource.Exchange = v
	}
	if v := os.Getenv("EXCHANGE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("EXCHANGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		cfg.DataSource.Interval = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_POLL"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("UTBOT_KEY"); v != "" {
		if key, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.UtBotKey = key
		}
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Exchange == "" {
		cfg.DataSource.Exchange = "binance"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "BTCUSDT"
	}
	if cfg.DataSource.Interval == "" {
		cfg.DataSource.Interval = "1h"
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "0 1 * * * *" // one minute past every hour
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 0 8 * * *"
	}
	if cfg.Engine.UtBotKey == 0 {
		cfg.Engine.UtBotKey = 1.0
	}
	if cfg.Engine.AtrPeriodUtBot == 0 {
		cfg.Engine.AtrPeriodUtBot = 10
	}
	if cfg.Engine.ChannelType == "" {
		cfg.Engine.ChannelType = string(channel.Bollinger)
	}
	if cfg.Engine.ChannelLength == 0 {
		cfg.Engine.ChannelLength = 20
	}
	if cfg.Engine.BBStdDevMultiplier == 0 {
		cfg.Engine.BBStdDevMultiplier = 2.0
	}
	if cfg.Engine.PivotLookback == 0 {
		cfg.Engine.PivotLookback = 5
	}
	if cfg.Engine.AtrPeriodChannel == 0 {
		cfg.Engine.AtrPeriodChannel = 10
	}
	if cfg.Engine.AtrMultiplierChannel == 0 {
		cfg.Engine.AtrMultiplierChannel = 1.0
	}
	if cfg.Position.StateFile == "" {
		cfg.Position.StateFile = "data/position_state.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trend_sentinel.db"
	}
}

// Validate checks that all required fields are set and well-formed.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	if c.DataSource.Exchange != "binance" && c.DataSource.Exchange != "okx" {
		return fmt.Errorf("data_source.exchange must be binance or okx, got %q", c.DataSource.Exchange)
	}
	if _, err := c.EngineParams(); err != nil {
		return err
	}
	return nil
}

// EngineParams converts the engine config section into engine parameters,
// rejecting invalid values rather than clamping them.
func (c *Config) EngineParams() (engine.Params, error) {
	chType, err := channel.Parse(c.Engine.ChannelType)
	if err != nil {
		return engine.Params{}, fmt.Errorf("engine.channel_type: %w", err)
	}
	p := engine.Params{
		UtBotKey:             c.Engine.UtBotKey,
		AtrPeriodUtBot:       c.Engine.AtrPeriodUtBot,
		UseHeikinAshiSource:  c.Engine.UseHeikinAshiSource,
		ChannelType:          chType,
		ChannelLength:        c.Engine.ChannelLength,
		BBStdDevMultiplier:   c.Engine.BBStdDevMultiplier,
		PivotLookback:        c.Engine.PivotLookback,
		AtrPeriodChannel:     c.Engine.AtrPeriodChannel,
		AtrMultiplierChannel: c.Engine.AtrMultiplierChannel,
		UseWicksForBreakout:  c.Engine.UseWicksForBreakout,
	}
	if p.UtBotKey <= 0 {
		return engine.Params{}, fmt.Errorf("engine.utbot_key must be positive, got %g", p.UtBotKey)
	}
	if p.AtrPeriodUtBot <= 0 {
		return engine.Params{}, fmt.Errorf("engine.atr_period_utbot must be positive, got %d", p.AtrPeriodUtBot)
	}
	if p.ChannelLength <= 0 {
		return engine.Params{}, fmt.Errorf("engine.channel_length must be positive, got %d", p.ChannelLength)
	}
	if p.BBStdDevMultiplier <= 0 {
		return engine.Params{}, fmt.Errorf("engine.bb_stddev_multiplier must be positive, got %g", p.BBStdDevMultiplier)
	}
	if p.PivotLookback <= 0 {
		return engine.Params{}, fmt.Errorf("engine.pivot_lookback must be positive, got %d", p.PivotLookback)
	}
	if p.AtrPeriodChannel <= 0 {
		return engine.Params{}, fmt.Errorf("engine.atr_period_channel must be positive, got %d", p.AtrPeriodChannel)
	}
	if p.AtrMultiplierChannel <= 0 {
		return engine.Params{}, fmt.Errorf("engine.atr_multiplier_channel must be positive, got %g", p.AtrMultiplierChannel)
	}
	return p, nil
}
