package config

import (
	"time"

	"golang-stock-dashboard/pkg/common"
	"golang-stock-dashboard/pkg/config"
)

// Backend holds the configuration for the analytics backend API.
type Backend struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	UserAgent           string        `mapstructure:"user_agent"`
	Timeframe           string        `mapstructure:"timeframe"`
	Period              string        `mapstructure:"period"`
}

// Session holds the symbol selection settings of the client session.
type Session struct {
	DefaultSymbol         string        `mapstructure:"default_symbol"`
	Presets               []string      `mapstructure:"presets"`
	DefaultExchangeSuffix string        `mapstructure:"default_exchange_suffix"`
	NoticeTTL             time.Duration `mapstructure:"notice_ttl"`
}

// Config holds the full configuration for the dashboard client.
type Config struct {
	App     config.App    `mapstructure:"app"`
	Logger  config.Logger `mapstructure:"logger"`
	Backend Backend       `mapstructure:"backend"`
	Session Session       `mapstructure:"session"`
	HTTP    config.API    `mapstructure:"http"`
}

// Defaults returns the values used for keys missing from both file and environment.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":                        "stock-dashboard",
		"app.env":                         "development",
		"logger.level":                    "info",
		"logger.encoding":                 "json",
		"backend.base_url":                "http://localhost:8001/api",
		"backend.timeout":                 30 * time.Second,
		"backend.max_request_per_minute":  0,
		"backend.user_agent":              "golang-stock-dashboard",
		"backend.timeframe":               common.DefaultTimeframe,
		"backend.period":                  common.DefaultTimeframe,
		"session.default_symbol":          "RELIANCE.NS",
		"session.presets":                 []string{"RELIANCE.NS", "TCS.NS", "INFY.NS", "HDFCBANK.NS", "ICICIBANK.NS", "HINDUNILVR.NS"},
		"session.default_exchange_suffix": common.DefaultExchangeSuffix,
		"session.notice_ttl":              8 * time.Second,
		"http.host":                       "127.0.0.1",
		"http.port":                       8090,
	}
}

// Load loads the dashboard configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg, Defaults()); err != nil {
		return nil, err
	}
	return &cfg, nil
}
