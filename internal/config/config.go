package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// DefaultRoom is joined when a join frame names no room.
	DefaultRoom string `mapstructure:"default_room" yaml:"default_room"`
	// HistoryCap bounds the in-memory message log.
	HistoryCap int `mapstructure:"history_cap" yaml:"history_cap"`
	// HistoryPageLimit is the history page size when a request names none.
	HistoryPageLimit int `mapstructure:"history_page_limit" yaml:"history_page_limit"`
	// ClientBuffer sizes the per-connection command/event channels.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`
	// WSRateLimit caps inbound frames per connection per minute; 0 disables.
	WSRateLimit int `mapstructure:"ws_rate_limit" yaml:"ws_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DefaultRoom:       "general",
		HistoryCap:        100,
		HistoryPageLimit:  10,
		ClientBuffer:      8,
		WSRateLimit:       0,
	}
}
