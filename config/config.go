// Package config loads mutedemo settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig    = errors.New("config: failed to parse environment")
	ErrInvalidLogFormat = errors.New("config: invalid log format")
	ErrInvalidLogLevel  = errors.New("config: invalid log level")
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

type Config struct {
	Latency   time.Duration `env:"MUTE_LATENCY" envDefault:"500ms"`  // simulated server reply delay
	Timeout   time.Duration `env:"MUTE_TIMEOUT" envDefault:"3500ms"` // how long mute/unmute wait for the server
	Peers     []string      `env:"MUTE_PEERS" envDefault:"alice,bob" envSeparator:","`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads a .env file from the working directory, if any, then parses the
// environment. Variables already set take precedence over the file.
func Load() (Config, error) {
	// The .env file is optional, but a broken one is an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Logger builds a structured logger writing to w.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q must be %q or %q", ErrInvalidLogFormat, c.LogFormat, FormatText, FormatJSON)
	}
}
