// Package config reads the settings of the hoot binaries from the
// environment, optionally seeded from .env files.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "HOOT_LOG_LEVEL"
	EnvLogFormat    = "HOOT_LOG_FORMAT"
	EnvPushTimeout  = "HOOT_PUSH_TIMEOUT"
	EnvDrainTimeout = "HOOT_DRAIN_TIMEOUT"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds the runtime settings. The zero value is not useful, use Load.
type Config struct {
	LogLevel     slog.Level
	LogFormat    string
	PushTimeout  time.Duration
	DrainTimeout time.Duration
}

// Load reads the configuration from the process environment. Values from
// envFiles fill in variables the environment leaves empty; later files do not
// override earlier ones.
func Load(envFiles ...string) (Config, error) {
	fromFiles := make(map[string]string)
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range values {
			if _, ok := fromFiles[k]; !ok {
				fromFiles[k] = v
			}
		}
	}
	env := func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := fromFiles[key]; v != "" {
			return v
		}
		return def
	}

	var cfg Config
	if err := cfg.LogLevel.UnmarshalText([]byte(env(EnvLogLevel, "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	cfg.LogFormat = strings.ToLower(env(EnvLogFormat, FormatConsole))
	if cfg.LogFormat != FormatConsole && cfg.LogFormat != FormatJSON {
		return Config{}, fmt.Errorf("invalid %s: %q is neither %s nor %s", EnvLogFormat, cfg.LogFormat, FormatConsole, FormatJSON)
	}

	var err error
	if cfg.PushTimeout, err = duration(EnvPushTimeout, env(EnvPushTimeout, "0s")); err != nil {
		return Config{}, err
	}
	if cfg.DrainTimeout, err = duration(EnvDrainTimeout, env(EnvDrainTimeout, "5s")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func duration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: %s is negative", key, value)
	}
	return d, nil
}

// NewLogger builds a slog logger backed by zerolog, writing to w in the
// configured format.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var zl zerolog.Logger
	if c.LogFormat == FormatJSON {
		zl = zerolog.New(w).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp, NoColor: !isTerminal(w)}
		zl = zerolog.New(output).With().Timestamp().Logger()
	}
	return slog.New(zeroslog.NewHandler(zl, &zeroslog.HandlerOptions{Level: c.LogLevel}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
