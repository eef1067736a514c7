package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "NBA_COMEBACK"

type Config struct {
	MarkerFile   string
	DatabaseFile string
	Delay        time.Duration
	Timeout      time.Duration
	WriteMarker  bool
	LogLevel     string
}

// RegisterFlags adds every setting to flags with its default.
func RegisterFlags(flags *flag.FlagSet) {
	flags.String("marker-file", "last_year_scraped.txt", "file holding the last fully scraped year")
	flags.String("db", "playbyplay.db", "sqlite database the score events are written to")
	flags.Duration("delay", time.Second, "spacing between stats.nba.com calls")
	flags.Duration("timeout", 30*time.Second, "timeout of each stats.nba.com call")
	flags.Bool("write-marker", true, "rewrite the marker file after a successful run")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
}

// Load resolves settings from flags, NBA_COMEBACK_* environment variables
// and an optional config.yaml in the working directory, in that order.
func Load(flags *flag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{
		MarkerFile:   v.GetString("marker-file"),
		DatabaseFile: v.GetString("db"),
		Delay:        v.GetDuration("delay"),
		Timeout:      v.GetDuration("timeout"),
		WriteMarker:  v.GetBool("write-marker"),
		LogLevel:     v.GetString("log-level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Delay <= 0 {
		return fmt.Errorf("delay must be positive, got %s", c.Delay)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MarkerFile == "" {
		return errors.New("marker-file must not be empty")
	}
	if c.DatabaseFile == "" {
		return errors.New("db must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Logger writes human readable logs to stderr.
func (c *Config) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
