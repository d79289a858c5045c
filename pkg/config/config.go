package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/receiptr/pkg/parser"
)

const envPrefix = "RECEIPTR"

// Formats accepted for output.
var Formats = []string{"json", "yaml", "csv", "pretty"}

type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	Format    string `mapstructure:"format"`
	DateOrder string `mapstructure:"date_order"`
	Strict    bool   `mapstructure:"strict"`
	Summary   bool   `mapstructure:"summary"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"log-level":  "log_level",
	"format":     "format",
	"date-order": "date_order",
	"strict":     "strict",
	"summary":    "summary",
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Format:    "json",
		DateOrder: string(parser.DayFirst),
	}
}

// Build layers, lowest first: defaults, .env, config file, RECEIPTR_*
// environment variables and flags. An empty cfgFile searches for
// config.yaml in the working directory and tolerates its absence.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("format", def.Format)
	v.SetDefault("date_order", def.DateOrder)
	v.SetDefault("strict", def.Strict)
	v.SetDefault("summary", def.Summary)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if !isFormat(c.Format) {
		return fmt.Errorf("invalid format %q: expected one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if _, ok := parser.ParseDateOrder(c.DateOrder); !ok {
		return fmt.Errorf("invalid date_order %q: expected %s or %s", c.DateOrder, parser.DayFirst, parser.MonthFirst)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ParserOptions maps the config onto parser options.
func (c *Config) ParserOptions() []parser.Option {
	order, ok := parser.ParseDateOrder(c.DateOrder)
	if !ok {
		order = parser.DayFirst
	}
	return []parser.Option{parser.WithDateOrder(order)}
}

func isFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
