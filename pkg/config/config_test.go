package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("format", "json", "")
	flags.String("date-order", "day_first", "")
	flags.Bool("strict", false, "")
	flags.Bool("summary", false, "")
	return flags
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected defaults %+v, got %+v", *Default(), *cfg)
	}
}

func TestBuildLayers(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "receiptr.yaml")
	content := "format: yaml\ndate_order: day_first\nstrict: true\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	t.Setenv("RECEIPTR_LOG_LEVEL", "debug")

	flags := newFlags()
	if err := flags.Parse([]string{"--date-order", "month_first"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Build(cfgFile, flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cfg.Format != "yaml" {
		t.Errorf("Expected format from file, got %q", cfg.Format)
	}
	if !cfg.Strict {
		t.Errorf("Expected strict from file")
	}
	if cfg.LogLevel != "debug" || cfg.Level() != log.DebugLevel {
		t.Errorf("Expected log level from env, got %q", cfg.LogLevel)
	}
	if cfg.DateOrder != "month_first" {
		t.Errorf("Expected date order from flag, got %q", cfg.DateOrder)
	}
	if len(cfg.ParserOptions()) != 1 {
		t.Errorf("Expected one parser option, got %d", len(cfg.ParserOptions()))
	}
}

func TestBuildMissingFile(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Errorf("Expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"defaults", *Default(), true},
		{"bad format", Config{LogLevel: "info", Format: "xml", DateOrder: "day_first"}, false},
		{"bad level", Config{LogLevel: "loud", Format: "json", DateOrder: "day_first"}, false},
		{"bad date order", Config{LogLevel: "info", Format: "csv", DateOrder: "year_first"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Expected ok=%v, got %v", tt.ok, err)
			}
		})
	}
}
