package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap/zapcore"
)

// config holds the settings shared by every subcommand. Values come from
// defaults, then the --config file, then explicitly set flags.
type config struct {
	Format        string `json:"format"`
	LogLevel      string `json:"log_level"`
	Compress      string `json:"compress"`
	MaxInputBytes int64  `json:"max_input_bytes"`
}

const defaultMaxInputBytes = 64 << 20

var (
	formats     = []string{"text", "json", "yaml", "cbor"}
	compressors = []string{"none", "zstd", "lz4"}
)

func defaultConfig() config {
	return config{
		Format:        "text",
		LogLevel:      "warn",
		Compress:      "none",
		MaxInputBytes: defaultMaxInputBytes,
	}
}

// loadConfigFile merges a JSONC file (JSON with comments and trailing
// commas) into cfg. Unknown keys are rejected.
func loadConfigFile(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// globalFlags are registered on every subcommand's flag set.
type globalFlags struct {
	configPath    string
	logLevel      string
	maxInputBytes int64
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.configPath, "config", "", "JSONC config file supplying defaults")
	fs.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.Int64Var(&g.maxInputBytes, "max-input-bytes", 0, "reject inputs larger than this after decompression")
}

// resolve builds the effective config. Flags override the file only when
// set on the command line.
func (g *globalFlags) resolve(fs *pflag.FlagSet) (config, error) {
	cfg := defaultConfig()
	if g.configPath != "" {
		if err := loadConfigFile(g.configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if fs.Changed("max-input-bytes") {
		cfg.MaxInputBytes = g.maxInputBytes
	}
	return cfg, nil
}

func (c config) validate() error {
	if !oneOf(c.Format, formats) {
		return fmt.Errorf("unknown format %q (want one of %v)", c.Format, formats)
	}
	if !oneOf(c.Compress, compressors) {
		return fmt.Errorf("unknown compression %q (want one of %v)", c.Compress, compressors)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("max_input_bytes must be positive, got %d", c.MaxInputBytes)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
