package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// FileNames are the config file names searched in the project root, in order.
var FileNames = []string{"featureprobe.yaml", "featureprobe.yml", "featureprobe.toml"}

// Config holds the settings of a featureprobe session, decoded from YAML or
// TOML and overridden by FEATUREPROBE_* environment variables.
type Config struct {
	StateDir   string        `yaml:"state_dir" toml:"state_dir"`     // run state, relative to the project root unless absolute
	LogDir     string        `yaml:"log_dir" toml:"log_dir"`         // empty logs to stderr
	LogLevel   string        `yaml:"log_level" toml:"log_level"`     // debug, info, warn, error
	AsyncDelay time.Duration `yaml:"async_delay" toml:"async_delay"` // delay of the async probe, e.g. "500ms"
	Color      string        `yaml:"color" toml:"color"`             // auto, always, never
	Skip       []string      `yaml:"skip" toml:"skip"`               // probe names left out of the table
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() Config {
	return Config{
		StateDir:   filepath.Join(".featureprobe", "run"),
		LogLevel:   "warn",
		AsyncDelay: 500 * time.Millisecond,
		Color:      "auto",
	}
}

// Discover returns the first config file found in dir, or "" if there is none.
func Discover(dir string) string {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the file at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		if path == "" {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
	return nil
}

// FromEnv applies FEATUREPROBE_* overrides to cfg.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("FEATUREPROBE_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("FEATUREPROBE_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("FEATUREPROBE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FEATUREPROBE_ASYNC_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.AsyncDelay = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("FEATUREPROBE_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("FEATUREPROBE_SKIP"); v != "" {
		cfg.Skip = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Skip = append(cfg.Skip, name)
			}
		}
	}
	return cfg
}

// Validate rejects values the rest of the program cannot use.
func (c Config) Validate() error {
	switch c.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.AsyncDelay <= 0 {
		return fmt.Errorf("async_delay must be positive, got %s", c.AsyncDelay)
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir must not be empty")
	}
	return nil
}
