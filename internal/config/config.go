// Package config loads cardrip settings. Sources are applied in order:
// built-in defaults, the TOML config file, a .env file, then CARDRIP_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const envPrefix = "CARDRIP_"

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config represents the application configuration
type Config struct {
	BaseURL           string   `toml:"base_url"`
	UserAgent         string   `toml:"user_agent"`
	Timeout           Duration `toml:"timeout"`
	RequestsPerSecond float64  `toml:"requests_per_second"`

	CacheDir string   `toml:"cache_dir"`
	CacheTTL Duration `toml:"cache_ttl"` // zero keeps pages forever

	OutputDir    string `toml:"output_dir"`
	OutputFormat string `toml:"output_format"`

	RegistryFile string   `toml:"registry_file"`
	Schedule     string   `toml:"schedule"`
	WatchSets    []string `toml:"watch_sets"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BaseURL:           "https://gatherer.wizards.com",
		Timeout:           Duration{30 * time.Second},
		RequestsPerSecond: 2,
		CacheDir:          filepath.Join(os.TempDir(), "cardrip"),
		OutputDir:         ".",
		OutputFormat:      FormatJSON,
		Schedule:          "0 4 * * *",
	}
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardrip", "config.toml")
}

// Load builds the configuration. An empty path means the XDG config file,
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = GetConfigFilePath()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	}

	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookup("BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok := lookup("USER_AGENT"); ok {
		c.UserAgent = v
	}
	if v, ok := lookup("TIMEOUT"); ok {
		if err := c.Timeout.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
	}
	if v, ok := lookup("REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %sREQUESTS_PER_SECOND: %w", envPrefix, err)
		}
		c.RequestsPerSecond = rps
	}
	if v, ok := lookup("CACHE_DIR"); ok {
		c.CacheDir = v
	}
	if v, ok := lookup("CACHE_TTL"); ok {
		if err := c.CacheTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sCACHE_TTL: %w", envPrefix, err)
		}
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := lookup("OUTPUT_FORMAT"); ok {
		c.OutputFormat = strings.ToLower(v)
	}
	if v, ok := lookup("REGISTRY_FILE"); ok {
		c.RegistryFile = v
	}
	if v, ok := lookup("SCHEDULE"); ok {
		c.Schedule = v
	}
	if v, ok := lookup("WATCH_SETS"); ok {
		c.WatchSets = splitList(v)
	}
	return nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// splitList splits a comma-separated list of set names. Set names contain
// spaces but never commas.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration)
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %g", c.RequestsPerSecond)
	}
	if c.CacheTTL.Duration < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL.Duration)
	}
	switch c.OutputFormat {
	case FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("unknown output_format %q (want %s or %s)", c.OutputFormat, FormatJSON, FormatCSV)
	}
	return nil
}
