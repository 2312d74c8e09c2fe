package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given. Missing is not an error.
const DefaultPath = "showcase.yaml"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Site    SiteConfig    `yaml:"site"`
	Data    DataConfig    `yaml:"data"`
	Tags    TagsConfig    `yaml:"tags"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SiteConfig holds page chrome
type SiteConfig struct {
	Title      string `yaml:"title"`
	Stylesheet string `yaml:"stylesheet"`
}

// DataConfig says where records and media come from
type DataConfig struct {
	// Source is a local path or an http(s) URL pointing at data.json
	Source   string        `yaml:"source"`
	MediaDir string        `yaml:"media_dir"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// TagsConfig controls the dropdown option list
type TagsConfig struct {
	ShowAllLabel   string   `yaml:"show_all_label"`
	PreferredOrder []string `yaml:"preferred_order"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Site: SiteConfig{
			Title:      "Projects",
			Stylesheet: "/media/style.css",
		},
		Data: DataConfig{
			Source:   "data/data.json",
			MediaDir: "data/media",
			Watch:    true,
			Debounce: 250 * time.Millisecond,
		},
		Tags: TagsConfig{
			ShowAllLabel: "Show all",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies env overrides.
// If path is DefaultPath and the file does not exist, defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	// an explicit empty label in the file would leave the reset option blank
	if cfg.Tags.ShowAllLabel == "" {
		cfg.Tags.ShowAllLabel = Default().Tags.ShowAllLabel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SHOWCASE_DATA"); v != "" {
		c.Data.Source = v
	}
	if v := os.Getenv("SHOWCASE_MEDIA_DIR"); v != "" {
		c.Data.MediaDir = v
	}
	if v := os.Getenv("SHOWCASE_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Data.Watch = b
		}
	}
	if v := os.Getenv("SHOWCASE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the server cannot run with. It does not modify c.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr must not be empty")
	}
	if strings.TrimSpace(c.Data.Source) == "" {
		return errors.New("config: data.source must not be empty")
	}
	if c.Data.Debounce < 0 {
		return fmt.Errorf("config: data.debounce must not be negative, got %s", c.Data.Debounce)
	}
	return nil
}

// IsRemote reports whether the data source is fetched over HTTP
func (d DataConfig) IsRemote() bool {
	return strings.HasPrefix(d.Source, "http://") || strings.HasPrefix(d.Source, "https://")
}
