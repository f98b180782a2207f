package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath        = "onetab.db"
	defaultLogLevel      = "info"
	defaultEnrichTimeout = 5 * time.Second
	defaultStatsTop      = 20
)

// Config holds runtime settings for the CLI app.
type Config struct {
	DBPath        string        `yaml:"db_path"`
	LogPath       string        `yaml:"log_path"`
	LogLevel      string        `yaml:"log_level"`
	SearchDomain  bool          `yaml:"search_domain"`
	EnrichTitles  bool          `yaml:"enrich_titles"`
	EnrichTimeout time.Duration `yaml:"enrich_timeout"`
	StatsTop      int           `yaml:"stats_top"`
}

// LoadFromEnv reads the optional YAML file named by ONETAB_CONFIG, then
// applies ONETAB_* environment variables on top and fills defaults.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if path := os.Getenv("ONETAB_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if v := os.Getenv("ONETAB_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ONETAB_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("ONETAB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ONETAB_SEARCH_DOMAIN"); v != "" {
		b, err := parseBool("ONETAB_SEARCH_DOMAIN", v)
		if err != nil {
			return Config{}, err
		}
		cfg.SearchDomain = b
	}
	if v := os.Getenv("ONETAB_ENRICH_TITLES"); v != "" {
		b, err := parseBool("ONETAB_ENRICH_TITLES", v)
		if err != nil {
			return Config{}, err
		}
		cfg.EnrichTitles = b
	}
	if v := os.Getenv("ONETAB_ENRICH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("ONETAB_ENRICH_TIMEOUT must be a duration: %s", v)
		}
		cfg.EnrichTimeout = d
	}
	if v := os.Getenv("ONETAB_STATS_TOP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("ONETAB_STATS_TOP must be a number: %s", v)
		}
		cfg.StatsTop = n
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file without applying defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.EnrichTimeout == 0 {
		c.EnrichTimeout = defaultEnrichTimeout
	}
	if c.StatsTop == 0 {
		c.StatsTop = defaultStatsTop
	}
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.EnrichTimeout <= 0 {
		return fmt.Errorf("EnrichTimeout must be positive: %s", c.EnrichTimeout)
	}
	if c.StatsTop < 1 {
		return fmt.Errorf("StatsTop must be at least 1: %d", c.StatsTop)
	}
	return nil
}

func parseBool(name, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s must be a boolean: %s", name, raw)
}
