package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. SKYCAT_DB.
const EnvPrefix = "SKYCAT"

// DefaultResolverURL queries SIMBAD by identifier with plain-text output.
const DefaultResolverURL = "https://simbad.cds.unistra.fr/simbad/sim-id?output.format=ASCII&Ident=%s"

// Config holds runtime configuration for skycat.
// Values are populated from .skycat.yaml, .env, SKYCAT_* env vars and CLI flags.
type Config struct {
	DBPath      string  `mapstructure:"db"`
	Addr        string  `mapstructure:"addr"`
	LogLevel    string  `mapstructure:"log_level"`
	LogFormat   string  `mapstructure:"log_format"`
	MatchRadius float64 `mapstructure:"match_radius"`
	ResolverURL string  `mapstructure:"resolver_url"`
	WatchFile   string  `mapstructure:"watch_file"`
}

// DefaultDBPath is ~/.skycat/skycat.db, or ./skycat.db without a home.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "skycat.db"
	}
	return filepath.Join(home, ".skycat", "skycat.db")
}

// LoadDotEnv reads KEY=value pairs from the given files (default ".env")
// into the process environment without overriding variables already set.
// Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from viper, applying defaults for any values not
// set by config file, environment or flags.
func Load() (Config, error) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("db", DefaultDBPath())
	viper.SetDefault("addr", ":8080")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "text")
	viper.SetDefault("match_radius", 5.0)
	viper.SetDefault("resolver_url", DefaultResolverURL)
	viper.SetDefault("watch_file", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at use.
func (c Config) Validate() error {
	if c.MatchRadius <= 0 {
		return fmt.Errorf("match_radius must be positive, got %v", c.MatchRadius)
	}
	if strings.Count(c.ResolverURL, "%s") != 1 {
		return fmt.Errorf("resolver_url must contain exactly one %%s: %q", c.ResolverURL)
	}
	if c.DBPath == "" {
		return errors.New("db path is empty")
	}
	return nil
}
