// Package config loads the service configuration from file and environment
// and the naming vocabulary tables from YAML, with optional hot reload.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/benzenoid/nomenclator/internal/infrastructure/cache"
	"github.com/benzenoid/nomenclator/internal/infrastructure/monitoring/logging"
	"github.com/benzenoid/nomenclator/pkg/errors"
)

// ServerConfig holds the HTTP wrapper settings.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Mode selects the gin mode: "release" (default) or "debug".
	Mode string `yaml:"mode" mapstructure:"mode"`

	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ChemistryConfig tunes structure perception.
type ChemistryConfig struct {
	// AromaticityThreshold is the fraction of aromatic atoms or bonds a ring
	// needs to classify as aromatic; <= 0 selects the built-in default.
	AromaticityThreshold float64 `yaml:"aromaticity_threshold" mapstructure:"aromaticity_threshold"`
}

// TablesConfig points at the vocabulary tables.
type TablesConfig struct {
	// Path is the YAML tables file; empty means the built-in tables.
	Path string `yaml:"path" mapstructure:"path"`

	// Watch enables hot reload of the tables file.
	Watch bool `yaml:"watch" mapstructure:"watch"`
}

// Config is the root configuration.
type Config struct {
	Log       logging.Config  `yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Cache     cache.Config    `yaml:"cache" mapstructure:"cache"`
	Chemistry ChemistryConfig `yaml:"chemistry" mapstructure:"chemistry"`
	Tables    TablesConfig    `yaml:"tables" mapstructure:"tables"`
}

// Load reads the configuration: defaults, then the YAML file at path (if
// non-empty), then NOMEN_* environment variables, later sources winning.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NOMEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidParam, "read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidParam, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_paths", []string{"stderr"})

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.key_prefix", "nomen:")

	v.SetDefault("chemistry.aromaticity_threshold", 0.0)

	v.SetDefault("tables.path", "")
	v.SetDefault("tables.watch", false)
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.InvalidParam("server.addr must not be empty")
	}
	if t := c.Chemistry.AromaticityThreshold; t < 0 || t > 1 {
		return errors.InvalidParam("chemistry.aromaticity_threshold must be in [0, 1]")
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return errors.InvalidParam("cache.addr required when the cache is enabled")
	}
	return nil
}
