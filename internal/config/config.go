package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"mcpsettings/internal/infra/secrets"
	"mcpsettings/internal/infra/serverstore"
	"mcpsettings/internal/infra/settings"
)

// EnvPrefix is prepended to environment overrides, e.g. MCPSETTINGS_DATADIR.
const EnvPrefix = "MCPSETTINGS"

// Config locates the stores and selects the secret backend.
type Config struct {
	DataDir      string        `mapstructure:"dataDir"`
	ServersFile  string        `mapstructure:"serversFile"`
	SettingsFile string        `mapstructure:"settingsFile"`
	LogLevel     string        `mapstructure:"logLevel"`
	Secrets      SecretsConfig `mapstructure:"secrets"`
}

type SecretsConfig struct {
	Backend string `mapstructure:"backend"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataDir", DefaultDataDir())
	v.SetDefault("serversFile", serverstore.DefaultFileName)
	v.SetDefault("settingsFile", settings.DefaultFileName)
	v.SetDefault("logLevel", "info")
	v.SetDefault("secrets.backend", secrets.BackendKeychain)
}

// Load reads the optional YAML file at path and applies environment overrides.
// An empty path loads defaults only.
func Load(path string) (Config, error) {
	v := newViper()
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		v.SetConfigFile(trimmed)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize lower-cases and trims the secret backend name.
func (c *Config) Normalize() {
	c.Secrets.Backend = normalizeBackend(c.Secrets.Backend)
}

func normalizeBackend(backend string) string {
	return strings.ToLower(strings.TrimSpace(backend))
}

// Validate checks that the store locations are usable.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("dataDir is required"))
	}
	if strings.TrimSpace(c.ServersFile) == "" {
		errs = append(errs, errors.New("serversFile is required"))
	}
	if strings.TrimSpace(c.SettingsFile) == "" {
		errs = append(errs, errors.New("settingsFile is required"))
	}
	switch normalizeBackend(c.Secrets.Backend) {
	case secrets.BackendKeychain, secrets.BackendNone:
	default:
		errs = append(errs, fmt.Errorf("secrets.backend must be %q or %q", secrets.BackendKeychain, secrets.BackendNone))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ServersPath resolves the servers database path. Absolute file names are kept.
func (c Config) ServersPath() string {
	return resolve(c.DataDir, c.ServersFile)
}

// SettingsPath resolves the settings database path.
func (c Config) SettingsPath() string {
	return resolve(c.DataDir, c.SettingsFile)
}

func resolve(dir, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
