package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

// EnvPrefix namespaces environment overrides, e.g. SPROUT_DATABASE_PATH.
const EnvPrefix = "SPROUT"

// Config is the resolved application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Profile  ProfileConfig  `mapstructure:"profile"`
	Backup   BackupConfig   `mapstructure:"backup"`
	Demo     DemoConfig     `mapstructure:"demo"`
}

// DatabaseConfig locates the ledger file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls the global slog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProfileConfig holds display defaults used before a profile exists.
type ProfileConfig struct {
	Currency string `mapstructure:"currency"`
}

// BackupConfig holds defaults for backup files.
type BackupConfig struct {
	Dir string `mapstructure:"dir"`
}

// DemoConfig seeds sample data on first start when enabled.
type DemoConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults registers every key with its default so that environment
// overrides are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("profile.currency", string(model.CurrencyUSD))
	v.SetDefault("backup.dir", ".")
	v.SetDefault("demo.enabled", false)
}

// Init prepares v to read configuration. An explicit cfgFile wins over the
// standard search locations. A .env file in the working directory is loaded
// into the environment first when present.
func Init(v *viper.Viper, cfgFile string) error {
	// Optional, so a missing .env is fine
	_ = godotenv.Load()

	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("%w: failed to read config: %w", common.ErrInvalidConfig, err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return nil
}

// Load resolves the configuration held by v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(strings.TrimSpace(cfg.Database.Path))
	cfg.Backup.Dir = ExpandPath(cfg.Backup.Dir)
	cfg.Profile.Currency = strings.ToUpper(cfg.Profile.Currency)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be fixed up silently.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: logging.format must be console or json, got %q", common.ErrInvalidConfig, c.Logging.Format)
	}
	if !model.CurrencyCode(c.Profile.Currency).Valid() {
		return fmt.Errorf("%w: unsupported currency %q", common.ErrInvalidConfig, c.Profile.Currency)
	}
	return nil
}

// Currency returns the configured display currency.
func (c *Config) Currency() model.CurrencyCode {
	return model.CurrencyCode(c.Profile.Currency)
}
