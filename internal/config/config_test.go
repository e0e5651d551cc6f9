package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sprout/internal/common"
	"github.com/Veraticus/sprout/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/data", "sprout", "sprout.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, model.CurrencyUSD, cfg.Currency())
	assert.False(t, cfg.Demo.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/ledger.db
logging:
  level: debug
  format: json
profile:
  currency: eur
demo:
  enabled: true
`)

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, model.CurrencyEUR, cfg.Currency())
	assert.True(t, cfg.Demo.Enabled)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  path: /tmp/from-file.db\n")
	t.Setenv("SPROUT_DATABASE_PATH", "$HOME/from-env.db")
	t.Setenv("SPROUT_PROFILE_CURRENCY", "GBP")
	t.Setenv("HOME", "/home/tester")

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/home/tester/from-env.db", cfg.Database.Path)
	assert.Equal(t, model.CurrencyGBP, cfg.Currency())
}

func TestInitRejectsBrokenFile(t *testing.T) {
	path := writeConfig(t, "database: [unclosed\n")

	err := Init(viper.New(), path)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Path: "/tmp/sprout.db"},
			Logging:  LoggingConfig{Level: "info", Format: "console"},
			Profile:  ProfileConfig{Currency: "USD"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing database path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "unknown log format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "unsupported currency", mutate: func(c *Config) { c.Profile.Currency = "XYZ" }},
	}

	cfg := valid()
	require.NoError(t, cfg.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("SPROUT_TEST_DIR", "/srv")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: "/home/tester"},
		{input: "~/ledger.db", want: "/home/tester/ledger.db"},
		{input: "$SPROUT_TEST_DIR/ledger.db", want: "/srv/ledger.db"},
		{input: "/abs/ledger.db", want: "/abs/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("XDG_DATA_HOME", "")

	assert.Equal(t, "/home/tester/.local/share/sprout/sprout.db", DefaultDatabasePath())
}
