package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/paycheck/config"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestDefaultConfig_MatchesPayrollDefaults(t *testing.T) {
	cfg := config.DefaultConfig()

	rules := cfg.TaxRules()
	defaults := payroll.DefaultTaxRules()
	assert.True(t, rules.HealthRate.Equal(defaults.HealthRate))
	assert.True(t, rules.SocialRate.Equal(defaults.SocialRate))
	assert.True(t, rules.TaxRate.Equal(defaults.TaxRate))
	assert.True(t, rules.TaxCredit.Equal(defaults.TaxCredit))
	assert.Equal(t, payroll.DefaultSchedule(), cfg.Schedule())

	// Scenario C through the configured projector
	assert.True(t, cfg.Projector().NetPayForMonth(1, payroll.DefaultProfile()).Equal(generic.NewAmountFromInt(44223)))
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090

[store]
driver = "jsonfile"
data_dir = "/tmp/budgets"

[tax]
health_rate = 0.05
social_rate = 0.07
tax_rate = 0.2
tax_credit = 3000

[payday]
day = 25
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, config.DriverJSONFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/budgets", cfg.Store.DataDir)
	assert.Equal(t, "0.2", cfg.TaxRules().TaxRate.String())
	assert.Equal(t, 25, cfg.Schedule().Day)
	// untouched sections keep defaults
	assert.Equal(t, "1 0 * * *", cfg.Refresh.Schedule)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9090
`)
	t.Setenv("PAYCHECK_PORT", "7070")
	t.Setenv("PAYCHECK_STORE", "memory")
	t.Setenv("PAYCHECK_JWT_SECRET", "s3cret")
	t.Setenv("PAYCHECK_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown driver", "[store]\ndriver = \"postgres\"", "store.driver"},
		{"rate above one", "[tax]\ntax_rate = 1.5", "tax.tax_rate"},
		{"negative rate", "[tax]\nhealth_rate = -0.1", "tax.health_rate"},
		{"payday day 31", "[payday]\nday = 31", "payday.day"},
		{"payday day 28", "[payday]\nday = 28", "payday.day"},
		{"payday day 27", "[payday]\nday = 27", "payday.day"},
		{"bad cron", "[refresh]\nschedule = \"every day\"", "refresh.schedule"},
		{"bad port", "[server]\nport = 0", "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))

			var verr *generic.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoad_AcceptsLatestPaydayDay(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "[payday]\nday = 26"))
	require.NoError(t, err)
	assert.Equal(t, 26, cfg.Schedule().Day)
}

func TestLoad_MalformedTOML(t *testing.T) {
	_, err := config.Load(writeConfig(t, "[server\nport = "))
	assert.ErrorContains(t, err, "parsing config")
}

func TestLoad_NonNumericPortEnv(t *testing.T) {
	t.Setenv("PAYCHECK_PORT", "eighty")
	_, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, generic.ErrValidation)
}

func TestSave_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := config.DefaultConfig()
	cfg.Store.Driver = config.DriverMemory
	cfg.Payday.Day = 15

	require.NoError(t, config.Save(path, cfg))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestNewLogger(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	var buf bytes.Buffer
	log, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.WithField("user", "alice").Warn("hello")
	assert.Contains(t, buf.String(), `"user":"alice"`)

	cfg.Log.Level = "loud"
	_, err = cfg.NewLogger(&buf)
	assert.Error(t, err)
}
