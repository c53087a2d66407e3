/*
Package config loads paycheck settings.

PURPOSE:
  One Config shared by the server and the CLI. Values come from, in order
  of precedence:
    1. PAYCHECK_* environment variables
    2. The TOML config file
    3. DefaultConfig()

FILE LOCATION:
  -config flag if given, otherwise $XDG_CONFIG_HOME/paycheck/config.toml
  (~/.config/paycheck/config.toml). A missing file is not an error.

EXAMPLE:
  [server]
  port = 8080
  cors_origins = ["http://localhost:5173"]

  [store]
  driver = "jsonfile"          # sqlite | jsonfile | memory
  data_dir = "./data/budgets"
  passphrase = "..."           # enables age encryption for jsonfile

  [tax]
  health_rate = 0.045
  social_rate = 0.071
  tax_rate = 0.15
  tax_credit = 2570

  [payday]
  day = 8

  [refresh]
  schedule = "1 0 * * *"       # cron, recompute dashboards after midnight

SEE ALSO:
  - logging.go: Logger construction from [log]
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/warp/paycheck/generic"
	"github.com/warp/paycheck/payroll"
)

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverJSONFile = "jsonfile"
	DriverMemory   = "memory"
)

// Config holds all paycheck configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Auth    AuthConfig    `toml:"auth"`
	Log     LogConfig     `toml:"log"`
	Tax     TaxConfig     `toml:"tax"`
	Payday  PaydayConfig  `toml:"payday"`
	Refresh RefreshConfig `toml:"refresh"`
}

type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

type StoreConfig struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	DataDir    string `toml:"data_dir"`
	Passphrase string `toml:"passphrase,omitempty"`
}

// AuthConfig holds the JWT secret. Empty disables auth: every caller is
// the anonymous user.
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret,omitempty"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TaxConfig holds the deduction rates as fractions of gross.
type TaxConfig struct {
	HealthRate float64 `toml:"health_rate"`
	SocialRate float64 `toml:"social_rate"`
	TaxRate    float64 `toml:"tax_rate"`
	TaxCredit  float64 `toml:"tax_credit"`
}

type PaydayConfig struct {
	Day int `toml:"day"`
}

type RefreshConfig struct {
	Schedule string `toml:"schedule"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	rules := payroll.DefaultTaxRules()
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Store: StoreConfig{
			Driver:  DriverSQLite,
			Path:    "./data/paycheck.db",
			DataDir: "./data/budgets",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Tax: TaxConfig{
			HealthRate: rules.HealthRate.InexactFloat64(),
			SocialRate: rules.SocialRate.InexactFloat64(),
			TaxRate:    rules.TaxRate.InexactFloat64(),
			TaxCredit:  rules.TaxCredit.Float64(),
		},
		Payday: PaydayConfig{
			Day: payroll.DefaultPaydayDay,
		},
		Refresh: RefreshConfig{
			Schedule: "1 0 * * *",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "paycheck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "paycheck")
}

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads path (ConfigPath if empty), applies environment overrides and
// validates the result. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

func (c *Config) applyEnv() error {
	if port := os.Getenv("PAYCHECK_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return &generic.ValidationError{Field: "PAYCHECK_PORT", Reason: fmt.Sprintf("%q is not a number", port)}
		}
		c.Server.Port = n
	}
	c.Store.Driver = getEnv("PAYCHECK_STORE", c.Store.Driver)
	c.Store.Path = getEnv("PAYCHECK_DB", c.Store.Path)
	c.Store.DataDir = getEnv("PAYCHECK_DATA_DIR", c.Store.DataDir)
	c.Store.Passphrase = getEnv("PAYCHECK_PASSPHRASE", c.Store.Passphrase)
	c.Auth.JWTSecret = getEnv("PAYCHECK_JWT_SECRET", c.Auth.JWTSecret)
	c.Log.Level = getEnv("PAYCHECK_LOG_LEVEL", c.Log.Level)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &generic.ValidationError{Field: "server.port", Reason: fmt.Sprintf("%d is out of range", c.Server.Port)}
	}
	if !slices.Contains([]string{DriverSQLite, DriverJSONFile, DriverMemory}, c.Store.Driver) {
		return &generic.ValidationError{Field: "store.driver", Reason: fmt.Sprintf("unknown driver %q", c.Store.Driver)}
	}
	if c.Store.Driver == DriverSQLite && c.Store.Path == "" {
		return &generic.ValidationError{Field: "store.path", Reason: "required for the sqlite driver"}
	}
	if c.Store.Driver == DriverJSONFile && c.Store.DataDir == "" {
		return &generic.ValidationError{Field: "store.data_dir", Reason: "required for the jsonfile driver"}
	}

	rates := []struct {
		field string
		value float64
	}{
		{"tax.health_rate", c.Tax.HealthRate},
		{"tax.social_rate", c.Tax.SocialRate},
		{"tax.tax_rate", c.Tax.TaxRate},
	}
	for _, r := range rates {
		if r.value < 0 || r.value >= 1 {
			return &generic.ValidationError{Field: r.field, Reason: "must be in [0, 1)"}
		}
	}
	if c.Tax.TaxCredit < 0 {
		return &generic.ValidationError{Field: "tax.tax_credit", Reason: "must not be negative"}
	}

	if c.Payday.Day < 1 || c.Payday.Day > payroll.MaxPaydayDay {
		return &generic.ValidationError{Field: "payday.day", Reason: fmt.Sprintf("must be between 1 and %d", payroll.MaxPaydayDay)}
	}
	if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
		return &generic.ValidationError{Field: "refresh.schedule", Reason: err.Error()}
	}
	return nil
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// TaxRules converts the [tax] section.
func (c Config) TaxRules() payroll.TaxRules {
	return payroll.TaxRules{
		HealthRate: decimal.NewFromFloat(c.Tax.HealthRate),
		SocialRate: decimal.NewFromFloat(c.Tax.SocialRate),
		TaxRate:    decimal.NewFromFloat(c.Tax.TaxRate),
		TaxCredit:  generic.NewAmount(c.Tax.TaxCredit),
	}
}

// Schedule converts the [payday] section.
func (c Config) Schedule() payroll.Schedule {
	return payroll.Schedule{Day: c.Payday.Day}
}

// Projector builds the income projector from the tax and payday sections.
func (c Config) Projector() payroll.Projector {
	return payroll.NewProjector(c.TaxRules(), c.Schedule())
}
