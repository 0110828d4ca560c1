// Package config loads register configuration from REGISTER_* environment
// variables.
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "REGISTER_"

// Config holds all application configuration
type Config struct {
	Storage StorageConfig
	Log     LogConfig
	Admin   AdminConfig
	App     AppConfig
}

// StorageConfig locates the catalog, the receipt logs and catalog snapshots.
type StorageConfig struct {
	DataDir       string `env:"DATA_DIR,default=."`
	CatalogFile   string `env:"CATALOG_FILE,default=products.txt"`
	ReceiptPrefix string `env:"RECEIPT_PREFIX,default=receipt_"`
	ReceiptExt    string `env:"RECEIPT_EXT,default=.txt"`
	// SnapshotDir set to "-" disables catalog snapshots.
	SnapshotDir string `env:"SNAPSHOT_DIR,default=snapshots"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Output string `env:"LOG_OUTPUT,default=register.log"`
}

// AdminConfig holds admin menu protection settings.
type AdminConfig struct {
	PinHash      string        `env:"ADMIN_PIN_HASH"`
	MaxAttempts  int           `env:"ADMIN_MAX_ATTEMPTS,default=3"`
	LockDuration time.Duration `env:"ADMIN_LOCK_DURATION,default=1m"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment     string `env:"ENVIRONMENT,default=development"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
}

// Load loads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith loads configuration from l; names are looked up with EnvPrefix.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}

// CatalogPath returns the catalog file path.
func (c *StorageConfig) CatalogPath() string {
	return c.resolve(c.CatalogFile)
}

// SnapshotPath returns the snapshot directory, or "" when disabled.
func (c *StorageConfig) SnapshotPath() string {
	if c.SnapshotDir == "" || c.SnapshotDir == "-" {
		return ""
	}
	return c.resolve(c.SnapshotDir)
}

func (c *StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// IsDevelopment returns true if running in development environment
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LogOutputs returns zap output paths. A relative log file resolves against
// DATA_DIR like the other files; "stderr" and "stdout" pass through.
func (c *Config) LogOutputs() []string {
	switch c.Log.Output {
	case "":
		return []string{"stderr"}
	case "stderr", "stdout":
		return []string{c.Log.Output}
	}
	return []string{c.Storage.resolve(c.Log.Output)}
}
