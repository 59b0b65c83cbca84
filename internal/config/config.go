// Package config loads the editor host configuration from a YAML file,
// an optional .env file and TRAININGS_* environment variables, in that
// order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the editor host configuration
type Config struct {
	DataDir   string          `yaml:"data_dir" validate:"required"`
	LogMode   string          `yaml:"log_mode" validate:"omitempty,oneof=dev prod"`
	Principal PrincipalConfig `yaml:"principal"`
	Storage   StorageConfig   `yaml:"storage"`
	Media     MediaConfig     `yaml:"media"`
	Rewrite   RewriteConfig   `yaml:"rewrite"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Sync      SyncConfig      `yaml:"sync"`
}

// PrincipalConfig is the user the stdio server edits as
type PrincipalConfig struct {
	UserID    string `yaml:"user_id" validate:"required"`
	CompanyID string `yaml:"company_id" validate:"required"`
	Role      string `yaml:"role"`
}

// StorageConfig selects where trainings are persisted
type StorageConfig struct {
	Driver         string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres mysql mongo"`
	DSN            string `yaml:"dsn"`                        // empty means <data_dir>/trainings.db for sqlite
	Database       string `yaml:"database"`                   // mongo only
	PasswordSecret string `yaml:"password_secret,omitempty"` // secret key substituted for {password} in DSN
}

// MediaConfig controls where ingested image/video bytes end up
type MediaConfig struct {
	Mode     string `yaml:"mode" validate:"omitempty,oneof=inline disk"`
	MaxBytes int64  `yaml:"max_bytes" validate:"gte=0"`
	BaseURL  string `yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// RewriteConfig configures the assisted rewrite of text blocks
type RewriteConfig struct {
	Enabled           bool     `yaml:"enabled"`
	BaseURL           string   `yaml:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	Model             string   `yaml:"model" validate:"required_if=Enabled true"`
	APIKeySecret      string   `yaml:"api_key_secret"`
	EnabledRoles      []string `yaml:"enabled_roles"` // empty means every role
	RequestsPerMinute int      `yaml:"requests_per_minute" validate:"gte=0"`
	Timeout           string   `yaml:"timeout,omitempty"` // e.g. "30s". Default: 30s
}

// AutosaveConfig schedules periodic saves of edited sessions
type AutosaveConfig struct {
	Schedule string `yaml:"schedule,omitempty"` // cron spec, e.g. "@every 30s"; empty disables autosave
}

// SyncConfig mirrors saved documents as JSON files
type SyncConfig struct {
	ExportDir string `yaml:"export_dir,omitempty"` // empty disables export
	Watch     bool   `yaml:"watch"`
}

const (
	DefaultMaxMediaBytes = 25 << 20
	defaultTimeout       = 30 * time.Second
)

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DataDir:   defaultDataDir(),
		LogMode:   "dev",
		Principal: PrincipalConfig{UserID: "local", CompanyID: "local", Role: "admin"},
		Storage:   StorageConfig{Driver: "sqlite"},
		Media:     MediaConfig{Mode: "inline", MaxBytes: DefaultMaxMediaBytes},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trainings"
	}
	return filepath.Join(home, ".trainings")
}

// Load reads path (optional) and envFile (optional), applies environment
// overrides and validates the result.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"TRAININGS_DATA_DIR":         &c.DataDir,
		"TRAININGS_LOG_MODE":         &c.LogMode,
		"TRAININGS_USER_ID":          &c.Principal.UserID,
		"TRAININGS_COMPANY_ID":       &c.Principal.CompanyID,
		"TRAININGS_ROLE":             &c.Principal.Role,
		"TRAININGS_STORAGE_DRIVER":   &c.Storage.Driver,
		"TRAININGS_STORAGE_DSN":      &c.Storage.DSN,
		"TRAININGS_STORAGE_DATABASE": &c.Storage.Database,
		"TRAININGS_MEDIA_MODE":       &c.Media.Mode,
		"TRAININGS_MEDIA_BASE_URL":   &c.Media.BaseURL,
		"TRAININGS_REWRITE_BASE_URL": &c.Rewrite.BaseURL,
		"TRAININGS_REWRITE_MODEL":    &c.Rewrite.Model,
		"TRAININGS_AUTOSAVE":         &c.Autosave.Schedule,
		"TRAININGS_EXPORT_DIR":       &c.Sync.ExportDir,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := os.LookupEnv("TRAININGS_REWRITE_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TRAININGS_REWRITE_ENABLED: %w", err)
		}
		c.Rewrite.Enabled = b
	}
	if v, ok := os.LookupEnv("TRAININGS_MEDIA_MAX_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("TRAININGS_MEDIA_MAX_BYTES: %w", err)
		}
		c.Media.MaxBytes = n
	}
	return nil
}

// GetStorageDriver returns the storage driver (default: sqlite)
func (c *Config) GetStorageDriver() string {
	if c.Storage.Driver == "" {
		return "sqlite"
	}
	return c.Storage.Driver
}

// GetStorageDSN returns the DSN (default: <data_dir>/trainings.db)
func (c *Config) GetStorageDSN() string {
	if c.Storage.DSN == "" && c.GetStorageDriver() == "sqlite" {
		return filepath.Join(c.DataDir, "trainings.db")
	}
	return c.Storage.DSN
}

// GetMediaDir returns the directory used by disk media mode
func (c *Config) GetMediaDir() string {
	return filepath.Join(c.DataDir, "media")
}

// GetMaxMediaBytes returns the ingestion size limit (default: 25 MiB)
func (c *Config) GetMaxMediaBytes() int64 {
	if c.Media.MaxBytes <= 0 {
		return DefaultMaxMediaBytes
	}
	return c.Media.MaxBytes
}

// GetTimeout returns the parsed rewrite timeout (default: 30s)
func (c RewriteConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// RoleEnabled reports whether role may use rewrite assistance
func (c RewriteConfig) RoleEnabled(role string) bool {
	if !c.Enabled {
		return false
	}
	if len(c.EnabledRoles) == 0 {
		return true
	}
	for _, r := range c.EnabledRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
