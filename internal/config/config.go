// Package config loads runtime settings from a .env file, DRIVESEARCH_*
// environment variables and an optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. DRIVESEARCH_ROOT_FOLDER_ID
const EnvPrefix = "DRIVESEARCH"

// Keys
const (
	KeyRootFolderID     = "root_folder_id"
	KeyCredentialsFile  = "credentials_file"
	KeyCredentialsJSON  = "credentials_json"
	KeyDBDriver         = "db_driver"
	KeyDBDSN            = "db_dsn"
	KeyCacheMaxAgeHours = "cache_max_age_hours"
	KeyBatchChunkSize   = "batch_chunk_size"
	KeyBatchConcurrency = "batch_concurrency"
	KeyTargetMimeType   = "target_mime_type"
	KeySynonymsFile     = "synonyms_file"
	KeyScriptExpansion  = "script_expansion"
	KeySynonymLRUSize   = "synonym_lru_size"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyMetricsAddr      = "metrics_addr"
)

// Defaults
const (
	DefaultDBDriver         = "sqlite"
	DefaultDBDSN            = "drivesearch.db"
	DefaultCacheMaxAgeHours = 24
	DefaultBatchChunkSize   = 100
	DefaultBatchConcurrency = 8
	DefaultTargetMimeType   = "application/pdf"
	DefaultSynonymLRUSize   = 1000
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config holds every runtime setting
type Config struct {
	RootFolderID     string `mapstructure:"root_folder_id"`
	CredentialsFile  string `mapstructure:"credentials_file"`
	CredentialsJSON  string `mapstructure:"credentials_json"`
	DBDriver         string `mapstructure:"db_driver"`
	DBDSN            string `mapstructure:"db_dsn"`
	CacheMaxAgeHours int    `mapstructure:"cache_max_age_hours"`
	BatchChunkSize   int    `mapstructure:"batch_chunk_size"`
	BatchConcurrency int    `mapstructure:"batch_concurrency"`
	TargetMimeType   string `mapstructure:"target_mime_type"`
	SynonymsFile     string `mapstructure:"synonyms_file"`
	ScriptExpansion  bool   `mapstructure:"script_expansion"`
	SynonymLRUSize   int    `mapstructure:"synonym_lru_size"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
	MetricsAddr      string `mapstructure:"metrics_addr"`
}

// New returns a viper instance with defaults and environment binding set up
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyRootFolderID, "")
	v.SetDefault(KeyCredentialsFile, "")
	v.SetDefault(KeyCredentialsJSON, "")
	v.SetDefault(KeyDBDriver, DefaultDBDriver)
	v.SetDefault(KeyDBDSN, DefaultDBDSN)
	v.SetDefault(KeyCacheMaxAgeHours, DefaultCacheMaxAgeHours)
	v.SetDefault(KeyBatchChunkSize, DefaultBatchChunkSize)
	v.SetDefault(KeyBatchConcurrency, DefaultBatchConcurrency)
	v.SetDefault(KeyTargetMimeType, DefaultTargetMimeType)
	v.SetDefault(KeySynonymsFile, "")
	v.SetDefault(KeyScriptExpansion, true)
	v.SetDefault(KeySynonymLRUSize, DefaultSynonymLRUSize)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyMetricsAddr, "")
	return v
}

// Load reads .env (if present) into the environment, then the config file
// at path (if non-empty), and returns the validated result
func Load(v *viper.Viper, path string) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks sizes and enumerations
func (c *Config) Validate() error {
	if c.CacheMaxAgeHours <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyCacheMaxAgeHours)
	}
	if c.BatchChunkSize <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyBatchChunkSize)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeyBatchConcurrency)
	}
	if c.SynonymLRUSize <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalid, KeySynonymLRUSize)
	}
	if c.TargetMimeType == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalid, KeyTargetMimeType)
	}
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalid, KeyDBDriver, c.DBDriver)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: unknown %s %q", ErrInvalid, KeyLogFormat, c.LogFormat)
	}
	return nil
}

// CacheMaxAge returns the freshness threshold as a duration
func (c *Config) CacheMaxAge() time.Duration {
	return time.Duration(c.CacheMaxAgeHours) * time.Hour
}

// HasCredentials reports whether any Drive credential source is configured
func (c *Config) HasCredentials() bool {
	return c.CredentialsJSON != "" || c.CredentialsFile != ""
}
