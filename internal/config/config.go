// Package config resolves chatwell settings from, in rising precedence,
// built-in defaults, a chatwell.yaml found in ~/.chatwell or the current
// directory, and CHATWELL_* environment variables. A .env file is folded
// into the environment first so keys like OPENAI_API_KEY can live in a
// dotfile. Command-line flags override on top, applied by the CLI layer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "CHATWELL"

// Config is the resolved runtime configuration.
type Config struct {
	DataDir           string
	DBPath            string
	ArchiveDir        string
	ArchiveCompress   bool
	ArchiveMaxShardMB int
	UserName          string
	APIKey            string
	BaseURL           string
	Model             string
	WatchDir          string
	SettleSeconds     int
	APIAddr           string
}

// Load reads configuration. With a non-empty path only that file is
// considered and it must exist; otherwise the search paths apply and a
// missing file just means defaults.
func Load(path string) (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	dataDir := filepath.Join(home, ".chatwell")

	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("chatwell")
		v.AddConfigPath(dataDir)
		v.AddConfigPath(".")
	}

	v.SetDefault("data_dir", dataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("archive.dir", "")
	v.SetDefault("archive.compress", true)
	v.SetDefault("archive.max_shard_mb", 8)
	v.SetDefault("user.name", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.base_url", "")
	v.SetDefault("classifier.model", "gpt-4o-mini")
	v.SetDefault("watch.dir", "")
	v.SetDefault("watch.settle_seconds", 2)
	v.SetDefault("api.addr", ":8420")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		DataDir:           v.GetString("data_dir"),
		DBPath:            v.GetString("db_path"),
		ArchiveDir:        v.GetString("archive.dir"),
		ArchiveCompress:   v.GetBool("archive.compress"),
		ArchiveMaxShardMB: v.GetInt("archive.max_shard_mb"),
		UserName:          v.GetString("user.name"),
		APIKey:            v.GetString("classifier.api_key"),
		BaseURL:           v.GetString("classifier.base_url"),
		Model:             v.GetString("classifier.model"),
		WatchDir:          v.GetString("watch.dir"),
		SettleSeconds:     v.GetInt("watch.settle_seconds"),
		APIAddr:           v.GetString("api.addr"),
	}

	// Derived paths follow the data dir unless set explicitly.
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "chatwell.db")
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = filepath.Join(cfg.DataDir, "archive")
	}
	if cfg.WatchDir == "" {
		cfg.WatchDir = filepath.Join(cfg.DataDir, "inbox")
	}

	// The conventional variable works when no chatwell-specific key is set.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg, nil
}

// Validate reports every invalid value at once.
func (c *Config) Validate() error {
	var errs []string

	if c.ArchiveMaxShardMB <= 0 {
		errs = append(errs, fmt.Sprintf("archive.max_shard_mb must be positive, got %d", c.ArchiveMaxShardMB))
	}
	if c.SettleSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("watch.settle_seconds must be positive, got %d", c.SettleSeconds))
	}
	if c.APIAddr == "" {
		errs = append(errs, "api.addr must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// ShardSizeBytes converts the configured shard cap to bytes.
func (c *Config) ShardSizeBytes() int64 {
	return int64(c.ArchiveMaxShardMB) << 20
}

// SettleDuration is how long a watched file must stay quiet before import.
func (c *Config) SettleDuration() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}
