package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tinytelemetry/pairs/internal/model"
)

const (
	defaultBindHost     = "127.0.0.1"
	defaultAPIPort      = 3000
	defaultSkin         = model.DefaultSkin
	defaultStorage      = model.DefaultStorage
	defaultNamespace    = model.DefaultNamespace
	defaultLogLevel     = "info"
	defaultQueryTimeout = 5 * time.Second
	defaultHistoryDays  = 90 // days, 0 = keep forever
)

// Ranking backends accepted by the storage key.
const (
	storageFile   = "file"
	storageDuckDB = "duckdb"
	storageMemory = "memory"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	Storage        string        `mapstructure:"storage"`
	DataDir        string        `mapstructure:"data-dir"`
	Namespace      string        `mapstructure:"namespace"`
	DBPath         string        `mapstructure:"db-path"`
	QueryTimeout   time.Duration `mapstructure:"query-timeout"`
	HistoryEnabled bool          `mapstructure:"history-enabled"`
	HistoryDays    int           `mapstructure:"history-retention-days"`
	APIEnabled     bool          `mapstructure:"api-enabled"`
	APIPort        int           `mapstructure:"api-port"`
	APIAddr        string        `mapstructure:"api-addr"`
	Skin           string        `mapstructure:"skin"`
	LogPath        string        `mapstructure:"log-path"`
	LogLevel       string        `mapstructure:"log-level"`
	ConfigDir      string        `mapstructure:"-"`
	ConfigPath     string        `mapstructure:"-"`
	Seed           int64         `mapstructure:"-"`
}

// usesDuckDB reports whether any component needs the DuckDB store.
func (c appConfig) usesDuckDB() bool {
	return c.Storage == storageDuckDB || c.HistoryEnabled
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "pairs")

	v := viper.New()
	v.SetEnvPrefix("PAIRS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("storage", defaultStorage)
	v.SetDefault("data-dir", filepath.Join(home, ".local", "share", "pairs"))
	v.SetDefault("namespace", defaultNamespace)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "pairs", "pairs.duckdb"))
	v.SetDefault("query-timeout", defaultQueryTimeout)
	v.SetDefault("history-enabled", false)
	v.SetDefault("history-retention-days", defaultHistoryDays)
	v.SetDefault("api-enabled", false)
	v.SetDefault("api-port", defaultAPIPort)
	v.SetDefault("skin", defaultSkin)
	v.SetDefault("log-path", filepath.Join(home, ".local", "state", "pairs", "pairs.log"))
	v.SetDefault("log-level", defaultLogLevel)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(configDir, "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	cfg.ConfigDir = configDir
	if configPath != "" {
		cfg.ConfigDir = filepath.Dir(configPath)
	}

	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch cfg.Storage {
	case storageFile, storageDuckDB, storageMemory:
	default:
		return cfg, fmt.Errorf("invalid storage %q: want %s, %s or %s", cfg.Storage, storageFile, storageDuckDB, storageMemory)
	}
	if cfg.APIPort <= 0 || cfg.APIPort > 65535 {
		return cfg, fmt.Errorf("invalid api-port: %d", cfg.APIPort)
	}
	if cfg.Namespace == "" {
		cfg.Namespace = defaultNamespace
	}
	if cfg.HistoryDays < 0 {
		return cfg, fmt.Errorf("invalid history-retention-days: %d", cfg.HistoryDays)
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}

	// Expand ~ in paths
	cfg.DataDir = expandHome(home, cfg.DataDir)
	cfg.DBPath = expandHome(home, cfg.DBPath)
	cfg.LogPath = expandHome(home, cfg.LogPath)

	if cfg.APIAddr == "" {
		cfg.APIAddr = net.JoinHostPort(defaultBindHost, strconv.Itoa(cfg.APIPort))
	}

	return cfg, nil
}

func expandHome(home, path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
