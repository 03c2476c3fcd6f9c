// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
// Paths are explicit values handed to the store at construction; nothing in
// the application reads them from process-wide state.
type Config struct {
	DataDir         string
	DataPath        string
	KeyPath         string
	LoginPath       string
	LoginKeyPath    string
	AuditDBPath     string
	LockPath        string
	SearchThreshold float64
	LogLevel        slog.Level
	AuditRetention  time.Duration
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. CREDSTASH_DATA_DIR (data) is the parent of every
// default path: CREDSTASH_DATA_PATH (database.dat), CREDSTASH_KEY_PATH (key.dat),
// CREDSTASH_LOGIN_PATH (login.dat), CREDSTASH_LOGIN_KEY_PATH (login_key.dat),
// CREDSTASH_AUDIT_DB_PATH (audit.db). Other variables: CREDSTASH_SEARCH_THRESHOLD
// (0.8, within [0,1]), CREDSTASH_LOG_LEVEL (warn), CREDSTASH_AUDIT_RETENTION (2160h).
func Load() (*Config, error) {
	dataDir := "data"
	if v, ok := os.LookupEnv("CREDSTASH_DATA_DIR"); ok && v != "" {
		dataDir = v
	}

	pathOr := func(key, name string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return filepath.Join(dataDir, name)
	}

	threshold := 0.8
	if v, ok := os.LookupEnv("CREDSTASH_SEARCH_THRESHOLD"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("CREDSTASH_SEARCH_THRESHOLD has invalid number %q: %w", v, err)
		}
		if parsed < 0 || parsed > 1 {
			return nil, fmt.Errorf("CREDSTASH_SEARCH_THRESHOLD must be within [0,1], got %v", parsed)
		}
		threshold = parsed
	}

	logLevel := slog.LevelWarn
	if v, ok := os.LookupEnv("CREDSTASH_LOG_LEVEL"); ok && v != "" {
		if err := logLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("CREDSTASH_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	retention := 90 * 24 * time.Hour
	if v, ok := os.LookupEnv("CREDSTASH_AUDIT_RETENTION"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CREDSTASH_AUDIT_RETENTION has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("CREDSTASH_AUDIT_RETENTION must be positive, got %s", parsed)
		}
		retention = parsed
	}

	// The lock follows the data file, not the data dir.
	dataPath := pathOr("CREDSTASH_DATA_PATH", "database.dat")

	return &Config{
		DataDir:         dataDir,
		DataPath:        dataPath,
		KeyPath:         pathOr("CREDSTASH_KEY_PATH", "key.dat"),
		LoginPath:       pathOr("CREDSTASH_LOGIN_PATH", "login.dat"),
		LoginKeyPath:    pathOr("CREDSTASH_LOGIN_KEY_PATH", "login_key.dat"),
		AuditDBPath:     pathOr("CREDSTASH_AUDIT_DB_PATH", "audit.db"),
		LockPath:        dataPath + ".lock",
		SearchThreshold: threshold,
		LogLevel:        logLevel,
		AuditRetention:  retention,
	}, nil
}
