package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	EnginePath    string `json:"engine_path"`
	TempDir       string `json:"temp_dir"`
	MaxUploadMB   int64  `json:"max_upload_mb"`
	// ConvertTimeout bounds one engine invocation, in seconds.
	ConvertTimeout int `json:"convert_timeout_sec"`
	// MaxConcurrent bounds simultaneous engine processes.
	MaxConcurrent int `json:"max_concurrent"`
	// AdmissionWait is how long a request may wait for a conversion
	// slot before being rejected, in seconds.
	AdmissionWait int `json:"admission_wait_sec"`
	// WorkspaceTTL is the age, in minutes, past which the sweeper
	// removes orphaned workspace directories.
	WorkspaceTTL  int    `json:"workspace_ttl_min"`
	SweepInterval int    `json:"sweep_interval_min"`
	APIKeys       string `json:"api_keys"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	// KeyQuota is the number of conversions allowed per API key per
	// quota window; zero disables quota checks.
	KeyQuota    int64 `json:"key_quota"`
	QuotaWindow int   `json:"quota_window_min"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if keys := os.Getenv("FILECONV_API_KEYS"); keys != "" {
		cfg.BasicConfig.APIKeys = keys
	}

	if cfg.BasicConfig.EnginePath == "" {
		return nil, fmt.Errorf("engine_path must be configured")
	}
	if len(cfg.APIKeys()) == 0 {
		return nil, fmt.Errorf("at least one api key must be configured")
	}

	return &cfg, nil
}

// APIKeys returns the configured keys with whitespace and empty entries
// stripped.
func (c *Config) APIKeys() []string {
	var keys []string
	for _, k := range strings.Split(c.BasicConfig.APIKeys, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
