package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port           int              `json:"port"`
	DBPath         string           `json:"db_path"`
	JWTSecret      string           `json:"jwt_secret"`
	JWTTTLHours    int              `json:"jwt_ttl_hours"`
	CORSOrigins    []string         `json:"cors_origins"`
	LogConfig      logger.LogConfig `json:"log_config"`
	AI             AIConfig         `json:"ai"`
	FileStore      FileStoreConfig  `json:"file_store"`
	VersionMaxKeep int              `json:"version_max_keep"`
	RetentionCron  string           `json:"retention_cron"`
}

type AIConfig struct {
	Provider       string      `json:"provider"`
	Model          string      `json:"model"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	Data           interface{} `json:"data"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db_path is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret is required")
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.JWTTTLHours == 0 {
		cfg.JWTTTLHours = 72
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "gemini"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gemini-1.5-flash"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 20
	}
	if cfg.FileStore.Type == "" {
		cfg.FileStore.Type = "local"
		cfg.FileStore.Data = map[string]interface{}{"dir": "./exports"}
	}
	if cfg.VersionMaxKeep == 0 {
		cfg.VersionMaxKeep = 50
	}
	if cfg.RetentionCron == "" {
		cfg.RetentionCron = "0 3 * * *"
	}
	return &cfg, nil
}
