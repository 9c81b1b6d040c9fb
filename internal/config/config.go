package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path   string       `yaml:"path"`
		Backup BackupConfig `yaml:"backup"`
	} `yaml:"database"`

	Pricing struct {
		Path string `yaml:"path"`
	} `yaml:"pricing"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Feeds struct {
		BaseURL         string           `yaml:"base_url"`
		APIKey          string           `yaml:"api_key"`
		CacheTTLSeconds int              `yaml:"cache_ttl_seconds"`
		Google          GoogleFeedConfig `yaml:"google"`
	} `yaml:"feeds"`

	Telegram struct {
		BotToken string  `yaml:"bot_token"`
		OwnerIDs []int64 `yaml:"owner_ids"`
	} `yaml:"telegram"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Audit struct {
		ExportPath string `yaml:"export_path"`
	} `yaml:"audit"`
}

// BackupConfig configures the periodic sqlite snapshot copy.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Dir           string `yaml:"dir"`
	IntervalHours int    `yaml:"interval_hours"`
	RetentionDays int    `yaml:"retention_days"`
}

// GoogleFeedConfig configures the Google Calendar feed source. CalendarIDs
// maps an apartment id to its calendar id.
type GoogleFeedConfig struct {
	Enabled         bool             `yaml:"enabled"`
	CredentialsFile string           `yaml:"credentials_file"`
	CalendarIDs     map[int64]string `yaml:"calendar_ids"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/adriastay.db"
	}
	if cfg.Pricing.Path == "" {
		cfg.Pricing.Path = "configs/pricing.yaml"
	}
	if cfg.Database.Backup.Dir == "" {
		cfg.Database.Backup.Dir = "data/backups"
	}
	if cfg.Database.Backup.IntervalHours <= 0 {
		cfg.Database.Backup.IntervalHours = 24
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}
