package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Session struct {
		WindowMinutes int `yaml:"window_minutes"`
	} `yaml:"session"`

	Booking struct {
		MonthlyLimitHours  int `yaml:"monthly_limit_hours"`
		WarnThresholdHours int `yaml:"warn_threshold_hours"`
		CancelGraceMinutes int `yaml:"cancel_grace_minutes"`
	} `yaml:"booking"`

	Audit struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
		Backup  struct {
			Enabled       bool   `yaml:"enabled"`
			StoragePath   string `yaml:"storage_path"`
			RetentionDays int    `yaml:"retention_days"`
			IntervalHours int    `yaml:"interval_hours"`
		} `yaml:"backup"`
	} `yaml:"audit"`

	Bootstrap struct {
		OrgName       string `yaml:"org_name"`
		AdminUsername string `yaml:"admin_username"`
		AdminPassword string `yaml:"admin_password"`
		AdminEmail    string `yaml:"admin_email"`
	} `yaml:"bootstrap"`
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
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		cfg.Audit.Path = "data/audit.db"
	}
	if cfg.Audit.Backup.Enabled && cfg.Audit.Backup.StoragePath == "" {
		cfg.Audit.Backup.StoragePath = "data/backups"
	}

	return &cfg, nil
}

func (c *Config) SessionWindow() time.Duration {
	if c.Session.WindowMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Session.WindowMinutes) * time.Minute
}

func (c *Config) CancelGrace() time.Duration {
	if c.Booking.CancelGraceMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Booking.CancelGraceMinutes) * time.Minute
}
