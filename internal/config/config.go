package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort     = 3100
	defaultEnv      = "development"
	defaultDSN      = "root:password@tcp(127.0.0.1:3306)/maquinsa?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL = "redis://localhost:6379/0"
	defaultLanguage = "es"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int           `yaml:"port"`
	DSN            string        `yaml:"dsn"` // MySQL DSN
	RedisURL       string        `yaml:"redis_url"`
	Env            string        `yaml:"env"` // "development" | "production"
	SiteName       string        `yaml:"site_name"`
	SiteURL        string        `yaml:"site_url"`   // public site base, link targets
	ServerURL      string        `yaml:"server_url"` // API base, confirm/unsubscribe links
	AdminKey       string        `yaml:"admin_key"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	Catalog        CatalogConfig `yaml:"catalog"`
	Mail           MailConfig    `yaml:"mail"`
}

// CatalogConfig describes the downloadable product catalog.
type CatalogConfig struct {
	DownloadURL string `yaml:"download_url"`
}

// MailConfig holds mail provider settings.
type MailConfig struct {
	Enable    bool   `yaml:"enable"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Pass      string `yaml:"pass"`
	From      string `yaml:"from"`
	ReplyTo   string `yaml:"reply_to"`
	UseResend bool   `yaml:"use_resend"`
	ResendKey string `yaml:"resend_key"`
}

// Load reads the YAML config file, applies environment overrides and
// fills defaults. A missing file is not an error; env and defaults apply.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("SITE_NAME"); v != "" {
		cfg.SiteName = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.SiteURL = v
	}
	if v := os.Getenv("SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("ADMIN_KEY"); v != "" {
		cfg.AdminKey = v
	}
	if v := os.Getenv("CATALOG_DOWNLOAD_URL"); v != "" {
		cfg.Catalog.DownloadURL = v
	}
	if v := os.Getenv("RESEND_KEY"); v != "" {
		cfg.Mail.UseResend = true
		cfg.Mail.ResendKey = v
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.SiteName == "" {
		cfg.SiteName = "Maquinsa"
	}
	if cfg.SiteURL == "" {
		cfg.SiteURL = "http://localhost:3000"
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}
