package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config корневая конфигурация сервиса, загружается из config.toml
type Config struct {
	Server              ServerConfig      `toml:"server"`
	Database            DatabaseConfig    `toml:"database"`
	Logs                LogsConfig        `toml:"logs"`
	Metrics             MetricsConfig     `toml:"metrics"`
	Service             ServiceConfig     `toml:"service"`
	CatalogService      IntegrationConfig `toml:"catalog_service"`
	ProfessionalService IntegrationConfig `toml:"professional_service"`
	NotifyService       IntegrationConfig `toml:"notify_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ServiceConfig доменные настройки резервирования
type ServiceConfig struct {
	// Timezone операционная тайм-зона: все инстанты расписаний и броней
	// вычисляются в ней (одна авторитетная зона на весь сервис)
	Timezone string `toml:"timezone"`
	// SweepIntervalSeconds период фонового прохода
	SweepIntervalSeconds int `toml:"sweep_interval_seconds"`
	// SweepTimeoutSeconds таймаут одной итерации фонового прохода
	SweepTimeoutSeconds int `toml:"sweep_timeout_seconds"`
	// ReminderLeadMinutes за сколько минут до начала отправлять напоминание
	ReminderLeadMinutes int `toml:"reminder_lead_minutes"`
}

// IntegrationConfig настройки HTTP клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(cfg)

	if _, err := time.LoadLocation(cfg.Service.Timezone); err != nil {
		return nil, fmt.Errorf("config: invalid service.timezone %q: %w", cfg.Service.Timezone, err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Logs.File == "" {
		cfg.Logs.File = "logs/service.log"
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "reservation-service"
	}
	if cfg.Service.Timezone == "" {
		cfg.Service.Timezone = "Africa/Algiers"
	}
	if cfg.Service.SweepIntervalSeconds == 0 {
		cfg.Service.SweepIntervalSeconds = 60
	}
	if cfg.Service.SweepTimeoutSeconds == 0 {
		cfg.Service.SweepTimeoutSeconds = 45
	}
	if cfg.Service.ReminderLeadMinutes == 0 {
		cfg.Service.ReminderLeadMinutes = 30
	}
}
