package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	Facility        FacilityConfig        `toml:"facility"`
	ResourceService ResourceServiceConfig `toml:"resource_service"`
	AccessService   AccessServiceConfig   `toml:"access_service"`
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

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// FacilityConfig параметры календаря и слотов комплекса
type FacilityConfig struct {
	Timezone             string `toml:"timezone"`
	OpenTime             string `toml:"open_time"`
	CloseTime            string `toml:"close_time"`
	SlotDurationMinutes  int    `toml:"slot_duration_minutes"`
	ConflictHorizonWeeks int    `toml:"conflict_horizon_weeks"`
	SuggestionMaxWeeks   int    `toml:"suggestion_max_weeks"`
	SuggestionMaxResults int    `toml:"suggestion_max_results"`
}

// ResourceServiceConfig настройки клиента каталога ресурсов
type ResourceServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// AccessServiceConfig настройки клиента сервиса доступа
type AccessServiceConfig struct {
	URL             string `toml:"url"`
	Timeout         int    `toml:"timeout"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Facility.Timezone == "" {
		cfg.Facility.Timezone = "America/Sao_Paulo"
	}
	if cfg.Facility.OpenTime == "" {
		cfg.Facility.OpenTime = "07:00"
	}
	if cfg.Facility.CloseTime == "" {
		cfg.Facility.CloseTime = "23:00"
	}
	if cfg.Facility.SlotDurationMinutes == 0 {
		cfg.Facility.SlotDurationMinutes = 60
	}
	if cfg.Facility.ConflictHorizonWeeks == 0 {
		cfg.Facility.ConflictHorizonWeeks = 26
	}
	if cfg.Facility.SuggestionMaxWeeks == 0 {
		cfg.Facility.SuggestionMaxWeeks = 26
	}
	if cfg.Facility.SuggestionMaxResults == 0 {
		cfg.Facility.SuggestionMaxResults = 3
	}
	if cfg.ResourceService.Timeout == 0 {
		cfg.ResourceService.Timeout = 5
	}
	if cfg.AccessService.Timeout == 0 {
		cfg.AccessService.Timeout = 5
	}
	if cfg.AccessService.CacheTTLSeconds == 0 {
		cfg.AccessService.CacheTTLSeconds = 60
	}
}

func validate(cfg *Config) error {
	if cfg.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if cfg.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if cfg.ResourceService.URL == "" {
		return fmt.Errorf("resource_service.url is required")
	}
	if cfg.AccessService.URL == "" {
		return fmt.Errorf("access_service.url is required")
	}
	return nil
}
