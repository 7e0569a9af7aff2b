package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	SheetSync SheetSyncConfig `toml:"sheetsync"`
	Leads     LeadsConfig     `toml:"leads"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
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

// SheetSyncConfig настройки выгрузки лидов и бронирований во внешний webhook
type SheetSyncConfig struct {
	URL               string `toml:"url"`
	Timeout           int    `toml:"timeout"`             // секунды, таймаут одного запроса
	MaxAttempts       int    `toml:"max_attempts"`        // максимум попыток выгрузки
	RetryDelayMinutes int    `toml:"retry_delay_minutes"` // задержка между повторами
	// RecoverIntervalMinutes период поиска выгрузок, застрявших в pending
	// (потерянных при рестарте). Должен превышать retry_delay_minutes
	RecoverIntervalMinutes int `toml:"recover_interval_minutes"`
}

// LeadsConfig настройки жизненного цикла незавершенных лидов
type LeadsConfig struct {
	ReapTimeoutMinutes              int `toml:"reap_timeout_minutes"`               // лид считается зависшим после этого таймаута
	ReapIntervalMinutes             int `toml:"reap_interval_minutes"`              // период запуска реапера
	TerminationRetentionHours       int `toml:"termination_retention_hours"`        // время жизни записи о закрытии сессии
	TerminationPurgeIntervalMinutes int `toml:"termination_purge_interval_minutes"` // период очистки устаревших записей
}

// Load загружает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-leadbooking-service"
	}

	if c.SheetSync.Timeout == 0 {
		c.SheetSync.Timeout = 30
	}
	if c.SheetSync.MaxAttempts == 0 {
		c.SheetSync.MaxAttempts = 3
	}
	if c.SheetSync.RetryDelayMinutes == 0 {
		c.SheetSync.RetryDelayMinutes = 2
	}
	if c.SheetSync.RecoverIntervalMinutes == 0 {
		c.SheetSync.RecoverIntervalMinutes = 10
	}

	if c.Leads.ReapTimeoutMinutes == 0 {
		c.Leads.ReapTimeoutMinutes = 10
	}
	if c.Leads.ReapIntervalMinutes == 0 {
		c.Leads.ReapIntervalMinutes = 5
	}
	if c.Leads.TerminationRetentionHours == 0 {
		c.Leads.TerminationRetentionHours = 24
	}
	if c.Leads.TerminationPurgeIntervalMinutes == 0 {
		c.Leads.TerminationPurgeIntervalMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.SheetSync.URL == "" {
		return fmt.Errorf("config: sheetsync.url is required")
	}
	return nil
}
