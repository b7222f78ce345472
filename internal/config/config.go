package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Драйверы хранилища и событий
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	EventsDriverRabbitMQ = "rabbitmq"
	EventsDriverLog      = "log"
)

// Config конфигурация сервиса
type Config struct {
	Logs         LogsConfig       `toml:"logs"`
	Metrics      MetricsConfig    `toml:"metrics"`
	Server       ServerConfig     `toml:"server"`
	Storage      StorageConfig    `toml:"storage"`
	Database     DatabaseConfig   `toml:"database"`
	OrderService ServiceConfig    `toml:"order_service"`
	HubService   ServiceConfig    `toml:"hub_service"`
	UserService  ServiceConfig    `toml:"user_service"`
	Events       EventsConfig     `toml:"events"`
	Cache        CacheConfig      `toml:"cache"`
	Scheduling   SchedulingConfig `toml:"scheduling"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `toml:"driver"`
}

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
	Migrate         bool   `toml:"migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServiceConfig внешний HTTP сервис
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// TimeoutDuration таймаут запроса
func (c ServiceConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

type EventsConfig struct {
	Driver   string `toml:"driver"`
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
	// BufferSize размер очереди фоновой публикации
	BufferSize int `toml:"buffer_size"`
}

type CacheConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// TTL время жизни записи кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type SchedulingConfig struct {
	CancellationCutoffMinutes int    `toml:"cancellation_cutoff_minutes"`
	DefaultDays               int    `toml:"default_days"`
	Timezone                  string `toml:"timezone"`
}

// CancellationCutoff минимальный интервал до начала слота для отмены
func (c SchedulingConfig) CancellationCutoff() time.Duration {
	return time.Duration(c.CancellationCutoffMinutes) * time.Minute
}

// Location часовой пояс хабов
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию и проверяет её
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "pickup_service",
		},
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			Migrate:         true,
		},
		OrderService: ServiceConfig{Timeout: 5},
		HubService:   ServiceConfig{Timeout: 5},
		UserService:  ServiceConfig{Timeout: 5},
		Events: EventsConfig{
			Driver:     EventsDriverLog,
			Exchange:   "pickup.events",
			BufferSize: 1024,
		},
		Cache: CacheConfig{
			Addr:       "localhost:6379",
			TTLSeconds: 300,
		},
		Scheduling: SchedulingConfig{
			CancellationCutoffMinutes: 30,
			DefaultDays:               7,
			Timezone:                  "UTC",
		},
	}
}

// applyEnv секреты можно передать через окружение вместо файла
func (c *Config) applyEnv() {
	if v := os.Getenv("PICKUP_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("PICKUP_EVENTS_URL"); v != "" {
		c.Events.URL = v
	}
	if v := os.Getenv("PICKUP_CACHE_PASSWORD"); v != "" {
		c.Cache.Password = v
	}
}

// applyDefaults заполняет нулевые значения, явно обнулённые в файле
func (c *Config) applyDefaults() {
	def := Default()

	if c.Logs.Level == "" {
		c.Logs.Level = def.Logs.Level
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = def.Metrics.Path
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = def.Metrics.ServiceName
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = def.Storage.Driver
	}
	if c.Events.Driver == "" {
		c.Events.Driver = def.Events.Driver
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = def.Events.Exchange
	}
	if c.Events.BufferSize <= 0 {
		c.Events.BufferSize = def.Events.BufferSize
	}
	if c.Scheduling.CancellationCutoffMinutes == 0 {
		c.Scheduling.CancellationCutoffMinutes = def.Scheduling.CancellationCutoffMinutes
	}
	if c.Scheduling.DefaultDays == 0 {
		c.Scheduling.DefaultDays = def.Scheduling.DefaultDays
	}
	if c.Scheduling.Timezone == "" {
		c.Scheduling.Timezone = def.Scheduling.Timezone
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be between 1 and 65535", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.OrderService.URL == "" {
		return fmt.Errorf("%w: order_service.url is required", ErrInvalidConfig)
	}
	if c.HubService.URL == "" {
		return fmt.Errorf("%w: hub_service.url is required", ErrInvalidConfig)
	}

	switch c.Events.Driver {
	case EventsDriverRabbitMQ:
		if c.Events.URL == "" {
			return fmt.Errorf("%w: events.url is required for rabbitmq driver", ErrInvalidConfig)
		}
	case EventsDriverLog:
	default:
		return fmt.Errorf("%w: unknown events.driver %q", ErrInvalidConfig, c.Events.Driver)
	}

	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("%w: cache.addr is required when cache is enabled", ErrInvalidConfig)
	}

	if c.Scheduling.CancellationCutoffMinutes < 0 {
		return fmt.Errorf("%w: scheduling.cancellation_cutoff_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Scheduling.DefaultDays < 1 || c.Scheduling.DefaultDays > 30 {
		return fmt.Errorf("%w: scheduling.default_days must be between 1 and 30", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
