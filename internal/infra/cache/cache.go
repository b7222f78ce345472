// Package cache кэш справочника хабов и настроек расписания в Redis.
// При ошибках Redis кэш отключается, и запросы идут напрямую в источник.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultHubTTL    = 10 * time.Minute
	DefaultConfigTTL = 1 * time.Minute
)

// Префиксы ключей
const (
	KeyHub    = "pickup:cache:hub:"    // + hub_id
	KeyConfig = "pickup:cache:config:" // + hub_id
)

// Config настройки подключения и времени жизни записей
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	HubTTL    time.Duration
	ConfigTTL time.Duration

	// DisableOnError отключает кэш после первой ошибки Redis
	DisableOnError bool
}

// DefaultConfig настройки по умолчанию
func DefaultConfig() Config {
	return Config{
		RedisAddr:      "localhost:6379",
		HubTTL:         DefaultHubTTL,
		ConfigTTL:      DefaultConfigTTL,
		DisableOnError: true,
	}
}

// Logger интерфейс для логирования
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Cache кэш в Redis с отключением при ошибках
type Cache struct {
	client *redis.Client
	logger Logger
	config Config

	mu       sync.RWMutex
	disabled bool
}

// New подключается к Redis. Если Redis недоступен, возвращается выключенный кэш.
func New(cfg Config, logger Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis cache unavailable at %s, running without caching: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return NewDisabled(logger)
	}

	logger.Info("Redis cache initialized at %s", cfg.RedisAddr)

	return &Cache{
		client: client,
		logger: logger,
		config: cfg,
	}
}

// NewDisabled кэш, который всегда промахивается
func NewDisabled(logger Logger) *Cache {
	return &Cache{logger: logger, disabled: true}
}

// Close закрывает соединение с Redis
func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAvailable true, если кэш работает
func (c *Cache) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.disabled && c.client != nil
}

func (c *Cache) handleError(err error, operation string) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}

	c.logger.Debug("cache %s failed: %v", operation, err)

	if c.config.DisableOnError {
		c.mu.Lock()
		c.disabled = true
		c.mu.Unlock()
		c.logger.Warn("disabling cache due to Redis error: %v", err)
	}
}

func (c *Cache) get(ctx context.Context, key string, dest any) bool {
	if !c.IsAvailable() {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.handleError(err, "get")
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Debug("failed to unmarshal cached value %s: %v", key, err)
		return false
	}

	return true
}

func (c *Cache) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.IsAvailable() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.handleError(err, "set")
		return err
	}

	return nil
}

func (c *Cache) delete(ctx context.Context, key string) error {
	if !c.IsAvailable() {
		return nil
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.handleError(err, "delete")
		return err
	}

	return nil
}
