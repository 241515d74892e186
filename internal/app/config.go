package app

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/YusufBro01/ymastar/internal/adapters/primary/http"
	alerterAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/kafka"
	"github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/YusufBro01/ymastar/internal/adapters/secondary/storage/s3"
	"github.com/YusufBro01/ymastar/internal/adapters/secondary/telegram"
	"github.com/YusufBro01/ymastar/internal/pkg/logger"
)

type Config struct {
	Postgres *pg.Config             `envconfig:"POSTGRES"`
	Log      *logger.Config         `envconfig:"LOG"`
	Server   *server.Config         `envconfig:"APISERVER"`
	Telegram *telegram.Config       `envconfig:"TELEGRAM"`
	Redis    *redisAdapter.Config   `envconfig:"REDIS"`
	S3       *s3Adapter.Config      `envconfig:"S3"`
	Kafka    *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter  *alerterAdapter.Config `envconfig:"ALERTER"`
	Shop     *ShopConfig            `envconfig:"SHOP"`
}

// ShopConfig параметры магазина: валюта, сроки заказа, поиск получателя
type ShopConfig struct {
	Locale            string        `envconfig:"LOCALE" default:"uz"`
	Currency          string        `envconfig:"CURRENCY" default:"UZS"`
	CurrencyScale     int           `envconfig:"CURRENCY_SCALE" default:"2"`
	TimeZone          string        `envconfig:"TIME_ZONE" default:"Asia/Tashkent"`
	OrderTTL          time.Duration `envconfig:"ORDER_TTL" default:"30m"`
	DebounceWindow    time.Duration `envconfig:"DEBOUNCE_WINDOW" default:"700ms"`
	LookupTimeout     time.Duration `envconfig:"LOOKUP_TIMEOUT" default:"10s"`
	DispatchTimeout   time.Duration `envconfig:"DISPATCH_TIMEOUT" default:"10s"`
	SessionIdleTTL    time.Duration `envconfig:"SESSION_IDLE_TTL" default:"2h"`
	PlaceholderAvatar string        `envconfig:"PLACEHOLDER_AVATAR" default:"https://via.placeholder.com/150"`
	FoundCacheTTL     time.Duration `envconfig:"FOUND_CACHE_TTL" default:"10m"`
	NotFoundCacheTTL  time.Duration `envconfig:"NOT_FOUND_CACHE_TTL" default:"1m"`
}

// Validate окно дебаунса 500-1000 мс, остальные сроки положительные
func (c *ShopConfig) Validate() error {
	if c.DebounceWindow < 500*time.Millisecond || c.DebounceWindow > time.Second {
		return fmt.Errorf("debounce window %s is out of range [500ms, 1s]", c.DebounceWindow)
	}
	if c.OrderTTL <= 0 {
		return fmt.Errorf("order ttl must be positive, got %s", c.OrderTTL)
	}
	if c.LookupTimeout <= 0 || c.DispatchTimeout <= 0 {
		return fmt.Errorf("lookup and dispatch timeouts must be positive")
	}
	return nil
}

// Location часовой пояс для сообщений о заказе; неизвестная зона - UTC
func (c *ShopConfig) Location() *time.Location {
	location, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return location
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Shop.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shop config: %w", err)
	}

	return cfg, nil
}
