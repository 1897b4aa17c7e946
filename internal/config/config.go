package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`

	// Empty secret disables inbound signature verification.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	GatewayAPIURL    string `env:"GATEWAY_API_URL" envDefault:"https://pay.nivopayoficial.com.br/api/v1"`
	GatewaySecretKey string `env:"GATEWAY_SECRET_KEY"`
	GatewayPlatform  string `env:"GATEWAY_PLATFORM" envDefault:"NivoPay"`

	AdsAPIBaseURL     string `env:"ADS_API_BASE_URL" envDefault:"https://graph.facebook.com/v18.0"`
	AdsPixelID        string `env:"ADS_PIXEL_ID"`
	AdsAccessToken    string `env:"ADS_ACCESS_TOKEN"`
	AdsEventSource    string `env:"ADS_EVENT_SOURCE" envDefault:"website"`
	AdsEventSourceURL string `env:"ADS_EVENT_SOURCE_URL"`

	OrderTrackingURL   string `env:"ORDER_TRACKING_URL" envDefault:"https://api.utmify.com.br/api-credentials/orders"`
	OrderTrackingToken string `env:"ORDER_TRACKING_TOKEN"`

	TestMode      bool   `env:"TEST_MODE" envDefault:"false"`
	TestEventCode string `env:"TEST_EVENT_CODE" envDefault:"TEST12345"`

	// memory, redis, or postgres.
	StoreBackend  string        `env:"STORE_BACKEND" envDefault:"memory"`
	StatusTTL     time.Duration `env:"STATUS_TTL" envDefault:"24h"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	DatabaseURL string `env:"DATABASE_URL"`
}

func Load() (*Config, error) {
	// A missing .env is the normal production case.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// TestCode returns the sandbox tag to attach to outbound conversion
// events, empty outside test mode.
func (c *Config) TestCode() string {
	if c.TestMode {
		return c.TestEventCode
	}
	return ""
}
