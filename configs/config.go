package configs

import (
	"time"

	"restopos/services"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Config struct {
	DBDriver  string        `envconfig:"DB_DRIVER" default:"sqlite"`
	DBSource  string        `envconfig:"DB_SOURCE" default:"restopos.db"`
	Port      string        `envconfig:"PORT" default:"8000"`
	JWTSecret string        `envconfig:"JWT_SECRET" default:"changeme"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	// ว่างไว้ = ไม่ส่ง event ออก broker
	AMQPURL     string   `envconfig:"AMQP_URL"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	KDSPollInterval time.Duration `envconfig:"KDS_POLL_INTERVAL" default:"2s"`
	KDSKeepAlive    time.Duration `envconfig:"KDS_KEEPALIVE" default:"30s"`

	DefaultDeliveryFee     decimal.Decimal `envconfig:"DEFAULT_DELIVERY_FEE" default:"0"`
	DefaultDeliveryETA     int             `envconfig:"DEFAULT_DELIVERY_ETA" default:"30"`
	RejectUnknownModifiers bool            `envconfig:"REJECT_UNKNOWN_MODIFIERS" default:"true"`
}

// LoadConfig reads .env when there is one, then the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DefaultDeliveryFee.IsNegative() {
		return nil, errors.New("DEFAULT_DELIVERY_FEE must not be negative")
	}
	return &cfg, nil
}

// Orders is the slice of the config order creation depends on.
func (c *Config) Orders() services.OrderConfig {
	return services.OrderConfig{
		DefaultDeliveryFee:     c.DefaultDeliveryFee,
		DefaultEstimatedTime:   c.DefaultDeliveryETA,
		RejectUnknownModifiers: c.RejectUnknownModifiers,
	}
}
