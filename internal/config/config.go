package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"9004" validate:"min=1000,max=65535"`

	// Debug disables origin checks and widens CORS to "*".
	Debug  bool   `env:"DEBUG_MODE"     envDefault:"true"`
	Origin string `env:"ALLOWED_ORIGIN" envDefault:"http://lounge.localhost"`

	// How long a connection may sit without sending its handshake.
	// Zero disables the deadline.
	HandshakeTimeout time.Duration `env:"HANDSHAKE_TIMEOUT" envDefault:"30s"`

	// Grace the restart notice promises clients before the socket drops.
	DrainGrace time.Duration `env:"DRAIN_GRACE" envDefault:"5s"`

	// Sweep interval for reaping rooms that stayed empty a full interval.
	// Zero keeps rooms for the process lifetime.
	RoomGCInterval time.Duration `env:"ROOM_GC_INTERVAL" envDefault:"0"`

	// Cross-instance fan-out through Redis pub/sub.
	RedisEnabled bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost    string `env:"REDIS_HOST"    envDefault:"localhost"`
	RedisPort    uint16 `env:"REDIS_PORT"    envDefault:"6379" validate:"min=1000,max=65535"`

	// Serve the bundled web client alongside the API.
	ServeClient bool   `env:"SERVE_CLIENT" envDefault:"false"`
	ClientDir   string `env:"CLIENT_DIR"   envDefault:"htdocs"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
