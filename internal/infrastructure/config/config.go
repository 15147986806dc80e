package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=5000"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	BaseURL    string        `env:"BASE_URL,    default=http://localhost:5173"`
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL,     default=720h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=health_day"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	User     string `env:"SMTP_USER"`
	Pass     string `env:"SMTP_PASS"`
	FromName string `env:"SMTP_FROM_NAME, default=Health Day"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
