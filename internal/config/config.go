package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	SessionLimit  int    `env:"SESSION_LIMIT" envDefault:"100"`
	// EVICTION_POLICY: "oldest" (orden de inserción) o "least_engaged"
	// (menor historial primero).
	EvictionPolicy string        `env:"EVICTION_POLICY" envDefault:"oldest"`
	ProbeTimeout   time.Duration `env:"PROBE_TIMEOUT" envDefault:"2s"`
	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL" envDefault:"72h"`
	PricingFile    string        `env:"PRICING_FILE"`
	JWTSecret      string        `env:"JWT_SECRET"`
	AdminAPIKey    string        `env:"ADMIN_API_KEY"`
	TelegramToken  string        `env:"TELEGRAM_TOKEN"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
