package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App holds the service configuration read from the environment.
type App struct {
	Env string `envconfig:"ENV" default:"dev"`

	// Network
	HTTPPort string `envconfig:"APP_PORT" default:"8080"`
	GRPCAddr string `envconfig:"GRPC_ADDR" default:":50051"`

	// Storage
	StorageDriver  string        `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	StorageTimeout time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`

	// Registration policy
	EmailNamespace    string `envconfig:"EMAIL_NAMESPACE" default:"global"`
	MinPasswordLength int    `envconfig:"MIN_PASSWORD_LENGTH" default:"8"`
	BcryptCost        int    `envconfig:"BCRYPT_COST" default:"10"`

	// JWT
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	// Events
	RabbitURL      string `envconfig:"RABBIT_URL"`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"account.exchange"`

	// Tracing
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (App, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return App{}, err
	}

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return App{}, err
	}
	return c, c.validate()
}

func (c App) validate() error {
	switch c.StorageDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case "memory":
	default:
		return errors.New("STORAGE_DRIVER must be postgres or memory")
	}
	if c.MinPasswordLength < 1 {
		return errors.New("MIN_PASSWORD_LENGTH must be positive")
	}
	return nil
}
