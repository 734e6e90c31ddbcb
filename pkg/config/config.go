package config

import (
	"time"

	"github.com/amirasaad/bankdemo/pkg/resilience"
)

type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8085"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[transfer]"`
}

// DB configures the dead-letter store. The store is disabled when URL is empty.
type DB struct {
	Url            string `envconfig:"URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://infra/migrations"`
}

// Clients holds the base URLs of the downstream services.
type Clients struct {
	CustomerURL string        `envconfig:"CUSTOMER_URL" default:"http://localhost:8081"`
	FraudURL    string        `envconfig:"FRAUD_URL" default:"http://localhost:8082"`
	ExchangeURL string        `envconfig:"EXCHANGE_URL" default:"http://localhost:8083"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Resilience struct {
	MaxAttempts      int           `envconfig:"MAX_ATTEMPTS" default:"3"`
	InitialBackoff   time.Duration `envconfig:"INITIAL_BACKOFF" default:"100ms"`
	MaxBackoff       time.Duration `envconfig:"MAX_BACKOFF" default:"2s"`
	Multiplier       float64       `envconfig:"MULTIPLIER" default:"2"`
	CallTimeout      time.Duration `envconfig:"CALL_TIMEOUT" default:"5s"`
	FailureThreshold int           `envconfig:"FAILURE_THRESHOLD" default:"5"`
	OpenTimeout      time.Duration `envconfig:"OPEN_TIMEOUT" default:"30s"`
}

// Policy converts the settings to a resilience.Config.
func (r *Resilience) Policy() resilience.Config {
	if r == nil {
		return resilience.DefaultConfig()
	}
	return resilience.Config{
		MaxAttempts:      r.MaxAttempts,
		InitialBackoff:   r.InitialBackoff,
		MaxBackoff:       r.MaxBackoff,
		Multiplier:       r.Multiplier,
		CallTimeout:      r.CallTimeout,
		FailureThreshold: r.FailureThreshold,
		OpenTimeout:      r.OpenTimeout,
	}
}

type RateCache struct {
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"1m"`
	Prefix string        `envconfig:"PREFIX" default:"transfer:rates:"`
}

type Redis struct {
	URL string `envconfig:"URL" default:"redis://localhost:6379/0"`
}

// Notification configures where notification events are published.
// Driver is one of memory, kafka or redis.
type Notification struct {
	Driver    string `envconfig:"DRIVER" default:"memory"`
	Topic     string `envconfig:"TOPIC" default:"notification-topic"`
	Brokers   string `envconfig:"BROKERS" default:"localhost:9092"`
	QueueSize int    `envconfig:"QUEUE_SIZE" default:"100"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type App struct {
	Env          string        `envconfig:"APP_ENV" default:"development"`
	Server       *Server       `envconfig:"SERVER"`
	Log          *Log          `envconfig:"LOG"`
	DB           *DB           `envconfig:"DATABASE"`
	Clients      *Clients      `envconfig:"CLIENT"`
	Resilience   *Resilience   `envconfig:"RESILIENCE"`
	RateCache    *RateCache    `envconfig:"RATE_CACHE"`
	Redis        *Redis        `envconfig:"REDIS"`
	Notification *Notification `envconfig:"NOTIFICATION"`
	RateLimit    *RateLimit    `envconfig:"RATE_LIMIT"`
}
