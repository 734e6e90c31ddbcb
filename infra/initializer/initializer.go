package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/amirasaad/bankdemo/infra"
	infracache "github.com/amirasaad/bankdemo/infra/cache"
	infra_eventbus "github.com/amirasaad/bankdemo/infra/eventbus"
	infra_provider "github.com/amirasaad/bankdemo/infra/provider"
	"github.com/amirasaad/bankdemo/infra/repository/deadletter"
	"github.com/amirasaad/bankdemo/pkg/cache"
	"github.com/amirasaad/bankdemo/pkg/config"
	"github.com/amirasaad/bankdemo/pkg/eventbus"
	"github.com/amirasaad/bankdemo/pkg/resilience"
)

const defaultRateTTL = time.Minute

// Container holds the wired dependencies and the resources to release on
// shutdown.
type Container struct {
	config.Deps
	// DeadLetters is nil when no database is configured.
	DeadLetters *deadletter.Repository

	closers []func(ctx context.Context) error
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i](ctx))
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) onClose(fn func(ctx context.Context) error) {
	c.closers = append(c.closers, fn)
}

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(ctx context.Context, cfg *config.App) (*Container, error) {
	logger := SetupLogger(cfg.Log)
	return initialize(ctx, cfg, logger)
}

func initialize(ctx context.Context, cfg *config.App, logger *slog.Logger) (*Container, error) {
	c := &Container{}
	c.Logger = logger
	c.Config = cfg

	repo, closeDB, err := initDeadLetterStore(cfg, logger)
	if err != nil {
		logger.Warn("Dead-letter store disabled", "error", err)
	}
	if repo != nil {
		c.DeadLetters = repo
		c.onClose(closeDB)
	}

	var recorder eventbus.DeadLetterRecorder
	if c.DeadLetters != nil {
		recorder = c.DeadLetters
	}
	bus, closeBus, err := initEventBus(ctx, cfg, recorder, logger)
	if err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	c.EventBus = bus
	c.onClose(closeBus)

	rateCache, closeCache := initRateCache(ctx, cfg, logger)
	if closeCache != nil {
		c.onClose(closeCache)
	}
	initProviders(c, cfg, rateCache, logger)

	logger.Info("Dependencies initialized",
		"notification_driver", notificationDriver(cfg),
		"rate_cache", rateCacheDriver(cfg),
		"dead_letters", c.DeadLetters != nil,
	)
	return c, nil
}

// initDeadLetterStore returns a nil repository when no database is
// configured. A configured but unusable database is reported as an error and
// the service runs without a dead-letter store.
func initDeadLetterStore(cfg *config.App, logger *slog.Logger) (*deadletter.Repository, func(context.Context) error, error) {
	if cfg.DB == nil || cfg.DB.Url == "" {
		return nil, nil, nil
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err := infra.Migrate(db, cfg.DB.MigrationsPath, logger); err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return deadletter.New(db), func(context.Context) error { return sqlDB.Close() }, nil
}

// initEventBus picks the notification transport. Brokers that cannot be
// reached at startup fall back to the in-memory bus so transfers keep
// working; notifications are best-effort anyway.
func initEventBus(
	ctx context.Context,
	cfg *config.App,
	recorder eventbus.DeadLetterRecorder,
	logger *slog.Logger,
) (eventbus.Bus, func(context.Context) error, error) {
	n := cfg.Notification
	if n == nil {
		n = &config.Notification{Driver: "memory", Topic: "notification-topic", QueueSize: 100}
	}

	var (
		target  eventbus.Bus
		name    = notificationDriver(cfg)
		release = func(context.Context) error { return nil }
	)

	switch name {
	case "memory":
		target = infra_eventbus.NewWithMemory(logger)
	case "kafka":
		if strings.TrimSpace(n.Brokers) == "" {
			return nil, nil, errors.New("kafka event bus requires NOTIFICATION_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(ctx, infra_eventbus.KafkaConfig{
			Brokers: n.Brokers,
			Topic:   n.Topic,
		}, logger)
		if err != nil {
			logger.Warn("Kafka unavailable, falling back to in-memory event bus", "error", err)
			name = "memory"
			target = infra_eventbus.NewWithMemory(logger)
			break
		}
		target = bus
		release = func(context.Context) error { return bus.Close() }
	case "redis":
		url := ""
		if cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, nil, errors.New("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(ctx, url, n.Topic, logger)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory event bus", "error", err)
			name = "memory"
			target = infra_eventbus.NewWithMemory(logger)
			break
		}
		target = bus
		release = func(context.Context) error { return bus.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown notification driver %q", n.Driver)
	}

	async := infra_eventbus.NewAsync(target, name, n.QueueSize, recorder, logger)
	closer := func(ctx context.Context) error {
		return errors.Join(async.Close(ctx), release(ctx))
	}
	return async, closer, nil
}

func initRateCache(ctx context.Context, cfg *config.App, logger *slog.Logger) (cache.RateTableCache, func(context.Context) error) {
	if rateCacheDriver(cfg) == "redis" && cfg.Redis != nil && cfg.Redis.URL != "" {
		prefix := "transfer:rates:"
		if cfg.RateCache != nil && cfg.RateCache.Prefix != "" {
			prefix = cfg.RateCache.Prefix
		}
		rc, err := infracache.NewRedisCache(cfg.Redis.URL, prefix, logger)
		if err == nil {
			err = rc.Ping(ctx)
		}
		if err == nil {
			return rc, func(context.Context) error { return rc.Close() }
		}
		logger.Warn("Redis rate cache unavailable, using in-memory cache", "error", err)
		if rc != nil {
			_ = rc.Close()
		}
	}
	return infracache.NewMemoryCache(), nil
}

// initProviders builds the outbound clients. Each collaborator gets its own
// policy so one failing service cannot open another's breaker.
func initProviders(c *Container, cfg *config.App, rateCache cache.RateTableCache, logger *slog.Logger) {
	clients := cfg.Clients
	if clients == nil {
		clients = &config.Clients{
			CustomerURL: "http://localhost:8081",
			FraudURL:    "http://localhost:8082",
			ExchangeURL: "http://localhost:8083",
		}
	}
	httpClient := &http.Client{Timeout: clients.HTTPTimeout}
	policyCfg := cfg.Resilience.Policy()

	c.Accounts = infra_provider.NewResilientAccountDirectory(
		infra_provider.NewCustomerClient(clients.CustomerURL, httpClient, logger),
		resilience.NewPolicy("customers", policyCfg, logger),
	)
	c.Fraud = infra_provider.NewResilientFraudChecker(
		infra_provider.NewFraudClient(clients.FraudURL, httpClient, logger),
		resilience.NewPolicy("fraud", policyCfg, logger),
	)

	ttl := defaultRateTTL
	if cfg.RateCache != nil && cfg.RateCache.TTL > 0 {
		ttl = cfg.RateCache.TTL
	}
	cached := infra_provider.NewCachedRateProvider(
		infra_provider.NewExchangeClient(clients.ExchangeURL, httpClient, logger),
		rateCache,
		ttl,
		logger,
	)
	c.Rates = infra_provider.NewResilientRateProvider(
		cached,
		resilience.NewPolicy("exchange", policyCfg, logger),
		nil,
	)
}

func notificationDriver(cfg *config.App) string {
	if cfg.Notification == nil || cfg.Notification.Driver == "" {
		return "memory"
	}
	return strings.ToLower(cfg.Notification.Driver)
}

func rateCacheDriver(cfg *config.App) string {
	if cfg.RateCache == nil || cfg.RateCache.Driver == "" {
		return "memory"
	}
	return strings.ToLower(cfg.RateCache.Driver)
}
