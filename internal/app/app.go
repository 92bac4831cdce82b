package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/checkin"
	"github.com/riskibarqy/matchday/internal/domain/gate"
	"github.com/riskibarqy/matchday/internal/domain/match"
	"github.com/riskibarqy/matchday/internal/domain/matchevent"
	"github.com/riskibarqy/matchday/internal/domain/member"
	"github.com/riskibarqy/matchday/internal/domain/payment"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/infrastructure/ratelimit"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday/internal/infrastructure/stream"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday/internal/interfaces/livefeed"
	"github.com/riskibarqy/matchday/internal/observability"
	"github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/sourcegraph/conc"
)

// App owns the HTTP server, the background clock ticker, the live feed hub
// and every outbound connection opened while wiring them.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	server  *http.Server
	clocks  *usecase.ClockRegistry
	hub     *livefeed.Hub
	closers []closer
}

type closer struct {
	name string
	fn   func() error
}

type stores struct {
	matches  match.Repository
	events   matchevent.Repository
	rosters  roster.Repository
	payments payment.Repository
	members  member.Repository
	checkins checkin.Repository
	limiter  gate.RateLimitStore
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	st, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	ids := id.NewUUIDGenerator()
	idempotency := usecase.NewIdempotencyGate(st.events, st.payments, logger)
	limiter := usecase.NewRateLimitGate(st.limiter, policiesFromConfig(cfg), logger)
	projections := usecase.NewProjectionService(st.events, st.matches, logger)
	clocks := usecase.NewClockRegistry(st.matches, logger)
	clocks.SetTickInterval(cfg.ClockTickInterval)

	services := httpapi.Services{
		Events:      usecase.NewMatchEventService(st.matches, st.events, st.rosters, idempotency, limiter, projections, clocks, logger),
		Matches:     usecase.NewMatchService(st.matches, st.rosters, ids),
		Projections: projections,
		Clocks:      clocks,
		CheckIns:    usecase.NewCheckInService(st.checkins, st.matches, st.rosters, limiter, ids, logger),
		Payments:    usecase.NewPaymentService(st.payments, idempotency, ids, logger),
		Members:     usecase.NewMemberService(st.members),
	}

	for _, p := range []interface{ SetPersistenceTimeout(time.Duration) }{
		idempotency, limiter, projections, clocks,
		services.Events, services.Matches, services.CheckIns, services.Payments, services.Members,
	} {
		p.SetPersistenceTimeout(cfg.PersistenceTimeout)
	}

	hub := livefeed.NewHub(projections, clocks, livefeed.Options{
		SendBuffer:     cfg.LiveFeedBufferSize,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)
	projections.SetBroadcaster(hub)
	clocks.SetBroadcaster(hub)

	if cfg.KafkaEnabled {
		kafkaCfg := stream.KafkaConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			ClientID: cfg.KafkaClientID,
			Circuit:  circuitFromConfig(cfg.KafkaCircuit),
		}
		producer, err := stream.NewKafkaProducer(kafkaCfg)
		if err != nil {
			return nil, err
		}
		publisher := stream.NewKafkaPublisher(producer, kafkaCfg, logger)
		a.closers = append(a.closers, closer{name: "kafka producer", fn: publisher.Close})
		services.Events.SetPublisher(publisher)
		logger.Info("kafka publisher enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	routerOpts := httpapi.RouterOptions{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalToken:      cfg.InternalToken,
		LiveFeed:           hub,
		Ingress:            httpapi.NewIngressLimiter(cfg.IngressRatePerSec, cfg.IngressBurst),
	}
	if cfg.MetricsEnabled {
		metrics := observability.NewMetrics()
		idempotency.SetMetrics(metrics)
		limiter.SetMetrics(metrics)
		services.Events.SetMetrics(metrics)
		hub.SetMetrics(metrics)
		routerOpts.Metrics = metrics
		routerOpts.MetricsHandler = metrics.Handler()
	}

	handler := httpapi.NewHandler(services, httpapi.HandlerOptions{
		IdempotencyTTL: cfg.IdempotencyTTL,
		RebuildWorkers: cfg.RebuildMaxWorkers,
	}, logger)

	a.clocks = clocks
	a.hub = hub
	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, routerOpts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	ok = true
	return a, nil
}

// Handler exposes the composed router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and drives the clock ticker until ctx is cancelled or the
// listener fails, then shuts everything down within cfg.ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var background conc.WaitGroup
	background.Go(func() { a.clocks.Run(ctx) })
	background.Go(func() { a.hub.Run(ctx) })

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr, "store_backend", a.cfg.StoreBackend)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			runErr = crerr.Wrap(err, "http server")
		}
	}

	// Live clients get a close frame before the listener goes away.
	cancel()
	background.Wait()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("graceful shutdown failed", "error", err)
		if runErr == nil {
			runErr = crerr.Wrap(err, "shutdown http server")
		}
	}

	a.close()
	a.logger.Info("http server stopped")
	return runErr
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	var st stores
	switch a.cfg.StoreBackend {
	case config.StorePostgres:
		db, err := openPostgres(ctx, a.cfg)
		if err != nil {
			return stores{}, err
		}
		a.closers = append(a.closers, closer{name: "postgres", fn: db.Close})

		if a.cfg.SeedDemoData {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return stores{}, err
			}
		}

		st = stores{
			matches:  postgres.NewMatchRepository(db),
			events:   postgres.NewEventRepository(db),
			rosters:  postgres.NewRosterRepository(db),
			payments: postgres.NewPaymentRepository(db),
			members:  postgres.NewMemberRepository(db),
			checkins: postgres.NewCheckInRepository(db),
			limiter:  postgres.NewRateLimiter(db),
		}
		if a.cfg.CacheEnabled {
			st.rosters = cache.NewRosterRepository(st.rosters, a.cfg.CacheTTL)
			st.members = cache.NewMemberRepository(st.members, a.cfg.CacheTTL)
		}
	default:
		var (
			seedMatches []match.Match
			seedMembers []member.Member
			seedRosters []roster.Roster
		)
		if a.cfg.SeedDemoData {
			seedMatches = memory.SeedMatches()
			seedMembers = memory.SeedMembers()
			seedRosters = memory.SeedRosters()
		}
		matches := memory.NewMatchRepository(seedMatches)
		st = stores{
			matches:  matches,
			events:   memory.NewEventRepository(matches),
			rosters:  memory.NewRosterRepository(seedRosters),
			payments: memory.NewPaymentRepository(),
			members:  memory.NewMemberRepository(seedMembers),
			checkins: memory.NewCheckInRepository(),
			limiter:  memory.NewRateLimiter(),
		}
	}

	if a.cfg.RateLimitBackend == config.RateLimitRedis {
		opts := ratelimit.RedisOptions{
			Addr:      a.cfg.RedisAddr,
			Password:  a.cfg.RedisPassword,
			DB:        a.cfg.RedisDB,
			KeyPrefix: a.cfg.RedisKeyPrefix,
			Circuit:   circuitFromConfig(a.cfg.RedisCircuit),
		}
		client := ratelimit.NewRedisClient(opts)
		a.closers = append(a.closers, closer{name: "redis", fn: client.Close})

		pingCtx, cancel := context.WithTimeout(ctx, a.cfg.PersistenceTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// The gate fails closed until Redis answers.
			a.logger.Warn("redis ping failed", "addr", a.cfg.RedisAddr, "error", err)
		}
		st.limiter = ratelimit.NewRedisStore(client, opts, a.logger)
	}

	a.logger.Info("stores ready",
		"store_backend", a.cfg.StoreBackend,
		"rate_limit_backend", a.cfg.RateLimitBackend,
		"seed_demo_data", a.cfg.SeedDemoData,
	)
	return st, nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.logger.Warn("close dependency failed", "dependency", c.name, "error", err)
		}
	}
	a.closers = nil
}

func policiesFromConfig(cfg config.Config) map[gate.Class]gate.Policy {
	return map[gate.Class]gate.Policy{
		gate.ClassCheckIn: {Class: gate.ClassCheckIn, Limit: cfg.CheckinLimit, Window: cfg.CheckinWindow},
		gate.ClassEvents:  {Class: gate.ClassEvents, Limit: cfg.EventsLimit, Window: cfg.EventsWindow},
	}
}

func circuitFromConfig(c config.CircuitConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          c.Enabled,
		FailureThreshold: c.FailureCount,
		OpenTimeout:      c.OpenTimeout,
		HalfOpenMaxReq:   c.HalfOpenMaxReqs,
	}
}
