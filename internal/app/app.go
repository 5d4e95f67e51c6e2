// Package app assembles the task board from configuration. The server and
// the taskctl command share it so both talk to the same stores the same way.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	redislib "github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskboard/api/handler"
	"github.com/fastygo/taskboard/internal/config"
	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
	"github.com/fastygo/taskboard/internal/infrastructure/events"
	"github.com/fastygo/taskboard/internal/infrastructure/metrics"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/taskboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/taskboard/internal/infrastructure/redis"
	"github.com/fastygo/taskboard/internal/middleware"
	"github.com/fastygo/taskboard/internal/router"
	"github.com/fastygo/taskboard/internal/services"
	"github.com/fastygo/taskboard/internal/services/lifecycle"
	"github.com/fastygo/taskboard/pkg/calendar"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/repository/memory"
	"github.com/fastygo/taskboard/repository/postgres"
	redisRepo "github.com/fastygo/taskboard/repository/redis"
	"github.com/fastygo/taskboard/usecase"
	notificationUC "github.com/fastygo/taskboard/usecase/notification"
	projectUC "github.com/fastygo/taskboard/usecase/project"
	"github.com/fastygo/taskboard/usecase/sweep"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

// App holds every wired component. Optional components are nil when their
// backing service is disabled.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Manager *lifecycle.Manager
	Clock   calendar.Clock

	Pool     *pgxpool.Pool
	Redis    *redislib.Client
	NATS     *nats.Conn
	Buffer   *buffer.Store
	Monitor  *monitor.Monitor
	Metrics  *metrics.Metrics
	Projects repository.ProjectRepository
	Tasks    repository.TaskRepository

	Processor *services.BufferProcessor
	Cache     repository.ProjectCache
	Scheduler *services.SweepScheduler

	ProjectUC      *projectUC.UseCase
	TaskUC         *taskUC.UseCase
	NotificationUC *notificationUC.UseCase
	Sweeper        *sweep.Sweeper
}

// Options trims the graph for callers that only need the core.
type Options struct {
	// Background starts the monitor loop, buffer processor and sweep
	// scheduler.
	Background bool
	// Clock replaces the wall clock, e.g. to replay a sweep for a given day.
	Clock calendar.Clock
}

// Build connects to the configured stores and wires the use cases. Every
// resource opened is registered with the returned manager; callers must call
// Manager.Shutdown when done, also when Build fails.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Manager: lifecycle.New(cfg.Context.ShutdownTimeout, logger),
	}

	clock, err := calendar.NewSystemClock(zoneName(cfg.Sweep.Timezone))
	if err != nil {
		return a, fmt.Errorf("app: timezone: %w", err)
	}
	a.Clock = clock
	if opts.Clock != nil {
		a.Clock = opts.Clock
	}

	if err := a.openStore(ctx); err != nil {
		return a, err
	}
	if err := a.openRedis(ctx); err != nil {
		return a, err
	}
	if err := a.openNATS(); err != nil {
		return a, err
	}
	if cfg.Metrics.Enabled {
		a.Metrics = metrics.New(cfg.Metrics.Namespace)
	}

	var monOpts []monitor.Option
	if a.Pool != nil {
		monOpts = append(monOpts, monitor.WithPostgres(a.Pool))
	}
	monOpts = append(monOpts, monitor.WithRedis(a.Redis), monitor.WithNATS(a.NATS))

	var writeBuffer usecase.OperationBuffer
	if cfg.Buffer.Enabled {
		store, err := buffer.Open(cfg.Buffer.Path, "")
		if err != nil {
			return a, fmt.Errorf("app: open buffer: %w", err)
		}
		a.Buffer = store
		a.Manager.RegisterCloser("buffer", store.Close)
		monOpts = append(monOpts, monitor.WithBuffer(store))
	}

	a.Monitor = monitor.New(10*time.Second, logger, monOpts...)
	a.Monitor.Refresh(ctx)

	if a.Redis != nil {
		a.Cache = redisRepo.NewProjectCache(a.Redis, cfg.Redis.KeyPrefix, cfg.Redis.CacheTTL)
	}

	if a.Buffer != nil {
		a.Processor = services.NewBufferProcessor(a.Buffer, a.Monitor, a.Projects, a.Tasks, a.Cache, logger, services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  cfg.Buffer.BatchSize,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		})
		writeBuffer = services.NewBufferBridge(a.Processor)
	}

	a.wireUseCases(writeBuffer)

	if a.Metrics != nil && a.Processor != nil {
		processor := a.Processor
		a.Metrics.Gauge("buffer_pending_writes", "Writes waiting in the offline buffer.", func() float64 {
			return float64(processor.Size())
		})
	}

	if cfg.Sweep.Schedule != "" {
		a.Scheduler, err = services.NewSweepScheduler(cfg.Sweep.Schedule, clock.Location, a.Sweeper, cfg.Context.ShutdownTimeout, logger)
		if err != nil {
			return a, fmt.Errorf("app: SWEEP_SCHEDULE: %w", err)
		}
	}

	if opts.Background {
		a.startBackground()
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	if !a.Config.UsesPostgres() {
		store := memory.New()
		a.Projects = store.Projects()
		a.Tasks = store.Tasks()
		a.Logger.Info("using in-memory store")
		return nil
	}

	if err := pgInfra.RunMigrations(a.Config, a.Logger); err != nil {
		return fmt.Errorf("app: migrations: %w", err)
	}
	pool, err := pgInfra.NewPool(ctx, a.Config.Database, a.Logger)
	if err != nil {
		return fmt.Errorf("app: postgres: %w", err)
	}
	a.Pool = pool
	a.Manager.Register("postgres", func(context.Context) error {
		pgInfra.Close(pool, a.Logger)
		return nil
	})
	a.Projects = postgres.NewProjectRepository(pool)
	a.Tasks = postgres.NewTaskRepository(pool)
	return nil
}

// openRedis connects when Redis is enabled. A dead Redis only costs the
// cache, so the failure is logged and the board carries on without it.
func (a *App) openRedis(ctx context.Context) error {
	if !a.Config.Redis.Enabled {
		return nil
	}
	client, err := redisInfra.NewClient(ctx, a.Config.Redis)
	if err != nil {
		a.Logger.Warn("redis unavailable, running without cache", zap.Error(err))
		return nil
	}
	a.Redis = client
	a.Manager.RegisterCloser("redis", client.Close)
	return nil
}

func (a *App) openNATS() error {
	if a.Config.Events.NATSURL == "" {
		return nil
	}
	nc, err := events.Connect(a.Config.Events.NATSURL, a.Config.AppName, a.Logger)
	if err != nil {
		return fmt.Errorf("app: nats: %w", err)
	}
	a.NATS = nc
	a.Manager.Register("nats", func(context.Context) error {
		return nc.Drain()
	})
	return nil
}

func (a *App) wireUseCases(writeBuffer usecase.OperationBuffer) {
	cfg := a.Config

	cache := a.Cache
	var ledger repository.NotificationLedger = memory.NewLedger()
	if a.Redis != nil {
		ledger = redisRepo.NewNotificationLedger(a.Redis, cfg.Notifications.TTL)
	}

	taskOpts := []taskUC.Option{taskUC.WithClock(a.Clock)}
	sweepOpts := []sweep.Option{}
	if cache != nil {
		taskOpts = append(taskOpts, taskUC.WithCache(cache))
		sweepOpts = append(sweepOpts, sweep.WithCache(cache))
	}
	if a.NATS != nil {
		publisher := events.NewPublisher(a.NATS, cfg.Events.Subject)
		taskOpts = append(taskOpts, taskUC.WithPublisher(publisher))
		sweepOpts = append(sweepOpts, sweep.WithPublisher(publisher))
	}
	if a.Metrics != nil {
		sweepOpts = append(sweepOpts, sweep.WithObserver(a.Metrics))
	}

	a.ProjectUC = projectUC.New(a.Projects, cache, writeBuffer, a.Logger)
	a.TaskUC = taskUC.New(a.Tasks, writeBuffer, a.Logger, taskOpts...)
	a.NotificationUC = notificationUC.New(a.Tasks, ledger, a.Clock, cfg.Notifications.NearDueDays, a.Logger)
	a.Sweeper = sweep.New(a.Tasks, a.Clock, a.Logger, sweepOpts...)
}

func (a *App) startBackground() {
	a.Monitor.Start()
	a.Manager.Register("monitor", func(context.Context) error {
		a.Monitor.Stop()
		return nil
	})
	if a.Processor != nil {
		a.Processor.Start()
		a.Manager.Register("buffer_processor", func(ctx context.Context) error {
			a.Processor.Stop(ctx)
			return nil
		})
	}
	if a.Scheduler != nil {
		a.Scheduler.Start()
		a.Manager.Register("sweep_scheduler", func(ctx context.Context) error {
			a.Scheduler.Stop(ctx)
			return nil
		})
	}
}

// Handler builds the HTTP entry point with every middleware applied.
func (a *App) Handler() fasthttp.RequestHandler {
	cfg := a.Config
	adapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	locale := cfg.Notifications.Locale

	handlers := router.Handlers{
		Project:      apiHandler.NewProjectHandler(a.ProjectUC, a.TaskUC, locale, adapter, a.Logger),
		Task:         apiHandler.NewTaskHandler(a.TaskUC, locale, adapter, a.Logger),
		Sweep:        apiHandler.NewSweepHandler(a.Sweeper, adapter, a.Logger),
		Notification: apiHandler.NewNotificationHandler(a.NotificationUC, adapter, a.Logger),
		Health:       apiHandler.NewHealthHandler(a.Monitor, adapter, a.Logger),
	}
	mws := []router.Middleware{middleware.CORS(cfg.HTTP.CORSOrigin)}
	if a.Metrics != nil {
		handlers.Metrics = a.Metrics.Handler()
		mws = append(mws, a.Metrics.Middleware)
	}

	r := router.New(handlers, middleware.JWTAuth(cfg.JWT.Secret, a.Logger))
	return router.Chain(r.Handler, mws...)
}

// zoneName maps the "Local" setting onto the process zone.
func zoneName(tz string) string {
	if tz == "Local" {
		return ""
	}
	return tz
}
