package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules"
	"github.com/grupovertice/intranet/modules/core/infrastructure/dispatch"
	coreservices "github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/pkg/application"
	"github.com/grupovertice/intranet/pkg/authz"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/configuration"
	"github.com/grupovertice/intranet/pkg/eventbus"
	"github.com/grupovertice/intranet/pkg/outbox"
	"github.com/grupovertice/intranet/pkg/schedule"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	connCtx, cancelConn := context.WithTimeout(context.Background(), time.Second*5)
	defer cancelConn()
	pool, err := pgxpool.New(connCtx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	app := application.New(pool, eventbus.NewEventPublisher(logger), logger)
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = composables.WithPool(ctx, pool)

	if err := decideBootstrap(ctx, app); err != nil {
		log.Fatalf("failed to decide authz bootstrap state: %v", err)
	}

	startOutboxBackground(ctx, conf, pool, logger, app)

	if conf.Prometheus.Enabled {
		go serveMetrics(conf, logger)
	}

	scheduler := schedule.NewScheduler(clockwork.NewRealClock(), logger.WithField("entrypoint", "server"))
	for _, job := range app.Jobs() {
		if err := scheduler.Register(job); err != nil {
			log.Fatalf("failed to register job: %v", err)
		}
	}

	logger.WithField("jobs", len(app.Jobs())).Info("server started")
	scheduler.Start(ctx)
	logger.Info("server stopped")
}

// decideBootstrap opens the authorization bootstrap window when no role has
// been assigned to anyone yet, so the very first administrator can be created.
func decideBootstrap(ctx context.Context, app application.Application) error {
	users := app.Service(&coreservices.UserService{}).(*coreservices.UserService)
	assigned, err := users.HasRoleAssignments(ctx)
	if err != nil {
		return err
	}
	authz.Use().SetBootstrapped(assigned)
	return nil
}

func startOutboxBackground(
	ctx context.Context,
	conf *configuration.Configuration,
	pool *pgxpool.Pool,
	logger *logrus.Logger,
	app application.Application,
) {
	outboxLog := logger.WithField("component", "outbox")
	table := coreservices.OutboxTable

	if conf.Outbox.RelayEnabled {
		fanout := app.Service(&coreservices.FanoutService{}).(*coreservices.FanoutService)
		relay, err := outbox.NewRelay(pool, table, dispatch.NewDispatcher(fanout, logger), outbox.RelayOptions{
			PollInterval:    conf.Outbox.RelayPollInterval,
			BatchSize:       conf.Outbox.RelayBatchSize,
			LockTTL:         conf.Outbox.RelayLockTTL,
			MaxAttempts:     conf.Outbox.RelayMaxAttempts,
			SingleActive:    conf.Outbox.RelaySingleActive,
			LastErrorMaxLen: conf.Outbox.LastErrorMaxBytes,
			DispatchTimeout: conf.Outbox.RelayDispatchTimeout,
			Logger:          outboxLog.WithField("table", outbox.TableLabel(table)),
		})
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create relay")
		} else {
			go func() {
				if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					outboxLog.WithError(err).Error("outbox: relay stopped")
				}
			}()
		}
	}

	if conf.Outbox.CleanerEnabled {
		cleaner, err := outbox.NewCleaner(pool, table, outbox.CleanerOptions{
			Enabled:   true,
			Interval:  conf.Outbox.CleanerInterval,
			Retention: conf.Outbox.CleanerRetention,
			Logger:    outboxLog.WithField("table", outbox.TableLabel(table)),
		})
		if err != nil {
			outboxLog.WithError(err).Warn("outbox: failed to create cleaner")
		} else {
			go func() {
				if err := cleaner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					outboxLog.WithError(err).Error("outbox: cleaner stopped")
				}
			}()
		}
	}
}

func serveMetrics(conf *configuration.Configuration, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(conf.Prometheus.Path, promhttp.Handler())
	logger.Infof("Prometheus metrics on %s%s", conf.Prometheus.Addr, conf.Prometheus.Path)
	if err := http.ListenAndServe(conf.Prometheus.Addr, mux); err != nil {
		logger.WithError(err).Error("metrics listener stopped")
	}
}
