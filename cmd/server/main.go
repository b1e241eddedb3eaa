package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/oggyb/habesha-match/internal/app"
	"github.com/oggyb/habesha-match/internal/bot"
	"github.com/oggyb/habesha-match/internal/cache"
	"github.com/oggyb/habesha-match/internal/config"
	"github.com/oggyb/habesha-match/internal/db"
	"github.com/oggyb/habesha-match/internal/dialogue"
	"github.com/oggyb/habesha-match/internal/dispatch"
	"github.com/oggyb/habesha-match/internal/httpapi"
	"github.com/oggyb/habesha-match/internal/logger"
	"github.com/oggyb/habesha-match/internal/metrics"
	"github.com/oggyb/habesha-match/internal/notify"
	"github.com/oggyb/habesha-match/internal/repository"
	"github.com/oggyb/habesha-match/internal/server"
	"github.com/oggyb/habesha-match/internal/service/discovery"
	"github.com/oggyb/habesha-match/internal/service/gateway"
	"github.com/oggyb/habesha-match/internal/service/match"
	"github.com/oggyb/habesha-match/internal/session"
)

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB (migrates and seeds the interest catalog)
	database, err := db.NewDB(cfg)
	if err != nil {
		return err
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		return err
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	m := metrics.New()
	appCtx := app.New(cfg, database, redisCache, log, m)

	users := repository.NewUserRepository(database)
	sessions := session.NewRedisStore(redisCache.Client, cfg.Bot.SessionTTL)
	engine := dialogue.NewEngine(sessions, users, repository.NewReportRepository(database), m, log)

	queue := notify.NewRedisQueue(redisCache.Client, cfg.Notify.Queue)
	var messenger notify.Messenger = notify.LogMessenger{Log: log}
	if cfg.Notify.OutboundURL != "" {
		messenger = notify.NewHTTPMessenger(cfg.Notify.OutboundURL, 10*time.Second)
	}
	worker := notify.NewWorker(queue, users, messenger, notify.WorkerConfig{
		MaxRetries:  cfg.Notify.MaxRetries,
		BaseBackoff: cfg.Notify.BaseBackoff,
	}, m, log)

	router := bot.NewRouter(appCtx,
		engine,
		discovery.NewDiscoveryService(appCtx),
		match.NewMatchService(appCtx, queue),
	)
	lanes := dispatch.New(dispatch.Options{
		RPS:     cfg.Bot.InboundRPS,
		Burst:   cfg.Bot.InboundBurst,
		Metrics: m,
		Logger:  log,
	})

	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Handler:    router,
			Dispatcher: lanes,
			Messenger:  messenger,
			Metrics:    m,
			Logger:     log,
			Secret:     cfg.HTTP.WebhookSecret,
			Checks: map[string]httpapi.Check{
				"db": func(ctx context.Context) error {
					sqlDB, err := database.DB()
					if err != nil {
						return err
					}
					return sqlDB.PingContext(ctx)
				},
				"redis": redisCache.Ping,
			},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := server.Listen(cfg)
	if err != nil {
		return err
	}
	grpcSrv := server.NewGRPCServer(log, gateway.NewRegistrar(appCtx, router, lanes))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting gRPC server", "addr", lis.Addr().String())
		return grpcSrv.Serve(gctx, lis, shutdownGrace)
	})

	g.Go(func() error {
		log.Info("starting HTTP server", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		// drain lanes after the transports stop feeding them
		if cerr := lanes.Close(shutdownCtx); cerr != nil {
			log.Warn("dispatch lanes did not drain", "err", cerr)
		}
		return err
	})

	g.Go(func() error {
		log.Info("starting notification worker", "queue", cfg.Notify.Queue)
		return worker.Run(gctx)
	})

	err = g.Wait()
	log.Info("shutdown complete")
	return err
}
