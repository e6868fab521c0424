package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gimvic/schedule-sync/internal/handler"
	"github.com/gimvic/schedule-sync/internal/middleware"
	"github.com/gimvic/schedule-sync/internal/service"
	"github.com/gimvic/schedule-sync/internal/source"
	"github.com/gimvic/schedule-sync/pkg/cache"
	"github.com/gimvic/schedule-sync/pkg/config"
	"github.com/gimvic/schedule-sync/pkg/database"
	"github.com/gimvic/schedule-sync/pkg/jobs"
	"github.com/gimvic/schedule-sync/pkg/logger"
	corsmiddleware "github.com/gimvic/schedule-sync/pkg/middleware/cors"
	reqidmiddleware "github.com/gimvic/schedule-sync/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	metrics := service.NewMetricsService()
	status := service.NewStatusService(redisClient)
	auth := service.NewAuthService(cfg.Auth)
	store := service.NewSQLStore(db)
	sync := service.NewSyncService(store, cfg.Update.RequestTimeout, logr, metrics)

	sources := []source.Source{
		source.NewEClassroom(cfg.EClassroom, cfg.Update.RequestTimeout),
		source.NewTimetable(cfg.Timetable),
		source.NewMenu(cfg.Menu, cfg.Update.RequestTimeout, logr),
		source.NewSolsis(cfg.Solsis),
	}

	scheduler := jobs.NewScheduler(cfg.Update.Interval, logr)
	for _, src := range sources {
		src := src
		scheduler.Register(src.Name(), func(ctx context.Context) error {
			result, err := sync.Run(ctx, src)
			if result != nil {
				if recErr := status.Record(ctx, result); recErr != nil {
					logr.Warn("failed to record run result",
						zap.String("source", src.Name()), zap.Error(recErr))
				}
			}
			return err
		})
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	ops := handler.NewOpsHandler(db, redisClient, status, metrics, scheduler)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/status", ops.Status)
	r.GET("/metrics", ops.Prometheus)
	r.POST("/runs/:source", middleware.JWT(auth), ops.TriggerRun)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logr.Sugar().Errorw("server failed", "error", err)
	}

	scheduler.Stop()
	logr.Info("shutdown complete")
}
