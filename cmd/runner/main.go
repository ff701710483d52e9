package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"taskcadence/internal/config"
	"taskcadence/internal/httpserver"
	"taskcadence/internal/repository"
	"taskcadence/internal/scheduler"
	"taskcadence/internal/service"
	"taskcadence/pkg/db"
	"taskcadence/pkg/logger"
	"taskcadence/pkg/mq"
	"taskcadence/pkg/redis"
	"taskcadence/pkg/util"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting cadence runner...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("cron", cfg.Scheduler.Cron),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Repositories
	policy := repository.TimestampLenient
	if cfg.Scheduler.StrictTimestamps {
		policy = repository.TimestampStrict
	}
	taskRepo := repository.NewTaskRepository(dbConn, log)
	execRepo := repository.NewExecutionRepository(dbConn, log, policy)
	recipRepo := repository.NewRecipientRepository(dbConn, log)

	// Selection pipeline + dispatch runner
	pipeline := scheduler.NewPipeline(log, cfg.Scheduler.HistoryDepth)
	dedupTTL := time.Duration(cfg.Scheduler.DedupTTLHours) * time.Hour
	deduper := util.NewDeduperWithLogger(rdb, dedupTTL, log)
	runner := service.NewRunner(taskRepo, execRepo, recipRepo, pipeline, publisher, deduper, log)

	// Cron-triggered evaluation
	c := cron.New()
	_, err = c.AddFunc(cfg.Scheduler.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := runner.RunOnce(ctx, time.Now()); err != nil {
			log.Error("Evaluation cycle failed", zap.Error(err))
		}
	})
	if err != nil {
		log.Fatal("Invalid cron spec", zap.String("cron", cfg.Scheduler.Cron), zap.Error(err))
	}
	c.Start()

	// Run once immediately so a restart does not wait for the next tick.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := runner.RunOnce(ctx, time.Now()); err != nil {
			log.Error("Initial evaluation cycle failed", zap.Error(err))
		}
	}()

	// HTTP server (health, metrics, operator endpoints)
	router := httpserver.NewRouter(log, dbConn, runner, cfg)
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("Cadence runner is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down cadence runner gracefully...")

	cronCtx := c.Stop()
	<-cronCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	publisher.Close()
	dbConn.Close()

	log.Info("Cadence runner shutdown complete")
}
