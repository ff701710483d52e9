package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mqcontracts "taskcadence/contracts/mq"
	"taskcadence/internal/config"
	"taskcadence/internal/repository"
	"taskcadence/internal/service"
	"taskcadence/pkg/db"
	"taskcadence/pkg/logger"
	"taskcadence/pkg/mq"
	"taskcadence/pkg/redis"
	"taskcadence/pkg/util"
)

const dispatchQueue = "task.dispatch.worker"

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting dispatch worker...",
		zap.String("mq_url", cfg.MQ.URL),
		zap.String("agent_url", cfg.Agent.URL),
		zap.String("smtp_host", cfg.SMTP.Host),
	)

	// DB (execution log appends)
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Redis (retry counters)
	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()

	// MQ Publisher (sent/failed events + DLQ)
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	// DLQ topology must exist before the first failed message.
	dlqConn, err := mq.NewConnection(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to connect for DLQ declaration", zap.Error(err))
	}
	dlqCh, err := dlqConn.Channel()
	if err != nil {
		log.Fatal("Failed to open DLQ channel", zap.Error(err))
	}
	if err := mq.DeclareDLQExchange(dlqCh); err != nil {
		log.Fatal("Failed to declare DLQ exchange", zap.Error(err))
	}
	if _, err := mq.DeclareDLQQueue(dlqCh, mqcontracts.RoutingKeyTaskDispatch); err != nil {
		log.Fatal("Failed to declare DLQ queue", zap.Error(err))
	}
	dlqCh.Close()
	dlqConn.Close()

	// Handler dependencies
	policy := repository.TimestampLenient
	if cfg.Scheduler.StrictTimestamps {
		policy = repository.TimestampStrict
	}
	execRepo := repository.NewExecutionRepository(dbConn, log, policy)
	agent := service.NewAgentClient(cfg.Agent.URL)
	sender := service.NewEmailSender(cfg.SMTP, log)
	retries := util.NewRetryCounter(rdb, 24*time.Hour)

	handler := service.NewDispatchHandler(
		execRepo,
		agent,
		sender,
		publisher,
		retries,
		cfg.Dispatch.MaxRetries,
		log,
	)

	// Consumer
	consumer, err := mq.NewConsumer(cfg.MQ.URL, dispatchQueue, mqcontracts.RoutingKeyTaskDispatch, log)
	if err != nil {
		log.Fatal("Failed to init MQ consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(handler.Handle)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			log.Fatal("Consumer stopped with error", zap.Error(err))
		}
	}()

	log.Info("Dispatch worker is fully initialized and running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down dispatch worker gracefully...")

	consumer.Close()
	publisher.Close()
	dbConn.Close()

	log.Info("Dispatch worker shutdown complete")
}
