package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baramej/library-system/library/config"
	"github.com/baramej/library-system/library/internal/handler"
	"github.com/baramej/library-system/library/internal/notify"
	"github.com/baramej/library-system/library/internal/repository"
	"github.com/baramej/library-system/library/internal/scheduler"
	"github.com/baramej/library-system/library/internal/server"
	"github.com/baramej/library-system/library/internal/service"
	"github.com/baramej/library-system/library/migrations"
	"github.com/baramej/library-system/pkg/breaker"
	"github.com/baramej/library-system/pkg/kafka"
	"github.com/baramej/library-system/pkg/logger"
	"github.com/baramej/library-system/pkg/postgres"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repository init", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}
	cb := breaker.New(10, time.Second*5, 0.5, 3)
	sender := notify.NewKafkaSender(producer, cb, kafka.NotificationTopic, log)

	svc := service.NewService(repo, sender, log)

	consumerGroup, err := kafka.NewConsumerGroup(cfg.Kafka, kafka.NotificationConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumerGroup", zap.Error(err))
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	g, workerCtx := errgroup.WithContext(workerCtx)
	g.Go(func() error {
		kafka.Consume(workerCtx, consumerGroup, notify.NewConsumer(svc.DeliverNotification, log), log, kafka.NotificationTopic)
		return nil
	})
	g.Go(func() error {
		return scheduler.New(svc, cfg.Scheduler.Interval, log).Run(workerCtx)
	})

	h := handler.New(svc, svc, svc, svc, svc, svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second*5)
	defer closeCancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	cancel()
	if err = g.Wait(); err != nil {
		log.Error("workers stop", zap.Error(err))
	}
	if err = consumerGroup.Close(); err != nil {
		log.Error("consumerGroup.Close", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
