package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/database"
	"github.com/icarusnp1/iot-tubes/internal/ingest"
	"github.com/icarusnp1/iot-tubes/internal/logger"
	"github.com/icarusnp1/iot-tubes/internal/mqtt"
	"github.com/icarusnp1/iot-tubes/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "iot-tubes-ingest")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	mqttClient, err := mqtt.NewClient(&cfg.MQTT, log)
	if err != nil {
		log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
	}
	defer mqttClient.Disconnect()

	readings := repository.NewReadingsRepository(db, log)
	consumer := ingest.NewConsumer(cfg, mqttClient, readings, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down on signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error("Telemetry consumer stopped", zap.Error(err))
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = consumer.Stop(stopCtx)
}
