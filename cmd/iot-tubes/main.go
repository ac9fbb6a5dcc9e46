package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icarusnp1/iot-tubes/internal/binding"
	"github.com/icarusnp1/iot-tubes/internal/config"
	"github.com/icarusnp1/iot-tubes/internal/database"
	"github.com/icarusnp1/iot-tubes/internal/httpapi"
	"github.com/icarusnp1/iot-tubes/internal/logger"
	"github.com/icarusnp1/iot-tubes/internal/repository"
	"github.com/icarusnp1/iot-tubes/internal/service"
	"github.com/icarusnp1/iot-tubes/internal/session"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "iot-tubes")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	readings := repository.NewReadingsRepository(db, log)
	sessions := session.NewRedisStore(redisClient)
	publisher := binding.NewBrokerPublisher(&cfg.MQTT, log)
	binder := binding.NewService(publisher, sessions, cfg.Session.TTL, log)

	router := httpapi.NewRouter(log)
	router.RegisterSensorRoutes(httpapi.NewSensorHandler(readings, log))
	router.RegisterSessionRoutes(httpapi.NewSessionHandler(binder, cfg.Device.ID, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down on signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
}
