package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vitrina/internal/company"
	"vitrina/internal/config"
	"vitrina/internal/events"
	"vitrina/internal/infrastructure/logger"
	"vitrina/internal/infrastructure/metrics"
	"vitrina/internal/infrastructure/mysql"
	natsconn "vitrina/internal/infrastructure/nats"
	redisclient "vitrina/internal/infrastructure/redis"
	"vitrina/internal/product"
	"vitrina/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Service.Name)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	db, err := mysql.NewConnection(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	var redisClient *goredis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redisclient.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			zapLogger.Warn("redis unavailable, tenant cache disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			zapLogger.Info("redis connected")
		}
	}

	var publisherConn events.Conn
	if cfg.NATS.URL != "" {
		var nc *nats.Conn
		nc, err = natsconn.Connect(cfg.NATS.URL, cfg.Service.Name, zapLogger)
		if err != nil {
			zapLogger.Warn("nats unavailable, catalog events disabled", zap.Error(err))
		} else {
			defer nc.Drain()
			publisherConn = nc
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	tenants := company.NewModule(db, redisClient, cfg.Redis.TenantCacheTTL, zapLogger)
	publisher := events.NewPublisher(publisherConn, cfg.NATS.SubjectPrefix)
	productCtrl := product.NewModule(db, tenants, publisher, m, cfg.Catalog, zapLogger)

	router := server.NewRouter(productCtrl, m, db, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
