package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wmx/internal/admin"
	"wmx/internal/auth"
	"wmx/internal/catalog"
	catalogrepo "wmx/internal/catalog/repository"
	"wmx/internal/config"
	"wmx/internal/httpx"
	"wmx/internal/infrastructure/kafka"
	"wmx/internal/infrastructure/logger"
	"wmx/internal/infrastructure/mysql"
	"wmx/internal/infrastructure/redisx"
	"wmx/internal/jobs"
	"wmx/internal/order"
	"wmx/internal/payment"
	"wmx/internal/reseller"
	"wmx/internal/server"
	"wmx/internal/user"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		zapLogger.Fatal("loading timezone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	db, err := mysql.NewConnection(cfg.Database, loc)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = mysql.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		zapLogger.Fatal("migrating schema", zap.Error(err))
	}

	rdb, err := redisx.New(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		zapLogger.Info("redis not configured, reseller sync guarded in-process only")
	}

	publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, zapLogger)
	defer publisher.Close()

	gateway := payment.NewMidtransGateway(cfg.Midtrans, zapLogger)

	responder := httpx.NewResponder(zapLogger, cfg.App.Debug)
	sessions := auth.NewSessionStore(cfg.Session)
	catalogRepo := catalogrepo.NewMySQLCatalogRepository(db)

	orderModule := order.NewModule(db, cfg, catalogRepo, gateway, publisher, responder, zapLogger)
	resellerModule := reseller.NewModule(db, cfg, catalogRepo, rdb, responder, zapLogger)

	router := server.NewRouter(server.Handlers{
		Catalog:  catalog.NewModule(catalogRepo, responder, zapLogger),
		Order:    orderModule.Controller,
		Payment:  payment.NewConfigController(cfg.Midtrans, responder),
		Admin:    admin.NewModule(db, loc, responder, zapLogger),
		Reseller: resellerModule.Controller,
		User:     user.NewModule(db, sessions, responder, zapLogger),
	}, auth.NewMiddleware(sessions, responder), responder)

	scheduler, err := jobs.NewScheduler(cfg.Jobs, loc, orderModule.Expirer, resellerModule.Syncer, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating scheduler", zap.Error(err))
	}
	scheduler.Start()

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server shutdown failed", zap.Error(err))
	}
	scheduler.Stop(ctx)

	zapLogger.Info("server stopped gracefully")
}
