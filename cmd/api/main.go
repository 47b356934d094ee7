package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Alumni_Network/internal/config"
	"Alumni_Network/internal/logger"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
	"Alumni_Network/internal/router"
	"Alumni_Network/internal/service"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return err
		}
	}
	if err := store.SeedRoles(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.New(cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	var mail pkg.Sender
	if cfg.SMTP.Enabled() {
		mail = pkg.NewMailer(cfg.SMTP)
	} else {
		log.Warn("smtp not configured, verification codes are logged")
	}

	var sender pkg.EventSender = &pkg.LogSender{Log: log}
	if cfg.Kafka.Enabled {
		sender = pkg.NewKafkaProducer(cfg.Kafka)
	}
	defer sender.Close()

	svcs := router.NewServices(router.Deps{DB: db, Redis: rdb, Mail: mail, Log: log, Config: cfg})

	gin.SetMode(cfg.Server.Mode)
	r, err := router.InitRouter(svcs, log)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	relayer := service.NewOutboxRelayer(&store.OutboxRepository{DB: db}, sender, log.Named("outbox"), cfg.Outbox)
	reconciler := service.NewConnectionCountReconciler(&store.ConnectionCountReconcilerRepo{DB: db},
		log.Named("reconciler"), cfg.Outbox.ReconcileInterval)
	wg.Add(2)
	go func() { defer wg.Done(); relayer.Run(ctx) }()
	go func() { defer wg.Done(); reconciler.Run(ctx) }()

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}
