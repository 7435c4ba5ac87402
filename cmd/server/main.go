package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luna/taskmanager/internal/config"
	"github.com/luna/taskmanager/internal/db"
	"github.com/luna/taskmanager/internal/events"
	"github.com/luna/taskmanager/internal/httpserver"
	"github.com/luna/taskmanager/internal/logging"
	"github.com/luna/taskmanager/internal/middleware/auth"
	"github.com/luna/taskmanager/internal/middleware/csrf"
	"github.com/luna/taskmanager/internal/migrations"
	"github.com/luna/taskmanager/internal/principal"
	"github.com/luna/taskmanager/internal/repo"
	"github.com/luna/taskmanager/internal/search"
	"github.com/luna/taskmanager/internal/service"
	"github.com/luna/taskmanager/internal/token"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	codec, err := token.NewCodec(cfg.TokenSigningKey)
	if err != nil {
		log.Fatalf("token signing key: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		cancel()
		log.Fatalf("db handle: %v", err)
	}
	if err := migrations.Migrate(ctx, cfg.DBDriver, cfg.DatabaseURL, sqlDB); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	cancel()

	var publisher events.Publisher = events.Discard{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	var indexer search.Indexer = search.Nop{}
	var searcher service.Searcher
	if cfg.SearchEnabled() {
		es, err := search.NewClient(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		indexer, searcher = es, es
		logger.Info("search_enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
	}

	r := repo.New(gdb)
	resolver := principal.NewResolver(r)

	taskSvc := service.NewTaskService(r, publisher, indexer)
	taskSvc.Searcher = searcher

	e := echo.New()
	e.HideBanner = true

	httpserver.Register(e, &httpserver.Deps{
		Logger:    logger,
		Gate:      auth.NewGate(codec, resolver),
		Policy:    auth.NewPolicy(auth.Authenticated, auth.DefaultRules()...),
		CSRF:      csrf.TokenAuthenticatedConfig(cfg.CSRFSecureCookie),
		Misc:      &httpserver.MiscHTTP{ServiceName: cfg.ServiceName, DB: gdb},
		Auth:      &httpserver.AuthHTTP{Svc: service.NewAuthService(r, resolver, codec, publisher)},
		TaskLists: &httpserver.TaskListHTTP{Svc: service.NewTaskListService(r, publisher, indexer)},
		Tasks:     &httpserver.TaskHTTP{Svc: taskSvc},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
