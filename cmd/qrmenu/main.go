package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/qr_menu/internal/authclient"
	"github.com/Skotchmaster/qr_menu/internal/cache"
	"github.com/Skotchmaster/qr_menu/internal/config"
	"github.com/Skotchmaster/qr_menu/internal/db"
	"github.com/Skotchmaster/qr_menu/internal/httpserver"
	"github.com/Skotchmaster/qr_menu/internal/hub"
	"github.com/Skotchmaster/qr_menu/internal/logging"
	loggingmw "github.com/Skotchmaster/qr_menu/internal/middleware/logging"
	"github.com/Skotchmaster/qr_menu/internal/mykafka"
	"github.com/Skotchmaster/qr_menu/internal/repo"
	"github.com/Skotchmaster/qr_menu/internal/search"
	"github.com/Skotchmaster/qr_menu/internal/service"
	"github.com/Skotchmaster/qr_menu/internal/upload"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(gdb)
	events := hub.New(logger)

	authSvc := &service.AuthService{Repo: r, Gateway: authclient.NewClient(cfg.AuthGatewayURL)}
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, session cache disabled", "error", err)
		} else {
			authSvc.Cache = cache.NewSessionCache(redisClient)
		}
	}

	sweepCtx, stopSweep := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopSweep()
	go authSvc.SweepExpired(sweepCtx, time.Hour)

	menuSvc := &service.MenuService{Repo: r}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("elasticsearch unavailable, menu search uses the database", "error", err)
		} else {
			menuSvc.Index = search.NewMenuIndex(es, cfg.ESMenuIndex)
		}
	}

	orderSvc := &service.OrderService{Repo: r, Hub: events, Topic: cfg.KafkaOrderTopic}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka unavailable, order stream disabled", "error", err)
		} else {
			orderSvc.Stream = producer
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Session-ID"},
	}))

	httpserver.Register(e, &httpserver.Deps{
		DB:            gdb,
		Hub:           events,
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		MenuHandler:   &httpserver.MenuHTTP{Svc: menuSvc},
		TableHandler:  &httpserver.TableHTTP{Svc: &service.TableService{Repo: r, FrontendURL: cfg.FrontendURL}},
		OrderHandler:  &httpserver.OrderHTTP{Svc: orderSvc},
		UploadHandler: &httpserver.UploadHTTP{
			Store:    &upload.DiskStore{Dir: cfg.UploadDir, BaseURL: cfg.PublicURL},
			MaxBytes: cfg.UploadMaxBytes,
			Dir:      cfg.UploadDir,
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	stopSweep()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka close", "error", err)
		}
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("stopped")
}
