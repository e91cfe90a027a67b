package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/ports"
	"dispatch/internal/tracing"
)

const shutdownTimeout = 10 * time.Second

type orderPublisher interface {
	ports.OrderEventPublisher
	io.Closer
}

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err = configs.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := newLogger(configs.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configs.TracingEnabled {
		shutdownTracer, err := tracing.InitTracer("dispatch", os.Stdout)
		if err != nil {
			log.Fatalf("Error initializing tracer: %v", err)
		}
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error("tracer shutdown failed", "error", err)
			}
		}()
	}

	var gormDB *gorm.DB
	if configs.StorageDriver == cmd.StorageDriverPostgres {
		gormDB = mustOpenDB(configs)
	}

	publisher := newPublisher(configs)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("publisher close failed", "error", err)
		}
	}()

	var redisClient redis.UniversalClient
	if configs.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
		defer client.Close()
		redisClient = client
	}

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, publisher, logger)

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	e, err := httpin.NewRouter(app.CreateHTTPServer(), logger)
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	go func() {
		logger.Info("http server starting", "port", configs.HTTPPort, "storage", configs.StorageDriver)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}

func mustOpenDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = gormDB.AutoMigrate(&orderrepo.OrderDTO{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

func newPublisher(configs cmd.Config) orderPublisher {
	brokers := configs.KafkaBrokers()
	if len(brokers) == 0 {
		return kafka.NopPublisher{}
	}
	return kafka.NewOrderChangedPublisher(kafka.NewWriter(brokers, configs.KafkaOrderChangedTopic))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
