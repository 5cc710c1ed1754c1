package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"shopdesk/internal/config"
	"shopdesk/internal/currency"
	"shopdesk/internal/database"
	"shopdesk/internal/events"
	"shopdesk/internal/handlers"
	"shopdesk/internal/middleware"
	"shopdesk/internal/persistence"
	"shopdesk/internal/storage"
	"shopdesk/internal/store"
)

func main() {
	logger := setupLogger()

	if err := config.Load(logger); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	cfg := config.AppEnv
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	gin.SetMode(gin.ReleaseMode)

	kv, healthCheck, closeStorage := openStorage(cfg, logger)
	defer closeStorage()

	adapter := persistence.New(kv, logger, persistence.WithWriteHook(middleware.RecordPersistenceWrite))

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	snapshot, err := adapter.Load(loadCtx)
	cancel()
	if err != nil {
		logger.WithError(err).Fatal("failed to load persisted state")
	}
	logger.WithFields(logrus.Fields{
		"products": len(snapshot.Products),
		"orders":   len(snapshot.Orders),
		"phones":   len(snapshot.Database),
		"notes":    len(snapshot.Notes),
	}).Info("state loaded")

	st := store.New(snapshot, store.WithLogger(logger))
	st.Subscribe(adapter.Handle)

	if cfg.RabbitMQURL != "" {
		publisher, err := events.Dial(cfg.RabbitMQURL, cfg.StoreExchange, logger)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable, store events will not be published")
		} else {
			defer publisher.Close()
			st.Subscribe(publisher.Handle)
			logger.WithField("exchange", cfg.StoreExchange).Info("publishing store events")
		}
	}

	converter := currency.New(kv, logger,
		currency.WithEndpoint(cfg.ExchangeRateURL),
		currency.WithMaxAge(cfg.RateMaxAge),
		currency.WithRefreshInterval(cfg.RateRefreshInterval),
	)

	router := handlers.NewRouter(handlers.Deps{
		Store:          st,
		Rates:          converter,
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		PasscodeHash:   cfg.AccessPasscodeHash,
		AccessTokenTTL: cfg.AccessTokenTTL,
		HealthCheck:    healthCheck,
	})
	if !cfg.AuthEnabled() {
		logger.Warn("JWT_SECRET not set, mutating routes are open")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Warn("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server stopped")
}

func setupLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

// openStorage returns the configured backend, a reachability probe for
// /health and a close function.
func openStorage(cfg config.Config, logger *logrus.Logger) (storage.KV, func(context.Context) error, func()) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			logger.WithError(err).Fatal("mongo connection failed")
		}
		db := client.Database(cfg.DBName)
		logger.WithField("db", db.Name()).Info("MongoDB connected")

		if err := database.EnsureStorageIndexes(db, logger); err != nil {
			logger.WithError(err).Warn("storage index warning")
		}
		ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
		closeFn := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(ctx); err != nil {
				logger.WithError(err).Warn("mongo disconnect failed")
			}
		}
		return storage.NewMongo(db), ping, closeFn

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatal("redis connection failed")
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Redis connected")

		ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		closeFn := func() {
			if err := rdb.Close(); err != nil {
				logger.WithError(err).Warn("redis close failed")
			}
		}
		return storage.NewRedis(rdb, cfg.RedisPrefix), ping, closeFn
	}

	logger.Warn("using in-memory storage, state is lost on restart")
	return storage.NewMemory(), nil, func() {}
}
