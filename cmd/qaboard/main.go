package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qaboard/internal/common/cache"
	"qaboard/internal/common/http/middleware"
	"qaboard/internal/common/metrics"
	"qaboard/internal/common/mq"
	"qaboard/internal/qa/auth"
	"qaboard/internal/qa/controller"
	"qaboard/internal/qa/repository"
	"qaboard/internal/qa/service"
	"qaboard/internal/qa/viewstore"
	"qaboard/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/qaboard.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(appCfg); err != nil {
		logger.Error(context.Background(), "qaboard stopped", zap.Error(err))
	}
}

func run(appCfg *AppConfig) error {
	ctx := context.Background()

	dataset, err := repository.LoadDefault(time.Now())
	if err != nil {
		return fmt.Errorf("load dataset failed: %w", err)
	}

	var (
		store      viewstore.Store
		checks     []func(context.Context) error
		redisCache *cache.RedisCache
	)
	switch appCfg.Views.Store {
	case "redis":
		redisCache, err = cache.NewRedisCacheWithConfig(&appCfg.Redis)
		if err != nil {
			return fmt.Errorf("init redis failed: %w", err)
		}
		defer func() { _ = redisCache.Close() }()
		store = viewstore.NewRedisStore(redisCache, appCfg.Views.TTL, appCfg.Redis.ReadTimeout)
		checks = append(checks, redisCache.Ping)
	default:
		store = viewstore.NewMemoryStore(appCfg.Views.MaxEntries, appCfg.Views.TTL)
	}

	var submitter service.DraftSubmitter = service.LogSubmitter{}
	if appCfg.Submit.Mode == "kafka" {
		producer, err := mq.NewKafkaProducer(appCfg.Kafka)
		if err != nil {
			return fmt.Errorf("init kafka failed: %w", err)
		}
		defer func() { _ = producer.Close() }()
		submitter = service.NewKafkaSubmitter(producer, appCfg.Submit.Topic)
		checks = append(checks, producer.Ping)
	}

	var creds auth.CredentialProvider = auth.PresenceProvider{}
	if appCfg.Auth.Mode == "jwt" {
		creds = auth.NewJWTProvider(appCfg.Auth.JWTSecret, appCfg.Auth.JWTIssuer)
	}

	m := metrics.New()
	views := service.NewViewService(dataset, store, service.ViewServiceOptions{
		Credentials: creds,
		Submitter:   submitter,
		Viewer:      appCfg.Viewer,
		Metrics:     m,
	})

	httpServer := buildHTTPServer(appCfg, views, m, readiness(checks))
	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("init http listener failed: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "qaboard http server started",
			zap.String("addr", appCfg.Server.Addr),
			zap.String("view_store", appCfg.Views.Store),
			zap.String("auth_mode", appCfg.Auth.Mode),
			zap.String("submit_mode", appCfg.Submit.Mode),
		)
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped: %w", err)
		}
	case <-shutdownCtx.Done():
		logger.Info(ctx, "shutdown signal received")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(timeoutCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

// readiness fails on the first failing dependency check.
func readiness(checks []func(context.Context) error) func(context.Context) error {
	if len(checks) == 0 {
		return nil
	}
	return func(ctx context.Context) error {
		for _, check := range checks {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func buildHTTPServer(cfg *AppConfig, views *service.ViewService, m *metrics.Metrics, ready func(context.Context) error) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := controller.NewRouter(views, controller.RouterOptions{
		Metrics: m,
		Ready:   ready,
		CORS: middleware.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
	})

	return &http.Server{
		Addr:           cfg.Server.Addr,
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}
}
