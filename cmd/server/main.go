package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/nobabdine/internal/adapter/handler"
	"github.com/rl1809/nobabdine/internal/adapter/storage"
	"github.com/rl1809/nobabdine/internal/config"
	"github.com/rl1809/nobabdine/internal/core/service"
	"github.com/rl1809/nobabdine/internal/port"
)

type repositories struct {
	catalog     port.CatalogRepository
	carts       port.CartRepository
	orders      port.OrderRepository
	idempotency port.IdempotencyRepository
	health      map[string]port.HealthChecker
	close       func()
}

func main() {
	cfg := config.Load()

	// Prices go out as JSON numbers, the same shape clients post.
	decimal.MarshalJSONWithoutQuotes = true

	logger := setupLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.TokenSecret == "" {
		logger.Error("ACCESS_TOKEN_SECRET is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer repos.close()

	authService := service.NewAuthService(cfg.TokenSecret)
	orderService := service.NewOrderService(repos.orders, repos.catalog, repos.carts,
		service.WithIdempotency(repos.idempotency),
		service.WithStrictStock(cfg.StrictStock),
		service.WithLogger(logger),
	)
	if cfg.StrictStock {
		logger.Info("strict stock mode enabled")
	}

	httpHandler := handler.NewHTTPHandler(handler.Services{
		Catalog: service.NewCatalogService(repos.catalog),
		Carts:   service.NewCartService(repos.carts),
		Orders:  orderService,
		Auth:    authService,
	}, handler.CookiePolicy{Production: cfg.Production}, repos.health, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(httpHandler, authService, cfg.ClientOrigin, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 75 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer := grpc.NewServer()
	handler.RegisterOrderServiceServer(grpcServer, handler.NewGRPCHandler(orderService, authService))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Error("failed to listen", "port", cfg.GRPCPort, "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("gRPC server listening", "port", cfg.GRPCPort)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		logger.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
	}
	logger.Info("server exited")
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.StorageDriver == config.DriverMemory {
		mem := storage.NewMemoryAdapter()
		logger.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			catalog:     mem,
			carts:       mem,
			orders:      mem,
			idempotency: mem,
			health:      map[string]port.HealthChecker{},
			close:       func() {},
		}, nil
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("connected to mysql", "host", cfg.DBHost, "database", cfg.DBName)

	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		db.Close()
		return nil, err
	}
	logger.Info("connected to redis", "addr", cfg.RedisAddr)
	redisAdapter := storage.NewRedisAdapter(rdb)

	return &repositories{
		catalog:     mysqlAdapter,
		carts:       mysqlAdapter,
		orders:      mysqlAdapter,
		idempotency: redisAdapter,
		health: map[string]port.HealthChecker{
			"mysql": mysqlAdapter,
			"redis": redisAdapter,
		},
		close: func() {
			rdb.Close()
			db.Close()
			logger.Info("connections closed")
		},
	}, nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}
