package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/godilite/kiosk-feedback/internal/config"
	handler "github.com/godilite/kiosk-feedback/internal/grpc"
	httpapi "github.com/godilite/kiosk-feedback/internal/http"
	"github.com/godilite/kiosk-feedback/internal/repository"
	"github.com/godilite/kiosk-feedback/internal/service"
	"github.com/godilite/kiosk-feedback/pkg/cache"
	dbbuilder "github.com/godilite/kiosk-feedback/pkg/database"
	grpcsrv "github.com/godilite/kiosk-feedback/pkg/grpc/server"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	cache      *cache.Cache
	grpcServer *grpcsrv.Server
	httpServer *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	policy, err := service.ParseReasonLinkPolicy(cfg.ReasonLinkPolicy)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	dbPool, err := dbbuilder.New(ctx,
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(dbbuilder.SQLiteDSN(cfg.DBPath, cfg.DBBusyTimeout)),
		dbbuilder.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.Migrate(ctx, dbPool); err != nil {
		_ = dbPool.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	a := &App{logger: logger, dbPool: dbPool}

	var store cache.Store
	if cfg.RedisAddr != "" {
		cacheClient, err := cache.New(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			_ = dbPool.Close()
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		logger.Info("Cache client initialized", zap.String("addr", cfg.RedisAddr))
		a.cache = cacheClient
		store = cacheClient
	} else {
		logger.Info("Cache disabled, REDIS_ADDR is empty")
	}

	feedbackRepo := repository.NewFeedbackRepository(dbPool)
	catalogRepo := repository.NewCatalogRepository(dbPool)

	assembler := service.NewFeedbackAssembler(feedbackRepo, catalogRepo, policy, logger)
	monthly := service.NewMonthlyAggregator(feedbackRepo, cfg.Location, logger)
	trend := service.NewTrendAggregator(feedbackRepo, catalogRepo, service.SystemClock, cfg.Location, cfg.TrendWindowMonths, logger)
	catalog := service.NewCatalogService(catalogRepo, store, cfg.CatalogCacheTTL, logger)

	grpcHandlers := handler.NewGRPCHandlers(assembler, monthly, trend, catalog, logger)

	a.grpcServer, err = grpcsrv.New(
		grpcsrv.WithPort(cfg.GRPCPort),
		grpcsrv.WithLogger(logger),
		grpcsrv.WithReflection(cfg.GRPCReflectionEnabled),
		grpcsrv.WithLogging(true),
		grpcsrv.WithRecovery(true),
	)
	if err != nil {
		a.closeStores()
		return nil, fmt.Errorf("failed to create gRPC server: %w", err)
	}

	a.grpcServer.RegisterServiceWithHealth(handler.FeedbackServiceName, func(s *grpc.Server) {
		handler.RegisterFeedbackServiceServer(s, grpcHandlers)
	})
	a.grpcServer.RegisterServiceWithHealth(handler.ReportServiceName, func(s *grpc.Server) {
		handler.RegisterReportServiceServer(s, grpcHandlers)
	})

	httpHandler := httpapi.NewHandler(httpapi.Config{
		Assembler:      assembler,
		Monthly:        monthly,
		Trend:          trend,
		Catalog:        catalog,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	a.httpServer = httpapi.NewServer(fmt.Sprintf(":%d", cfg.HTTPPort), httpHandler, logger)

	return a, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.grpcServer.Start()
	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	a.logger.Info("application shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("HTTP shutdown error", zap.Error(err))
	}
	if err := a.grpcServer.Shutdown(ctx); err != nil {
		a.logger.Error("gRPC shutdown error", zap.Error(err))
	}

	a.closeStores()

	if ctx.Err() == context.DeadlineExceeded {
		a.logger.Warn("shutdown completed but deadline exceeded")
	} else {
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}

func (a *App) closeStores() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}
}
