package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/waretrack/inventory-service/config"
	"github.com/waretrack/inventory-service/internal/auth"
	"github.com/waretrack/inventory-service/internal/pkg/broker"
	"github.com/waretrack/inventory-service/internal/pkg/cache"
	"github.com/waretrack/inventory-service/internal/pkg/logger"
	"github.com/waretrack/inventory-service/internal/pkg/metrics"
	"github.com/waretrack/inventory-service/internal/pkg/postgres"
	"github.com/waretrack/inventory-service/internal/pkg/search"

	itemH "github.com/waretrack/inventory-service/internal/item/handler"
	itemRepoPkg "github.com/waretrack/inventory-service/internal/item/repository"
	itemUCPkg "github.com/waretrack/inventory-service/internal/item/usecase"

	ledgerH "github.com/waretrack/inventory-service/internal/ledger/handler"
	ledgerRepoPkg "github.com/waretrack/inventory-service/internal/ledger/repository"
	ledgerUCPkg "github.com/waretrack/inventory-service/internal/ledger/usecase"

	locH "github.com/waretrack/inventory-service/internal/location/handler"
	locRepoPkg "github.com/waretrack/inventory-service/internal/location/repository"
	locUCPkg "github.com/waretrack/inventory-service/internal/location/usecase"

	kitH "github.com/waretrack/inventory-service/internal/kitting/handler"
	kitUCPkg "github.com/waretrack/inventory-service/internal/kitting/usecase"

	movH "github.com/waretrack/inventory-service/internal/movement/handler"
	movUCPkg "github.com/waretrack/inventory-service/internal/movement/usecase"

	recvH "github.com/waretrack/inventory-service/internal/receiving/handler"
	recvListenerPkg "github.com/waretrack/inventory-service/internal/receiving/listener"
	recvRepoPkg "github.com/waretrack/inventory-service/internal/receiving/repository"
	recvUCPkg "github.com/waretrack/inventory-service/internal/receiving/usecase"

	"github.com/waretrack/inventory-service/internal/query"
	queryGenPkg "github.com/waretrack/inventory-service/internal/query/generator"
	queryH "github.com/waretrack/inventory-service/internal/query/handler"
	queryRepoPkg "github.com/waretrack/inventory-service/internal/query/repository"
	queryUCPkg "github.com/waretrack/inventory-service/internal/query/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type generatorUnavailable struct{}

func (generatorUnavailable) Generate(context.Context, string) (string, error) {
	return "", errors.New("SQL generation is not configured")
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 5. Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 6. Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (Search features might be limited)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 7. Initialize Metrics
	appMetrics := metrics.New()

	// 8. Initialize Repositories
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	locRepo := locRepoPkg.NewPGRepository(db)
	itemRepo := itemRepoPkg.NewPGRepository(db)
	recvRepo := recvRepoPkg.NewPGRepository(db)

	// 9. Initialize UseCases
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, redisClient, appMetrics, appLogger)
	locUC := locUCPkg.NewLocationUseCase(locRepo, appLogger)
	itemUC := itemUCPkg.NewItemUseCase(itemRepo, redisClient, esClient, appLogger)
	recvUC := recvUCPkg.NewReceivingUseCase(recvRepo, locRepo, ledgerUC, redisClient, appLogger)
	movUC := movUCPkg.NewMovementUseCase(ledgerUC, appLogger)
	kitUC := kitUCPkg.NewKittingUseCase(ledgerUC, itemRepo, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sqlGen query.Generator = generatorUnavailable{}
	if cfg.GenAI.APIKey != "" {
		gen, err := queryGenPkg.NewGenAIGenerator(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
		if err != nil {
			appLogger.Fatal("Could not create GenAI client", zap.Error(err))
		}
		sqlGen = gen
	} else {
		appLogger.Warn("GENAI_API_KEY not set, console Ask endpoint is disabled")
	}
	queryExec := queryRepoPkg.NewPGExecutor(db, cfg.Query.MaxRows, time.Duration(cfg.Query.TimeoutSeconds)*time.Second)
	queryUC := queryUCPkg.NewQueryUseCase(sqlGen, queryExec, appLogger)

	// 10. Initialize Listeners
	pulltagListener := recvListenerPkg.NewPulltagListener(kafkaConsumer, recvUC, appLogger)

	// 11. Register Handlers
	mux := http.NewServeMux()
	ledgerH.NewLedgerHandler(ledgerUC, appLogger).Register(mux)
	locH.NewLocationHandler(locUC, appLogger).Register(mux)
	itemH.NewItemHandler(itemUC, appLogger).Register(mux)
	recvH.NewReceivingHandler(recvUC, appLogger).Register(mux)
	movH.NewMovementHandler(movUC, appLogger).Register(mux)
	kitH.NewKittingHandler(kitUC, appLogger).Register(mux)
	queryH.NewQueryHandler(queryUC, appLogger).Register(mux)

	mux.Handle("GET /metrics", appMetrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// 12. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	server := &http.Server{
		Addr:    port,
		Handler: auth.Middleware(mux),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pulltagListener.Start(gctx)
		return nil
	})
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gctx.Done():
			return gctx.Err()
		}

		appLogger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Fatal("Server exited with error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
