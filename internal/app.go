package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	logger_adapter "listing-query-service/internal/adapters/logger"
	postgres_adapter "listing-query-service/internal/adapters/postgres"
	"listing-query-service/internal/adapters/rest"
	"listing-query-service/internal/configs"
	"listing-query-service/internal/core/port"
	"listing-query-service/internal/core/usecase"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App wires the whole service together.
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	apiServer    *rest.Server
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// NewApp is the composition root: every dependency is created and wired here.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// Loggers first, everything after this logs through the port.
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluent.New(fluent.Config{
			FluentHost: appConfig.FluentBit.Host,
			FluentPort: appConfig.FluentBit.Port,
			TagPrefix:  appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// Low-level dependencies.
	dbPool, err := postgres_adapter.NewClient(context.Background(), postgres_adapter.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	listingStore, err := postgres_adapter.NewListingStoreAdapter(dbPool)
	if err != nil {
		appLogger.Error("Failed to create listing store adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing store adapter: %w", err)
	}
	appLogger.Info("Postgres listing store initialized.", nil)

	// Use cases (the engine core).
	similarityCfg := usecase.DefaultSimilarityConfig()
	similarityCfg.CandidateLimit = appConfig.Similarity.CandidateLimit
	similarityCfg.DefaultMaxPriceDelta = appConfig.Similarity.DefaultMaxPriceDelta
	similarityCfg.DefaultMaxResults = appConfig.Similarity.DefaultMaxResults

	findListingsUseCase := usecase.NewFindListingsUseCase(listingStore)
	searchListingsUseCase := usecase.NewSearchListingsUseCase(listingStore)
	suggestListingsUseCase := usecase.NewSuggestListingsUseCase(listingStore)
	similarListingsUseCase := usecase.NewSimilarListingsUseCase(listingStore, similarityCfg)
	getListingUseCase := usecase.NewGetListingUseCase(listingStore)
	incrementViewsUseCase := usecase.NewIncrementViewsUseCase(listingStore)
	getFeaturedUseCase := usecase.NewGetFeaturedUseCase(listingStore)

	saveListingUseCase := usecase.NewSaveListingUseCase(listingStore)
	removeListingsUseCase := usecase.NewRemoveListingsUseCase(listingStore)
	setFeaturedUseCase := usecase.NewSetFeaturedUseCase(listingStore)
	setDisabledUseCase := usecase.NewSetDisabledUseCase(listingStore)
	feedStateUseCase := usecase.NewGetFeedStateUseCase(listingStore)
	updateCoordinatesUseCase := usecase.NewUpdateCoordinatesUseCase(listingStore)

	appLogger.Info("All use cases initialized.", nil)

	// REST API Server
	listingsHandler := rest.NewListingsHandler(
		findListingsUseCase, searchListingsUseCase, suggestListingsUseCase,
		similarListingsUseCase, getListingUseCase, incrementViewsUseCase, getFeaturedUseCase)
	catalogHandler := rest.NewCatalogHandler(
		saveListingUseCase, removeListingsUseCase, setFeaturedUseCase,
		setDisabledUseCase, feedStateUseCase, updateCoordinatesUseCase)

	apiServer := rest.NewServer(appConfig.Rest.PORT, listingsHandler, catalogHandler, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return &App{
		config:       appConfig,
		dbPool:       dbPool,
		apiServer:    apiServer,
		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run starts the components and owns the graceful shutdown sequence.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				// Log to stdout, fluent itself may already be gone.
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	errorsCh := make(chan error, 1)

	go func() {
		a.logger.Info("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	}

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
