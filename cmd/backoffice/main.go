package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver

	httpadapter "github.com/fixora/backoffice/internal/adapter/http"
	"github.com/fixora/backoffice/internal/adapter/persistence"
	"github.com/fixora/backoffice/internal/config"
	"github.com/fixora/backoffice/internal/i18n"
	jwtinfra "github.com/fixora/backoffice/internal/infra/jwt"
	"github.com/fixora/backoffice/internal/infra/logger"
	"github.com/fixora/backoffice/internal/infra/ratelimit"
	"github.com/fixora/backoffice/internal/mockdata"
	"github.com/fixora/backoffice/internal/ports"
	"github.com/fixora/backoffice/internal/store"
	"github.com/fixora/backoffice/internal/usecase"
	"github.com/fixora/backoffice/internal/view"
)

// Version and build information
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const loadMoreRequestsPerWindow = 20

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var (
		version = flag.Bool("version", false, "Show version information")
		migrate = flag.Bool("migrate", false, "Run database migrations and exit")
		token   = flag.String("token", "", "Print an admin access token for the given user and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("Back-office System Logs\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "backoffice",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *token != "" {
		if err := printToken(cfg, *token); err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		os.Exit(0)
	}

	if *migrate {
		db, err := initDatabase(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		applied, err := persistence.MigrateUp(ctx, db)
		db.Close()
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		appLogger.Info(ctx, "Migrations completed", map[string]interface{}{"applied": len(applied)})
		os.Exit(0)
	}

	appLogger.Info(ctx, "Starting back-office system logs", map[string]interface{}{
		"version":     Version,
		"environment": cfg.Server.Environment,
		"storage":     cfg.Logs.Storage,
	})

	repo, closeRepo, err := initRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize log storage: %v", err)
	}
	defer closeRepo()

	seed := cfg.Logs.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	generator := mockdata.NewGenerator(seed)
	source := mockdata.NewDelayedSource(generator, cfg.Logs.LoadMoreDelay)
	views := view.NewRegistry(cfg.Logs.DefaultPageSize, cfg.Logs.SearchDebounce, nil)

	logUseCase := usecase.NewSystemLogUseCase(repo, generator, source, views, appLogger, usecase.SystemLogConfig{
		Capacity:        cfg.Logs.Capacity,
		LoadMoreBatch:   cfg.Logs.LoadMoreBatch,
		ExportChunkSize: cfg.Logs.ExportChunkSize,
		CleanupInterval: cfg.Logs.CleanupInterval,
		ViewIdleTimeout: cfg.Logs.ViewIdleTimeout,
	}, nil)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count stored logs: %v", err)
	}
	if count == 0 {
		if err := logUseCase.Seed(ctx, cfg.Logs.SeedCount); err != nil {
			log.Fatalf("Failed to seed logs: %v", err)
		}
	}

	go logUseCase.StartRetention(ctx)

	translator, err := i18n.NewTranslator(cfg.Logs.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to initialize translations: %v", err)
	}

	limiter, err := initRateLimiter(cfg, translator, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize rate limiting: %v", err)
	}

	var auth *httpadapter.AuthMiddleware
	if cfg.Security.AuthEnabled {
		tokens, err := jwtinfra.NewJWTService(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
		if err != nil {
			log.Fatalf("Failed to initialize JWT service: %v", err)
		}
		auth = httpadapter.NewAuthMiddleware(tokens, translator, appLogger)
	}

	handler := httpadapter.NewSystemLogHandler(logUseCase, translator, appLogger)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		CORSOrigins:  cfg.Security.CORSOrigins,
	}, handler, appLogger, limiter, auth)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(shutdownCtx, "Error during server shutdown", err, nil)
	}
	appLogger.Info(shutdownCtx, "Server stopped", nil)
}

// initDatabase opens and pings the PostgreSQL connection pool
func initDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxConnections / 2)
	db.SetConnMaxIdleTime(cfg.Database.MaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// initRepository picks the log store named by LOG_STORAGE
func initRepository(ctx context.Context, cfg *config.Config) (ports.LogRepository, func(), error) {
	if cfg.Logs.Storage != "postgres" {
		return store.NewMemoryStore(nil), func() {}, nil
	}

	db, err := initDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return persistence.NewPostgresLogRepository(db, cfg.Database.QueryTimeout), func() { db.Close() }, nil
}

func initRateLimiter(cfg *config.Config, translator *i18n.Translator, appLogger logger.Logger) (*httpadapter.RateLimiter, error) {
	service, err := ratelimit.NewRateLimitService(ratelimit.Config{
		Enabled:       cfg.Security.RateLimitEnabled,
		RedisURL:      cfg.GetRedisURL(),
		Requests:      cfg.Security.RateLimitRequests,
		Window:        cfg.Security.RateLimitWindow,
		BlockDuration: cfg.Security.RateLimitBlockTime,
	}, appLogger)
	if err != nil {
		return nil, err
	}
	if !cfg.Security.RateLimitEnabled {
		return nil, nil
	}

	window := cfg.Security.RateLimitWindow
	return httpadapter.NewRateLimiter(service, translator, appLogger,
		httpadapter.RateRule{Limit: cfg.Security.RateLimitRequests, Window: window},
		httpadapter.RateRule{Limit: cfg.Security.ExportRateLimit, Window: window},
		httpadapter.RateRule{Limit: loadMoreRequestsPerWindow, Window: window},
		cfg.Security.RateLimitBlockTime,
	), nil
}

func printToken(cfg *config.Config, user string) error {
	tokens, err := jwtinfra.NewJWTService(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	if err != nil {
		return err
	}
	signed, err := tokens.GenerateAccessToken(ports.TokenClaims{UserID: user, Name: user, Role: "admin"})
	if err != nil {
		return err
	}
	fmt.Println(signed)
	return nil
}
