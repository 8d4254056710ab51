package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/mvcastro/currency_exchange_app/internal/core/ports/services"
	coresvc "github.com/mvcastro/currency_exchange_app/internal/core/services"
	"github.com/mvcastro/currency_exchange_app/internal/handlers"
	"github.com/mvcastro/currency_exchange_app/internal/middleware"
	"github.com/mvcastro/currency_exchange_app/internal/repositories/database/pgsql"
	"github.com/mvcastro/currency_exchange_app/pkg/config"
	"github.com/mvcastro/currency_exchange_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.RateLimit(newIPLimiter(logger, cfg.RateLimit)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, buildServices(dbPool, cfg))

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildServices wires repositories and services onto the shared pool.
func buildServices(dbPool *pgxpool.Pool, cfg *config.Config) *services.ServiceContainer {
	currencyRepo := pgsql.NewCurrencyRepository(dbPool)
	balanceRepo := pgsql.NewBalanceRepository(dbPool)
	exchangeRepo := pgsql.NewExchangeRepository(dbPool)
	bankResolver := pgsql.NewAccountRepository(dbPool)

	rates := coresvc.NewRateCalculator(cfg.FeePercent)

	return &services.ServiceContainer{
		Ledger:        coresvc.NewLedgerService(balanceRepo),
		Exchange:      coresvc.NewExchangeService(currencyRepo, bankResolver, exchangeRepo, rates),
		ExchangeQuery: coresvc.NewExchangeQueryService(exchangeRepo),
		Currency:      coresvc.NewCurrencyService(currencyRepo),
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowAllOrigins:  cfg.CORSAllowedOrigins == "*",
		AllowCredentials: cfg.CORSAllowedOrigins != "*",
	}
	if !corsCfg.AllowAllOrigins {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	}
	return corsCfg
}

func newIPLimiter(logger *slog.Logger, formatted string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT value, falling back to 100-M", slog.String("value", formatted))
		rate, _ = limiter.NewRateFromFormatted("100-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// runMigrations applies all pending "up" migrations before the server starts.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations,
	// using the pgx/v5/stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
