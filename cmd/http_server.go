package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/auth"
	authPostgres "github.com/ajit432/hospital-leave/internal/auth/postgres"
	"github.com/ajit432/hospital-leave/internal/balance"
	balancePostgres "github.com/ajit432/hospital-leave/internal/balance/postgres"
	"github.com/ajit432/hospital-leave/internal/category"
	categoryPostgres "github.com/ajit432/hospital-leave/internal/category/postgres"
	"github.com/ajit432/hospital-leave/internal/core/common/workday"
	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/events"
	"github.com/ajit432/hospital-leave/internal/leave"
	leavePostgres "github.com/ajit432/hospital-leave/internal/leave/postgres"
	"github.com/ajit432/hospital-leave/internal/summary"
	summaryPostgres "github.com/ajit432/hospital-leave/internal/summary/postgres"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/internal/transport/middleware"
	"github.com/ajit432/hospital-leave/internal/transport/rest"
	"github.com/ajit432/hospital-leave/internal/transport/swagger"
	"github.com/ajit432/hospital-leave/internal/user"
	userPostgres "github.com/ajit432/hospital-leave/internal/user/postgres"
	"github.com/ajit432/hospital-leave/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Services struct {
	Auth     *auth.Service
	User     *user.Service
	Category *category.Service
	Balance  *balance.Service
	Leave    *leave.Service
	Summary  *summary.Service
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Services *Services
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	router, err := setupRoutes(deps)
	if err != nil {
		lg.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	lg.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("server shutdown error", "error", err)
	}
	if err := deps.EventBus.Wait(ctx); err != nil {
		lg.Warn("event handlers still running at shutdown", "error", err)
	}
	if err := deps.DB.Close(); err != nil {
		lg.Error("database close error", "error", err)
	}

	lg.Info("server stopped")
}

func setupRoutes(deps *Dependencies) (*chi.Mux, error) {
	cfg := deps.Config
	lg := deps.Logger
	svc := deps.Services
	base := transport.NewBaseHandler(lg)

	checker, err := auth.NewPermissionChecker()
	if err != nil {
		return nil, fmt.Errorf("permission checker: %w", err)
	}

	spec, err := swagger.Load(context.Background(), cfg.Server.OpenAPIPath)
	if err != nil {
		// API docs are optional at runtime
		lg.Warn("openapi document not served", "path", cfg.Server.OpenAPIPath, "error", err)
		spec = nil
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, deps.DB.DB, rest.Handlers{
		Auth:     auth.NewHandler(base, svc.Auth),
		User:     user.NewHandler(base, svc.User),
		Category: category.NewHandler(base, svc.Category),
		Leave:    leave.NewHandler(base, svc.Leave),
		Balance:  balance.NewHandler(base, svc.Balance),
		Summary:  summary.NewHandler(base, svc.Summary),
	}, auth.NewRBACAuthorization(checker, lg), rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		LoginLimiter:   middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.LoginPerSecond), cfg.RateLimit.LoginBurst),
		Spec:           spec,
	}, lg)

	return router, nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := database.NewGorm(db.DB, config.Observability.Logging.Level)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	leave.NewNotificationHandler(lg).RegisterEventHandlers(eventBus)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		EventBus: eventBus,
		Services: buildServices(config, db, gdb, eventBus, lg),
		Logger:   lg,
	}, nil
}

func buildServices(cfg *internal.Config, db *sqlx.DB, gdb *gorm.DB, bus *events.EventBus, lg *slog.Logger) *Services {
	tx := database.NewTransactor(gdb)
	clock := workday.SystemClock(cfg.Leave.Location())

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	categorySvc := category.NewService(categoryPostgres.NewCategoryRepository(gdb), tx, lg)
	balanceSvc := balance.NewService(balancePostgres.NewBalanceRepository(gdb), tx, bus, lg).WithClock(clock)
	leaveSvc := leave.NewService(leavePostgres.NewLeaveRepository(gdb), categorySvc, balanceSvc, tx, bus, lg).WithClock(clock)

	return &Services{
		Auth:     auth.NewService(authPostgres.NewRepository(gdb), tokens, lg),
		User:     user.NewService(userPostgres.NewUserRepository(gdb), tx, cfg.Security.BCryptCost, lg),
		Category: categorySvc,
		Balance:  balanceSvc,
		Leave:    leaveSvc,
		Summary:  summary.NewService(summaryPostgres.NewSummaryRepository(db), balanceSvc, leaveSvc, lg).WithClock(clock),
	}
}

// initDB opens the shared pool. GORM and the sqlx reporting queries both
// run on it.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
