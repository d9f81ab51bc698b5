package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/auth"
	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	cashdrawerPg "github.com/frahmantamala/timeclock/internal/cashdrawer/postgres"
	"github.com/frahmantamala/timeclock/internal/company"
	companyPg "github.com/frahmantamala/timeclock/internal/company/postgres"
	"github.com/frahmantamala/timeclock/internal/core/events"
	employeePg "github.com/frahmantamala/timeclock/internal/employee/postgres"
	"github.com/frahmantamala/timeclock/internal/payroll"
	payrollPg "github.com/frahmantamala/timeclock/internal/payroll/postgres"
	"github.com/frahmantamala/timeclock/internal/schedule"
	schedulePg "github.com/frahmantamala/timeclock/internal/schedule/postgres"
	"github.com/frahmantamala/timeclock/internal/timeentry"
	timeentryPg "github.com/frahmantamala/timeclock/internal/timeentry/postgres"
	"github.com/frahmantamala/timeclock/internal/transport/rest"
	"github.com/frahmantamala/timeclock/internal/transport/swagger"
	"github.com/frahmantamala/timeclock/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler    *auth.Handler
	EntryHandler   *timeentry.Handler
	ShiftHandler   *schedule.Handler
	CashHandler    *cashdrawer.Handler
	PayrollHandler *payroll.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		deps.AuthHandler,
		deps.EntryHandler,
		deps.ShiftHandler,
		deps.CashHandler,
		deps.PayrollHandler,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Observability.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}
	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	if err := swagger.ValidateSpec(context.Background(), "./api/openapi.yml"); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	bus := events.NewEventBus(log)

	settingsRepo := companyPg.NewSettingsRepository(gormDB)
	employeeRepo := employeePg.NewEmployeeRepository(gormDB)
	shiftRepo := schedulePg.NewShiftRepository(gormDB)
	entryRepo := timeentryPg.NewTimeEntryRepository(gormDB)
	sessionRepo := cashdrawerPg.NewSessionRepository(gormDB)
	payrollRepo := payrollPg.NewPayrollRepository(gormDB)

	companySvc := company.NewService(settingsRepo, log)
	tokens := auth.NewTokenManager(config.Security.JWTSecret, config.Security.AccessTokenDuration)
	authSvc := auth.NewService(employeeRepo, tokens, log)

	scheduleSvc := schedule.NewService(shiftRepo, companySvc, employeeRepo, log)
	entrySvc := timeentry.NewService(entryRepo, companySvc, employeeRepo, authSvc, bus, log)

	variance := timeentry.NewVarianceResolver(entryRepo, employeeRepo, companySvc)
	cashSvc := cashdrawer.NewService(sessionRepo, variance, bus, log)

	payrollSvc := payroll.NewService(payrollRepo, payrollRepo, companySvc, employeeRepo, bus, log)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: chi.NewRouter(),
		Logger: log,

		AuthHandler:    auth.NewHandler(authSvc),
		EntryHandler:   timeentry.NewHandler(entrySvc),
		ShiftHandler:   schedule.NewHandler(scheduleSvc),
		CashHandler:    cashdrawer.NewHandler(cashSvc),
		PayrollHandler: payroll.NewHandler(payrollSvc),
	}, nil
}

// initDB initializes the database connection
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
