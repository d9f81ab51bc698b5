package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/timeclock/internal/company"
	companyPg "github.com/frahmantamala/timeclock/internal/company/postgres"
	"github.com/frahmantamala/timeclock/internal/core/events"
	employeePg "github.com/frahmantamala/timeclock/internal/employee/postgres"
	"github.com/frahmantamala/timeclock/internal/payroll"
	payrollPg "github.com/frahmantamala/timeclock/internal/payroll/postgres"
	"github.com/frahmantamala/timeclock/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start and manage background workers: draft payroll computation and event monitoring.`,
}

var payrollWorkerCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Start the payroll worker",
	Long:  `Periodically computes draft payroll runs for closed pay periods across all companies.`,
	Run: func(cmd *cobra.Command, args []string) {
		startPayrollWorker()
	},
}

var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Subscribe to attendance events and log them; feeds the review dashboard during development.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

// startPayrollWorker wakes up on the configured interval and refreshes the
// draft run for the most recently closed period of every company. Finalized
// runs are never touched; drafts are superseded by the fresh computation.
func startPayrollWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open gorm connection: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(log)
	settingsRepo := companyPg.NewSettingsRepository(gormDB)
	employeeRepo := employeePg.NewEmployeeRepository(gormDB)
	payrollRepo := payrollPg.NewPayrollRepository(gormDB)

	companySvc := company.NewService(settingsRepo, log)
	payrollSvc := payroll.NewService(payrollRepo, payrollRepo, companySvc, employeeRepo, bus, log)

	interval := config.Worker.PayrollInterval
	lag := config.Worker.PayrollLag

	log.Info("payroll worker started", "interval", interval, "lag", lag)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	computeAll := func() {
		ids, err := companySvc.AllCompanyIDs()
		if err != nil {
			return
		}
		ref := time.Now().Add(-lag).Format("2006-01-02")
		for _, companyID := range ids {
			result, err := payrollSvc.ComputeRun(payroll.ComputeRunDTO{
				CompanyID: companyID,
				PeriodRef: ref,
			})
			if err != nil {
				log.Error("draft run computation failed", "error", err, "company_id", companyID)
				continue
			}
			log.Info("draft run refreshed",
				"company_id", companyID,
				"run_id", result.Run.ID,
				"line_items", len(result.Items))
		}
	}

	computeAll()
	for {
		select {
		case <-ticker.C:
			computeAll()
		case sig := <-sigChan:
			log.Info("received signal, shutting down payroll worker", "signal", sig)
			return
		}
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.LoggerWrapper()

	eventBus := events.NewEventBus(log)

	for _, eventType := range []string{
		events.EventTimeEntryOpened,
		events.EventTimeEntryClosed,
		events.EventTimeEntryEdited,
		events.EventCashReviewNeeded,
		events.EventCashSessionReviewed,
		events.EventPayrollRunComputed,
	} {
		eventBus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Info("received event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"payload", event.Payload())
			return nil
		})
	}

	log.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("received signal, shutting down event bus", "signal", sig)
}

func init() {
	workerCmd.AddCommand(payrollWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
