package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo company, its settings and a few employees for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"payroll_line_items", "payroll_runs", "cash_drawer_sessions", "time_entries", "shifts", "employees", "company_settings"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		const companyID = 1

		var exists int
		row := db.Raw("SELECT 1 FROM company_settings WHERE company_id = ?", companyID).Row()
		if err := row.Scan(&exists); err != nil {
			err := db.Exec(`INSERT INTO company_settings
				(company_id, timezone, pay_period_type, payroll_week_start_day,
				 overtime_enabled, overtime_threshold_hours_per_week, overtime_multiplier_default,
				 rounding_policy_minutes, breaks_paid, cash_drawer_enabled, cash_drawer_variance_threshold_cents,
				 created_at, updated_at)
				VALUES (?, 'America/Chicago', 'weekly', 1, true, 40, 1.5, 15, true, true, 500, now(), now())`,
				companyID).Error
			if err != nil {
				log.Fatalf("failed to insert company settings: %v", err)
			}
			fmt.Println("Seeded company settings for company", companyID)
		} else {
			fmt.Println("company settings already exist")
		}

		pin := "1234"
		hash, _ := bcrypt.GenerateFromPassword([]byte(pin), cfg.Security.BCryptCost)

		staff := []struct {
			Number       string
			Name         string
			Email        string
			PayRateCents int64
			HandlesCash  bool
			IsAdmin      bool
		}{
			{"EMP-001", "Dina Manager", "dina@demo.local", 2500, false, true},
			{"EMP-002", "Raka Cashier", "raka@demo.local", 1600, true, false},
			{"EMP-003", "Sari Server", "sari@demo.local", 1500, false, false},
		}

		for _, emp := range staff {
			var exists int
			row := db.Raw("SELECT 1 FROM employees WHERE employee_number = ?", emp.Number).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("employee %s already exists\n", emp.Number)
				continue
			}

			err := db.Exec(`INSERT INTO employees
				(company_id, employee_number, name, email, pay_rate_cents, handles_cash, pin_hash, is_admin, is_active, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, true, now(), now())`,
				companyID, emp.Number, emp.Name, emp.Email, emp.PayRateCents, emp.HandlesCash, string(hash), emp.IsAdmin).Error
			if err != nil {
				log.Fatalf("failed to insert employee %s: %v", emp.Number, err)
			}
			fmt.Printf("Seeded employee %s (%s), PIN %s\n", emp.Number, emp.Name, pin)
		}

		fmt.Println("Seeding complete")
	},
}
