package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRun is immutable once finalized; recomputation inserts a new run
// that supersedes the old one instead of mutating it.
type PayrollRun struct {
	ID              int64      `gorm:"primaryKey"`
	CompanyID       int64      `gorm:"column:company_id;not null;index"`
	PeriodStart     time.Time  `gorm:"column:period_start;not null;index"`
	PeriodEnd       time.Time  `gorm:"column:period_end;not null"`
	Status          string     `gorm:"column:status;not null;default:DRAFT"`
	ComputedAt      time.Time  `gorm:"column:computed_at;not null"`
	FinalizedAt     *time.Time `gorm:"column:finalized_at"`
	SupersedesRunID *int64     `gorm:"column:supersedes_run_id"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

type PayrollLineItem struct {
	ID            int64           `gorm:"primaryKey"`
	PayrollRunID  int64           `gorm:"column:payroll_run_id;not null;index"`
	EmployeeID    int64           `gorm:"column:employee_id;not null"`
	RegularHours  decimal.Decimal `gorm:"column:regular_hours;type:numeric(7,2);not null"`
	OvertimeHours decimal.Decimal `gorm:"column:overtime_hours;type:numeric(7,2);not null"`
	GrossPayCents int64           `gorm:"column:gross_pay_cents;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (PayrollLineItem) TableName() string {
	return "payroll_line_items"
}
