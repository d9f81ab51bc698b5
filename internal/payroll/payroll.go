package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	payrollDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/payroll"
)

const (
	RunStatusDraft      = "DRAFT"
	RunStatusFinalized  = "FINALIZED"
	RunStatusSuperseded = "SUPERSEDED"
)

// Run is one payroll computation over a pay period. Finalized runs are
// immutable: a recomputation inserts a fresh run pointing back at the one it
// supersedes, and only DRAFT runs are ever marked SUPERSEDED.
type Run struct {
	ID              int64      `json:"id"`
	CompanyID       int64      `json:"company_id"`
	PeriodStart     time.Time  `json:"period_start"`
	PeriodEnd       time.Time  `json:"period_end"`
	Status          string     `json:"status"`
	ComputedAt      time.Time  `json:"computed_at"`
	FinalizedAt     *time.Time `json:"finalized_at,omitempty"`
	SupersedesRunID *int64     `json:"supersedes_run_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *Run) IsDraft() bool {
	return r.Status == RunStatusDraft
}

func (r *Run) IsFinalized() bool {
	return r.Status == RunStatusFinalized
}

type LineItem struct {
	ID            int64           `json:"id"`
	PayrollRunID  int64           `json:"payroll_run_id"`
	EmployeeID    int64           `json:"employee_id"`
	RegularHours  decimal.Decimal `json:"regular_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	GrossPayCents int64           `json:"gross_pay_cents"`
	CreatedAt     time.Time       `json:"created_at"`
}

func RunToDataModel(r *Run) *payrollDatamodel.PayrollRun {
	return &payrollDatamodel.PayrollRun{
		ID:              r.ID,
		CompanyID:       r.CompanyID,
		PeriodStart:     r.PeriodStart,
		PeriodEnd:       r.PeriodEnd,
		Status:          r.Status,
		ComputedAt:      r.ComputedAt,
		FinalizedAt:     r.FinalizedAt,
		SupersedesRunID: r.SupersedesRunID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func RunFromDataModel(m *payrollDatamodel.PayrollRun) *Run {
	return &Run{
		ID:              m.ID,
		CompanyID:       m.CompanyID,
		PeriodStart:     m.PeriodStart,
		PeriodEnd:       m.PeriodEnd,
		Status:          m.Status,
		ComputedAt:      m.ComputedAt,
		FinalizedAt:     m.FinalizedAt,
		SupersedesRunID: m.SupersedesRunID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func LineItemToDataModel(li *LineItem) *payrollDatamodel.PayrollLineItem {
	return &payrollDatamodel.PayrollLineItem{
		ID:            li.ID,
		PayrollRunID:  li.PayrollRunID,
		EmployeeID:    li.EmployeeID,
		RegularHours:  li.RegularHours,
		OvertimeHours: li.OvertimeHours,
		GrossPayCents: li.GrossPayCents,
		CreatedAt:     li.CreatedAt,
	}
}

func LineItemFromDataModel(m *payrollDatamodel.PayrollLineItem) *LineItem {
	return &LineItem{
		ID:            m.ID,
		PayrollRunID:  m.PayrollRunID,
		EmployeeID:    m.EmployeeID,
		RegularHours:  m.RegularHours,
		OvertimeHours: m.OvertimeHours,
		GrossPayCents: m.GrossPayCents,
		CreatedAt:     m.CreatedAt,
	}
}

func LineItemsFromDataModel(models []*payrollDatamodel.PayrollLineItem) []*LineItem {
	result := make([]*LineItem, len(models))
	for i, m := range models {
		result[i] = LineItemFromDataModel(m)
	}
	return result
}
