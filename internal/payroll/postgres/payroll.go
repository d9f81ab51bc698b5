package postgres

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	payrollDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/payroll"
	"github.com/frahmantamala/timeclock/internal/payroll"
)

// PayrollRepository implements payroll.Repository and payroll.EntrySource
// using GORM.
type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) CreateRun(run *payroll.Run, items []*payroll.LineItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		m := payroll.RunToDataModel(run)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		run.ID = m.ID
		run.CreatedAt = m.CreatedAt
		run.UpdatedAt = m.UpdatedAt

		for _, item := range items {
			item.PayrollRunID = m.ID
			im := payroll.LineItemToDataModel(item)
			if err := tx.Create(im).Error; err != nil {
				return err
			}
			item.ID = im.ID
		}
		return nil
	})
}

func (r *PayrollRepository) GetRun(id int64) (*payroll.Run, []*payroll.LineItem, error) {
	var m payrollDatamodel.PayrollRun
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, nil, err
	}

	var itemModels []*payrollDatamodel.PayrollLineItem
	err := r.db.Where("payroll_run_id = ?", id).
		Order("employee_id ASC").
		Find(&itemModels).Error
	if err != nil {
		return nil, nil, err
	}
	return payroll.RunFromDataModel(&m), payroll.LineItemsFromDataModel(itemModels), nil
}

func (r *PayrollRepository) ListRuns(companyID int64, limit, offset int) ([]*payroll.Run, error) {
	var models []*payrollDatamodel.PayrollRun
	err := r.db.Where("company_id = ?", companyID).
		Order("period_start DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	runs := make([]*payroll.Run, len(models))
	for i, m := range models {
		runs[i] = payroll.RunFromDataModel(m)
	}
	return runs, nil
}

func (r *PayrollRepository) GetLatestRunForPeriod(companyID int64, periodStart time.Time) (*payroll.Run, error) {
	var m payrollDatamodel.PayrollRun
	err := r.db.Where("company_id = ? AND period_start = ?", companyID, periodStart).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return payroll.RunFromDataModel(&m), nil
}

func (r *PayrollRepository) MarkFinalized(id int64, at time.Time) error {
	return r.db.Model(&payrollDatamodel.PayrollRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       payroll.RunStatusFinalized,
			"finalized_at": at,
			"updated_at":   at,
		}).Error
}

func (r *PayrollRepository) MarkSuperseded(id int64) error {
	return r.db.Model(&payrollDatamodel.PayrollRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     payroll.RunStatusSuperseded,
			"updated_at": time.Now(),
		}).Error
}

type entrySummaryRow struct {
	EmployeeID   int64
	ClockInAt    time.Time
	RoundedHours decimal.Decimal
}

// ListClosedEntrySummaries joins through employees to scope entries to the
// company. Only closed entries with computed hours feed payroll.
func (r *PayrollRepository) ListClosedEntrySummaries(companyID int64, from, to time.Time) ([]payroll.EntrySummary, error) {
	var rows []entrySummaryRow
	err := r.db.Table("time_entries").
		Select("time_entries.employee_id, time_entries.clock_in_at, time_entries.rounded_hours").
		Joins("JOIN employees ON employees.id = time_entries.employee_id").
		Where("employees.company_id = ?", companyID).
		Where("time_entries.status = ?", "CLOSED").
		Where("time_entries.clock_in_at >= ? AND time_entries.clock_in_at < ?", from, to).
		Where("time_entries.rounded_hours IS NOT NULL").
		Order("time_entries.employee_id ASC, time_entries.clock_in_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]payroll.EntrySummary, len(rows))
	for i, row := range rows {
		summaries[i] = payroll.EntrySummary{
			EmployeeID: row.EmployeeID,
			ClockInAt:  row.ClockInAt,
			Hours:      row.RoundedHours,
		}
	}
	return summaries, nil
}
