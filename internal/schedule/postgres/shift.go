package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	shiftDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/shift"
	"github.com/frahmantamala/timeclock/internal/schedule"
)

// ShiftRepository implements schedule.Repository using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) schedule.Repository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(shift *schedule.Shift) error {
	m := schedule.ToDataModel(shift)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	shift.ID = m.ID
	shift.CreatedAt = m.CreatedAt
	shift.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *ShiftRepository) GetByID(id int64) (*schedule.Shift, error) {
	var m shiftDatamodel.Shift
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return schedule.FromDataModel(&m), nil
}

func (r *ShiftRepository) ListByEmployee(employeeID int64, from, to time.Time) ([]*schedule.Shift, error) {
	var models []*shiftDatamodel.Shift
	err := r.db.Where("employee_id = ? AND shift_date >= ? AND shift_date < ?", employeeID, from, to).
		Order("shift_date ASC, start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(models), nil
}

// ListAround fetches shifts dated within one calendar day of date. Overnight
// shifts spill at most 24 hours forward, so this window covers every record
// that could overlap a candidate on that date.
func (r *ShiftRepository) ListAround(employeeID int64, date time.Time) ([]*schedule.Shift, error) {
	from := date.AddDate(0, 0, -1)
	to := date.AddDate(0, 0, 2)
	var models []*shiftDatamodel.Shift
	err := r.db.Where("employee_id = ? AND shift_date >= ? AND shift_date < ?", employeeID, from, to).
		Order("shift_date ASC, start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return schedule.FromDataModelSlice(models), nil
}

func (r *ShiftRepository) Update(shift *schedule.Shift) error {
	shift.UpdatedAt = time.Now()
	return r.db.Save(schedule.ToDataModel(shift)).Error
}

func (r *ShiftRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&shiftDatamodel.Shift{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
