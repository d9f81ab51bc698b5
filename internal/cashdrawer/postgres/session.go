package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	cashDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/cashdrawer"
)

// SessionRepository implements cashdrawer.Repository using GORM
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) cashdrawer.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByID(id int64) (*cashdrawer.Session, error) {
	var m cashDatamodel.CashDrawerSession
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return cashdrawer.FromDataModel(&m), nil
}

func (r *SessionRepository) GetByTimeEntryID(timeEntryID int64) (*cashdrawer.Session, error) {
	var m cashDatamodel.CashDrawerSession
	err := r.db.Where("time_entry_id = ?", timeEntryID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return cashdrawer.FromDataModel(&m), nil
}

func (r *SessionRepository) ListNeedingReview(limit, offset int) ([]*cashdrawer.Session, error) {
	var models []*cashDatamodel.CashDrawerSession
	err := r.db.Where("status = ?", cashdrawer.SessionStatusReviewNeeded).
		Order("updated_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return cashdrawer.FromDataModelSlice(models), nil
}

func (r *SessionRepository) Update(session *cashdrawer.Session) error {
	session.UpdatedAt = time.Now()
	return r.db.Save(cashdrawer.ToDataModel(session)).Error
}
