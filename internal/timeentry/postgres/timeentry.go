package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	cashDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/cashdrawer"
	timeentryDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/timeclock/internal/timeentry"
)

// TimeEntryRepository implements timeentry.Repository using GORM. InTx hands
// the callback a repository bound to the transaction, and GetOpenByEmployee
// takes a row lock inside a transaction when forUpdate is set.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) timeentry.Repository {
	return &TimeEntryRepository{db: db}
}

func (r *TimeEntryRepository) InTx(fn func(timeentry.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&TimeEntryRepository{db: tx})
	})
}

// Create persists the entry and, when present, its cash drawer session as one
// unit. Outside InTx the two inserts are still wrapped in a transaction.
func (r *TimeEntryRepository) Create(entry *timeentry.TimeEntry, session *cashdrawer.Session) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		m := timeentry.ToDataModel(entry)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		entry.ID = m.ID
		entry.CreatedAt = m.CreatedAt
		entry.UpdatedAt = m.UpdatedAt

		if session != nil {
			session.TimeEntryID = m.ID
			sm := cashdrawer.ToDataModel(session)
			if err := tx.Create(sm).Error; err != nil {
				return err
			}
			session.ID = sm.ID
		}
		return nil
	})
}

func (r *TimeEntryRepository) GetByID(id int64) (*timeentry.TimeEntry, error) {
	var m timeentryDatamodel.TimeEntry
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return timeentry.FromDataModel(&m), nil
}

func (r *TimeEntryRepository) GetOpenByEmployee(employeeID int64, forUpdate bool) (*timeentry.TimeEntry, error) {
	q := r.db.Where("employee_id = ? AND status = ?", employeeID, timeentry.EntryStatusOpen)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var m timeentryDatamodel.TimeEntry
	err := q.First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return timeentry.FromDataModel(&m), nil
}

func (r *TimeEntryRepository) GetByIdempotencyKey(key string) (*timeentry.TimeEntry, error) {
	var m timeentryDatamodel.TimeEntry
	err := r.db.Where("idempotency_key = ?", key).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return timeentry.FromDataModel(&m), nil
}

func (r *TimeEntryRepository) GetSessionByEntry(entryID int64) (*cashdrawer.Session, error) {
	var m cashDatamodel.CashDrawerSession
	err := r.db.Where("time_entry_id = ?", entryID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cashdrawer.FromDataModel(&m), nil
}

func (r *TimeEntryRepository) Update(entry *timeentry.TimeEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.Save(timeentry.ToDataModel(entry)).Error
}

func (r *TimeEntryRepository) UpdateWithSession(entry *timeentry.TimeEntry, session *cashdrawer.Session) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		entry.UpdatedAt = time.Now()
		if err := tx.Save(timeentry.ToDataModel(entry)).Error; err != nil {
			return err
		}
		if session != nil {
			session.UpdatedAt = time.Now()
			if err := tx.Save(cashdrawer.ToDataModel(session)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TimeEntryRepository) ListByEmployee(employeeID int64, from, to time.Time, limit, offset int) ([]*timeentry.TimeEntry, error) {
	var models []*timeentryDatamodel.TimeEntry
	err := r.db.Where("employee_id = ? AND clock_in_at >= ? AND clock_in_at < ?", employeeID, from, to).
		Order("clock_in_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return timeentry.FromDataModelSlice(models), nil
}
