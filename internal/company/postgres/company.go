package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/timeclock/internal/company"
	companyDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/company"
)

type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) company.Repository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetByCompanyID(companyID int64) (*company.Settings, error) {
	var m companyDatamodel.CompanySettings
	err := r.db.Where("company_id = ?", companyID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return company.FromDataModel(&m), nil
}

func (r *SettingsRepository) ListCompanyIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&companyDatamodel.CompanySettings{}).
		Order("company_id ASC").
		Pluck("company_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
