package postgres

import (
	"errors"

	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/employee"
	"github.com/frahmantamala/timeclock/internal/employee"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var m employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&m), nil
}

func (r *EmployeeRepository) GetByNumber(employeeNumber string) (*employee.Employee, error) {
	var m employeeDatamodel.Employee
	err := r.db.Where("employee_number = ?", employeeNumber).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&m), nil
}

func (r *EmployeeRepository) ListActiveByCompany(companyID int64) ([]*employee.Employee, error) {
	var models []*employeeDatamodel.Employee
	err := r.db.Where("company_id = ? AND is_active = ?", companyID, true).
		Order("employee_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(models), nil
}
