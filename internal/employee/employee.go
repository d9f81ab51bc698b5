package employee

import (
	"time"

	employeeDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/employee"
)

// Employee is the read model the attendance core needs: pay rate for payroll,
// cash-handling flag for drawer policy, PIN hash for kiosk punches. Employee
// administration itself lives outside this core.
type Employee struct {
	ID             int64     `json:"id"`
	CompanyID      int64     `json:"company_id"`
	EmployeeNumber string    `json:"employee_number"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	PayRateCents   int64     `json:"pay_rate_cents"`
	HandlesCash    bool      `json:"handles_cash"`
	PINHash        string    `json:"-"`
	IsAdmin        bool      `json:"is_admin"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Repository interface {
	GetByID(id int64) (*Employee, error)
	GetByNumber(employeeNumber string) (*Employee, error)
	ListActiveByCompany(companyID int64) ([]*Employee, error)
}

func FromDataModel(m *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		EmployeeNumber: m.EmployeeNumber,
		Name:           m.Name,
		Email:          m.Email,
		PayRateCents:   m.PayRateCents,
		HandlesCash:    m.HandlesCash,
		PINHash:        m.PINHash,
		IsAdmin:        m.IsAdmin,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
