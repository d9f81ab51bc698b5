package employee

import "time"

type Employee struct {
	ID             int64     `gorm:"primaryKey"`
	CompanyID      int64     `gorm:"column:company_id;not null;index"`
	EmployeeNumber string    `gorm:"column:employee_number;uniqueIndex;not null"`
	Name           string    `gorm:"column:name;not null"`
	Email          string    `gorm:"column:email"`
	PayRateCents   int64     `gorm:"column:pay_rate_cents;not null;default:0"`
	HandlesCash    bool      `gorm:"column:handles_cash;not null;default:false"`
	PINHash        string    `gorm:"column:pin_hash"`
	IsAdmin        bool      `gorm:"column:is_admin;not null;default:false"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
