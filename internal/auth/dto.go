package auth

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
	"github.com/frahmantamala/timeclock/internal/employee"
)

type LoginDTO struct {
	EmployeeNumber string `json:"employee_number"`
	PIN            string `json:"pin"`
}

func (dto LoginDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_number", dto.EmployeeNumber).Required().MaxLength(32)
	v.Field("pin", dto.PIN).Required().MaxLength(12)
	return v.Validate()
}

type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Employee    *employee.Employee `json:"employee"`
}
