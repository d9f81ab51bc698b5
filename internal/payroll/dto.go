package payroll

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
)

// ComputeRunDTO requests a payroll run for the pay period containing
// PeriodRef (YYYY-MM-DD, interpreted in the company's timezone).
type ComputeRunDTO struct {
	CompanyID int64  `json:"company_id"`
	PeriodRef string `json:"period_ref"`
}

func (dto ComputeRunDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("company_id", dto.CompanyID).Required()
	v.Field("period_ref", dto.PeriodRef).Required().Custom(validateDate)
	return v.Validate()
}

func (dto ComputeRunDTO) Ref() (time.Time, error) {
	return time.Parse("2006-01-02", dto.PeriodRef)
}

func validateDate(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return errors.NewValidationFieldError("period_ref", "period_ref must be a date in YYYY-MM-DD form", errors.ErrCodeValidationFailed)
	}
	return nil
}

// RunWithItems is the read shape for a single run.
type RunWithItems struct {
	Run   *Run        `json:"run"`
	Items []*LineItem `json:"items"`
}
