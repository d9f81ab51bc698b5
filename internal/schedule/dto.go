package schedule

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
)

type CreateShiftDTO struct {
	EmployeeID   int64  `json:"employee_id"`
	ShiftDate    string `json:"shift_date"` // YYYY-MM-DD
	StartTime    string `json:"start_time"` // HH:MM
	EndTime      string `json:"end_time"`   // HH:MM
	BreakMinutes int64  `json:"break_minutes"`
	Notes        string `json:"notes,omitempty"`
}

func (dto CreateShiftDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	v.Field("shift_date", dto.ShiftDate).Required()
	v.Field("start_time", dto.StartTime).Required().WallClock()
	v.Field("end_time", dto.EndTime).Required().WallClock()
	v.Field("break_minutes", dto.BreakMinutes).
		MinInt(0, errors.ErrCodeValidationFailed).
		MaxInt(24*60, errors.ErrCodeValidationFailed)
	v.Field("notes", dto.Notes).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	if _, err := dto.Date(); err != nil {
		return errors.NewValidationFieldError("shift_date", "shift_date must be a date in YYYY-MM-DD form", errors.ErrCodeValidationFailed)
	}
	return nil
}

func (dto CreateShiftDTO) Date() (time.Time, error) {
	return time.Parse("2006-01-02", dto.ShiftDate)
}

type UpdateShiftDTO struct {
	ShiftDate    *string `json:"shift_date,omitempty"`
	StartTime    *string `json:"start_time,omitempty"`
	EndTime      *string `json:"end_time,omitempty"`
	BreakMinutes *int64  `json:"break_minutes,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (dto UpdateShiftDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	if dto.StartTime != nil {
		v.Field("start_time", *dto.StartTime).Required().WallClock()
	}
	if dto.EndTime != nil {
		v.Field("end_time", *dto.EndTime).Required().WallClock()
	}
	if dto.BreakMinutes != nil {
		v.Field("break_minutes", *dto.BreakMinutes).
			MinInt(0, errors.ErrCodeValidationFailed).
			MaxInt(24*60, errors.ErrCodeValidationFailed)
	}
	if dto.Notes != nil {
		v.Field("notes", *dto.Notes).MaxLength(500)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if dto.ShiftDate != nil {
		if _, err := time.Parse("2006-01-02", *dto.ShiftDate); err != nil {
			return errors.NewValidationFieldError("shift_date", "shift_date must be a date in YYYY-MM-DD form", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

type ValidateShiftDTO struct {
	EmployeeID int64  `json:"employee_id"`
	ShiftDate  string `json:"shift_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func (dto ValidateShiftDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", dto.EmployeeID).Required()
	v.Field("shift_date", dto.ShiftDate).Required()
	v.Field("start_time", dto.StartTime).Required().WallClock()
	v.Field("end_time", dto.EndTime).Required().WallClock()
	if err := v.Validate(); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", dto.ShiftDate); err != nil {
		return errors.NewValidationFieldError("shift_date", "shift_date must be a date in YYYY-MM-DD form", errors.ErrCodeValidationFailed)
	}
	return nil
}
