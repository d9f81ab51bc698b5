package timeentry

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
)

// ClockInDTO opens a punch. ClockInAt records the true punch time when a
// MOBILE or MANUAL punch arrives late; when nil the server clock is used.
// StartCashCents is required when the drawer policy applies to the employee
// and ignored otherwise. IdempotencyKey lets flaky kiosks retry the same
// punch without double-opening.
type ClockInDTO struct {
	Source         string     `json:"source"`
	ClockInAt      *time.Time `json:"clock_in_at,omitempty"`
	StartCashCents *int64     `json:"start_cash_cents,omitempty"`
	IdempotencyKey string     `json:"idempotency_key,omitempty"`
}

func (dto ClockInDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("source", dto.Source).Custom(validateSource)
	v.Field("clock_in_at", dto.ClockInAt).NotFuture()
	v.Field("start_cash_cents", dto.StartCashCents).NonNegativeCents()
	v.Field("idempotency_key", dto.IdempotencyKey).MaxLength(128)
	return v.Validate()
}

// ClockOutDTO closes the open punch. ClockOutAt records the true punch time
// for a delayed punch, defaulting to the server clock; it must land after the
// entry's clock-in. The cash fields are the drawer count at shift end;
// required when a session was opened at clock-in.
type ClockOutDTO struct {
	ClockOutAt         *time.Time `json:"clock_out_at,omitempty"`
	BreakMinutes       int64      `json:"break_minutes"`
	EndCashCents       *int64     `json:"end_cash_cents,omitempty"`
	CollectedCashCents *int64     `json:"collected_cash_cents,omitempty"`
	BeveragesCashCents *int64     `json:"beverages_cash_cents,omitempty"`
	DropCashCents      *int64     `json:"drop_cash_cents,omitempty"`
}

func (dto ClockOutDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("clock_out_at", dto.ClockOutAt).NotFuture()
	v.Field("break_minutes", dto.BreakMinutes).
		MinInt(0, errors.ErrCodeValidationFailed).
		MaxInt(24*60, errors.ErrCodeValidationFailed)
	v.Field("end_cash_cents", dto.EndCashCents).NonNegativeCents()
	v.Field("collected_cash_cents", dto.CollectedCashCents).NonNegativeCents()
	v.Field("beverages_cash_cents", dto.BeveragesCashCents).NonNegativeCents()
	v.Field("drop_cash_cents", dto.DropCashCents).NonNegativeCents()
	return v.Validate()
}

// ManualEditDTO rewrites a closed entry's times. Reason is mandatory; the
// rounded hours are recomputed from the new values under the current policy.
type ManualEditDTO struct {
	ClockInAt    time.Time `json:"clock_in_at"`
	ClockOutAt   time.Time `json:"clock_out_at"`
	BreakMinutes int64     `json:"break_minutes"`
	Reason       string    `json:"reason"`
}

func (dto ManualEditDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("clock_in_at", dto.ClockInAt).Required().NotFuture()
	v.Field("clock_out_at", dto.ClockOutAt).Required()
	v.Field("break_minutes", dto.BreakMinutes).
		MinInt(0, errors.ErrCodeValidationFailed).
		MaxInt(24*60, errors.ErrCodeValidationFailed)
	v.Field("reason", dto.Reason).Required().MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	if !dto.ClockOutAt.After(dto.ClockInAt) {
		return errors.NewValidationFieldError("clock_out_at", "clock out must be after clock in", errors.ErrCodeInvalidTimeRange)
	}
	return nil
}

// KioskPunchDTO is the shared-terminal punch: the kiosk identifies the
// employee by number and PIN, and the service decides whether it is a
// clock-in or a clock-out from the ledger state.
type KioskPunchDTO struct {
	EmployeeNumber string `json:"employee_number"`
	PIN            string `json:"pin"`

	StartCashCents     *int64 `json:"start_cash_cents,omitempty"`
	BreakMinutes       int64  `json:"break_minutes"`
	EndCashCents       *int64 `json:"end_cash_cents,omitempty"`
	CollectedCashCents *int64 `json:"collected_cash_cents,omitempty"`
	BeveragesCashCents *int64 `json:"beverages_cash_cents,omitempty"`
	DropCashCents      *int64 `json:"drop_cash_cents,omitempty"`
	IdempotencyKey     string `json:"idempotency_key,omitempty"`
}

func (dto KioskPunchDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("employee_number", dto.EmployeeNumber).Required().MaxLength(32)
	v.Field("pin", dto.PIN).Required().MaxLength(12)
	v.Field("start_cash_cents", dto.StartCashCents).NonNegativeCents()
	v.Field("end_cash_cents", dto.EndCashCents).NonNegativeCents()
	v.Field("collected_cash_cents", dto.CollectedCashCents).NonNegativeCents()
	v.Field("beverages_cash_cents", dto.BeveragesCashCents).NonNegativeCents()
	v.Field("drop_cash_cents", dto.DropCashCents).NonNegativeCents()
	v.Field("break_minutes", dto.BreakMinutes).
		MinInt(0, errors.ErrCodeValidationFailed).
		MaxInt(24*60, errors.ErrCodeValidationFailed)
	return v.Validate()
}

func (dto KioskPunchDTO) clockIn() ClockInDTO {
	return ClockInDTO{
		Source:         SourceKiosk,
		StartCashCents: dto.StartCashCents,
		IdempotencyKey: dto.IdempotencyKey,
	}
}

func (dto KioskPunchDTO) clockOut() ClockOutDTO {
	return ClockOutDTO{
		BreakMinutes:       dto.BreakMinutes,
		EndCashCents:       dto.EndCashCents,
		CollectedCashCents: dto.CollectedCashCents,
		BeveragesCashCents: dto.BeveragesCashCents,
		DropCashCents:      dto.DropCashCents,
	}
}

func validateSource(value interface{}) *errors.AppError {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil
	}
	switch s {
	case SourceKiosk, SourceWeb, SourceMobile, SourceManual:
		return nil
	}
	return errors.NewValidationFieldError("source", "source must be one of KIOSK, WEB, MOBILE, MANUAL", errors.ErrCodeValidationFailed)
}
