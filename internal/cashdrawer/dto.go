package cashdrawer

import (
	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/common/validation"
)

type ReviewSessionDTO struct {
	Note string `json:"note"`
}

func (dto ReviewSessionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("note", dto.Note).Required().MaxLength(500)
	return v.Validate()
}

type AdminEditSessionDTO struct {
	StartCashCents int64  `json:"start_cash_cents"`
	EndCashCents   int64  `json:"end_cash_cents"`
	Reason         string `json:"reason"`
}

func (dto AdminEditSessionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("start_cash_cents", dto.StartCashCents).NonNegativeCents()
	v.Field("end_cash_cents", dto.EndCashCents).NonNegativeCents()
	v.Field("reason", dto.Reason).Required().MaxLength(500)
	return v.Validate()
}
