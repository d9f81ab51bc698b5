package timeentry

import (
	"time"

	"github.com/shopspring/decimal"

	timeentryDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/timeentry"
)

const (
	EntryStatusOpen   = "OPEN"
	EntryStatusClosed = "CLOSED"
)

// Punch sources. MANUAL marks entries whose times were set or corrected by an
// admin rather than recorded at punch time.
const (
	SourceKiosk  = "KIOSK"
	SourceWeb    = "WEB"
	SourceMobile = "MOBILE"
	SourceManual = "MANUAL"
)

type TimeEntry struct {
	ID             int64               `json:"id"`
	EmployeeID     int64               `json:"employee_id"`
	ClockInAt      time.Time           `json:"clock_in_at"`
	ClockOutAt     *time.Time          `json:"clock_out_at,omitempty"`
	BreakMinutes   int64               `json:"break_minutes"`
	Status         string              `json:"status"`
	Source         string              `json:"source"`
	RoundedHours   decimal.NullDecimal `json:"rounded_hours,omitempty"`
	EditReason     *string             `json:"edit_reason,omitempty"`
	IdempotencyKey *string             `json:"-"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func (e *TimeEntry) IsOpen() bool {
	return e.Status == EntryStatusOpen
}

// ComputeRoundedHours derives the payable hours for a closed entry. The raw
// span is rounded to the company's bucket first, then the unpaid break is
// subtracted. Rounding before subtraction keeps a re-run on the same stored
// timestamps byte-for-byte reproducible, which payroll depends on.
func ComputeRoundedHours(clockIn, clockOut time.Time, breakMinutes int64, roundingMinutes int, breaksPaid bool) decimal.Decimal {
	span := clockOut.Sub(clockIn)
	if span < 0 {
		span = 0
	}

	if roundingMinutes > 0 {
		span = span.Round(time.Duration(roundingMinutes) * time.Minute)
	}
	if !breaksPaid {
		span -= time.Duration(breakMinutes) * time.Minute
	}
	if span < 0 {
		span = 0
	}

	return decimal.NewFromInt(int64(span.Seconds())).
		Div(decimal.NewFromInt(3600)).
		Round(2)
}

func ToDataModel(e *TimeEntry) *timeentryDatamodel.TimeEntry {
	return &timeentryDatamodel.TimeEntry{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		ClockInAt:      e.ClockInAt,
		ClockOutAt:     e.ClockOutAt,
		BreakMinutes:   e.BreakMinutes,
		Status:         e.Status,
		Source:         e.Source,
		RoundedHours:   e.RoundedHours,
		EditReason:     e.EditReason,
		IdempotencyKey: e.IdempotencyKey,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func FromDataModel(m *timeentryDatamodel.TimeEntry) *TimeEntry {
	return &TimeEntry{
		ID:             m.ID,
		EmployeeID:     m.EmployeeID,
		ClockInAt:      m.ClockInAt,
		ClockOutAt:     m.ClockOutAt,
		BreakMinutes:   m.BreakMinutes,
		Status:         m.Status,
		Source:         m.Source,
		RoundedHours:   m.RoundedHours,
		EditReason:     m.EditReason,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*timeentryDatamodel.TimeEntry) []*TimeEntry {
	result := make([]*TimeEntry, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
