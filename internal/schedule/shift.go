package schedule

import (
	"time"

	shiftDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/shift"
)

const (
	ShiftStatusDraft     = "DRAFT"
	ShiftStatusPublished = "PUBLISHED"
	ShiftStatusApproved  = "APPROVED"
	ShiftStatusCancelled = "CANCELLED"
)

type Shift struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	ShiftDate    time.Time `json:"shift_date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	BreakMinutes int64     `json:"break_minutes"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Interval normalizes the shift's wall-clock times in loc. The stored times
// are already validated HH:MM, so a parse failure here is a data bug.
func (s *Shift) Interval(loc *time.Location) (Interval, error) {
	return NormalizeIntervalStrings(s.ShiftDate, s.StartTime, s.EndTime, loc)
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s *Shift) IsOvernight() bool {
	start, err := ParseWallClock(s.StartTime)
	if err != nil {
		return false
	}
	end, err := ParseWallClock(s.EndTime)
	if err != nil {
		return false
	}
	return end.Minutes() <= start.Minutes()
}

// Blocking reports whether the shift occupies its slot for conflict purposes.
// Cancelled shifts never conflict.
func (s *Shift) Blocking() bool {
	return s.Status != ShiftStatusCancelled
}

func (s *Shift) CanPublish() bool {
	return s.Status == ShiftStatusDraft
}

func (s *Shift) CanApprove() bool {
	return s.Status == ShiftStatusPublished
}

func (s *Shift) CanCancel() bool {
	return s.Status != ShiftStatusCancelled
}

func (s *Shift) CanEdit() bool {
	return s.Status == ShiftStatusDraft || s.Status == ShiftStatusPublished
}

func ToDataModel(s *Shift) *shiftDatamodel.Shift {
	return &shiftDatamodel.Shift{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		ShiftDate:    s.ShiftDate,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		BreakMinutes: s.BreakMinutes,
		Status:       s.Status,
		Notes:        s.Notes,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func FromDataModel(m *shiftDatamodel.Shift) *Shift {
	return &Shift{
		ID:           m.ID,
		EmployeeID:   m.EmployeeID,
		ShiftDate:    m.ShiftDate,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		BreakMinutes: m.BreakMinutes,
		Status:       m.Status,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*shiftDatamodel.Shift) []*Shift {
	result := make([]*Shift, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
