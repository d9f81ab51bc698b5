package shift

import "time"

// Shift stores local wall-clock times as HH:MM strings; the schedule package
// normalizes them into absolute instants. end_time <= start_time means the
// shift runs past midnight into the next calendar day.
type Shift struct {
	ID           int64     `gorm:"primaryKey"`
	EmployeeID   int64     `gorm:"column:employee_id;not null;index"`
	ShiftDate    time.Time `gorm:"column:shift_date;type:date;not null"`
	StartTime    string    `gorm:"column:start_time;not null"`
	EndTime      string    `gorm:"column:end_time;not null"`
	BreakMinutes int64     `gorm:"column:break_minutes;not null;default:0"`
	Status       string    `gorm:"column:status;not null;default:DRAFT"`
	Notes        string    `gorm:"column:notes"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Shift) TableName() string {
	return "shifts"
}
