package timeentry

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is the persistence model for a punch pair. Rows are never
// deleted: retroactive corrections overwrite in/out times and must carry an
// edit reason.
type TimeEntry struct {
	ID             int64               `gorm:"primaryKey"`
	EmployeeID     int64               `gorm:"column:employee_id;not null;index"`
	ClockInAt      time.Time           `gorm:"column:clock_in_at;not null"`
	ClockOutAt     *time.Time          `gorm:"column:clock_out_at"`
	BreakMinutes   int64               `gorm:"column:break_minutes;not null;default:0"`
	Status         string              `gorm:"column:status;not null;default:OPEN"`
	Source         string              `gorm:"column:source;not null"`
	RoundedHours   decimal.NullDecimal `gorm:"column:rounded_hours;type:numeric(6,2)"`
	EditReason     *string             `gorm:"column:edit_reason"`
	IdempotencyKey *string             `gorm:"column:idempotency_key;uniqueIndex"`
	CreatedAt      time.Time           `gorm:"column:created_at"`
	UpdatedAt      time.Time           `gorm:"column:updated_at"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}
