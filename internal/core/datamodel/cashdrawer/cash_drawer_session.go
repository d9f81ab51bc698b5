package cashdrawer

import "time"

// CashDrawerSession is linked 1:1 to a time entry via the unique index on
// time_entry_id. delta_cents is derived at close and recomputed on admin edit.
type CashDrawerSession struct {
	ID                 int64      `gorm:"primaryKey"`
	TimeEntryID        int64      `gorm:"column:time_entry_id;not null;uniqueIndex"`
	StartCashCents     int64      `gorm:"column:start_cash_cents;not null"`
	EndCashCents       *int64     `gorm:"column:end_cash_cents"`
	CollectedCashCents int64      `gorm:"column:collected_cash_cents;not null;default:0"`
	BeveragesCashCents int64      `gorm:"column:beverages_cash_cents;not null;default:0"`
	DropCashCents      int64      `gorm:"column:drop_cash_cents;not null;default:0"`
	DeltaCents         *int64     `gorm:"column:delta_cents"`
	Status             string     `gorm:"column:status;not null;default:OPEN"`
	ReviewedBy         *int64     `gorm:"column:reviewed_by"`
	ReviewedAt         *time.Time `gorm:"column:reviewed_at"`
	ReviewNote         *string    `gorm:"column:review_note"`
	EditReason         *string    `gorm:"column:edit_reason"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (CashDrawerSession) TableName() string {
	return "cash_drawer_sessions"
}
