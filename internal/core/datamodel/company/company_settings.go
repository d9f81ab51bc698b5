package company

import (
	"time"

	"github.com/shopspring/decimal"
)

type CompanySettings struct {
	ID                            int64           `gorm:"primaryKey"`
	CompanyID                     int64           `gorm:"column:company_id;not null;uniqueIndex"`
	Timezone                      string          `gorm:"column:timezone;not null;default:UTC"`
	PayPeriodType                 string          `gorm:"column:pay_period_type;not null;default:weekly"`
	PayrollWeekStartDay           int             `gorm:"column:payroll_week_start_day;not null;default:1"`
	BiweeklyAnchorDate            *time.Time      `gorm:"column:biweekly_anchor_date;type:date"`
	OvertimeEnabled               bool            `gorm:"column:overtime_enabled;not null;default:false"`
	OvertimeThresholdHoursPerWeek decimal.Decimal `gorm:"column:overtime_threshold_hours_per_week;type:numeric(5,2);default:40"`
	OvertimeMultiplierDefault     decimal.Decimal `gorm:"column:overtime_multiplier_default;type:numeric(4,2);default:1.5"`
	RoundingPolicyMinutes         int             `gorm:"column:rounding_policy_minutes;not null;default:0"`
	BreaksPaid                    bool            `gorm:"column:breaks_paid;not null;default:true"`
	CashDrawerEnabled             bool            `gorm:"column:cash_drawer_enabled;not null;default:false"`
	CashDrawerVarianceThresholdCents int64        `gorm:"column:cash_drawer_variance_threshold_cents;not null;default:0"`
	CreatedAt                     time.Time       `gorm:"column:created_at"`
	UpdatedAt                     time.Time       `gorm:"column:updated_at"`
}

func (CompanySettings) TableName() string {
	return "company_settings"
}
