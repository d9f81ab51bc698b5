package company

import (
	"time"

	"github.com/shopspring/decimal"

	companyDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/company"
)

// Pay period cadence for a company.
const (
	PayPeriodWeekly   = "weekly"
	PayPeriodBiweekly = "biweekly"
)

// Rounding policy granularity in minutes. Zero keeps exact minutes.
const (
	RoundingNone    = 0
	RoundingFive    = 5
	RoundingTen     = 10
	RoundingFifteen = 15
)

// Settings is the explicit policy value threaded into every ledger, cash and
// payroll computation. Nothing in the core reads ambient/global company state.
type Settings struct {
	CompanyID                        int64           `json:"company_id"`
	Timezone                         string          `json:"timezone"`
	PayPeriodType                    string          `json:"pay_period_type"`
	PayrollWeekStartDay              int             `json:"payroll_week_start_day"`
	BiweeklyAnchorDate               *time.Time      `json:"biweekly_anchor_date,omitempty"`
	OvertimeEnabled                  bool            `json:"overtime_enabled"`
	OvertimeThresholdHoursPerWeek    decimal.Decimal `json:"overtime_threshold_hours_per_week"`
	OvertimeMultiplierDefault        decimal.Decimal `json:"overtime_multiplier_default"`
	RoundingPolicyMinutes            int             `json:"rounding_policy_minutes"`
	BreaksPaid                       bool            `json:"breaks_paid"`
	CashDrawerEnabled                bool            `json:"cash_drawer_enabled"`
	CashDrawerVarianceThresholdCents int64           `json:"cash_drawer_variance_threshold_cents"`
}

// Location resolves the configured IANA timezone, falling back to UTC when
// the name is empty or unknown.
func (s *Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Settings) IsValidRoundingPolicy() bool {
	switch s.RoundingPolicyMinutes {
	case RoundingNone, RoundingFive, RoundingTen, RoundingFifteen:
		return true
	}
	return false
}

func FromDataModel(m *companyDatamodel.CompanySettings) *Settings {
	return &Settings{
		CompanyID:                        m.CompanyID,
		Timezone:                         m.Timezone,
		PayPeriodType:                    m.PayPeriodType,
		PayrollWeekStartDay:              m.PayrollWeekStartDay,
		BiweeklyAnchorDate:               m.BiweeklyAnchorDate,
		OvertimeEnabled:                  m.OvertimeEnabled,
		OvertimeThresholdHoursPerWeek:    m.OvertimeThresholdHoursPerWeek,
		OvertimeMultiplierDefault:        m.OvertimeMultiplierDefault,
		RoundingPolicyMinutes:            m.RoundingPolicyMinutes,
		BreaksPaid:                       m.BreaksPaid,
		CashDrawerEnabled:                m.CashDrawerEnabled,
		CashDrawerVarianceThresholdCents: m.CashDrawerVarianceThresholdCents,
	}
}

func ToDataModel(s *Settings) *companyDatamodel.CompanySettings {
	return &companyDatamodel.CompanySettings{
		CompanyID:                        s.CompanyID,
		Timezone:                         s.Timezone,
		PayPeriodType:                    s.PayPeriodType,
		PayrollWeekStartDay:              s.PayrollWeekStartDay,
		BiweeklyAnchorDate:               s.BiweeklyAnchorDate,
		OvertimeEnabled:                  s.OvertimeEnabled,
		OvertimeThresholdHoursPerWeek:    s.OvertimeThresholdHoursPerWeek,
		OvertimeMultiplierDefault:        s.OvertimeMultiplierDefault,
		RoundingPolicyMinutes:            s.RoundingPolicyMinutes,
		BreaksPaid:                       s.BreaksPaid,
		CashDrawerEnabled:                s.CashDrawerEnabled,
		CashDrawerVarianceThresholdCents: s.CashDrawerVarianceThresholdCents,
	}
}
