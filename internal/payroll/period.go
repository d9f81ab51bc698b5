package payroll

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/company"
)

// Period is a half-open pay period [Start, End) in the company's timezone.
// Boundaries sit at local midnight; AddDate arithmetic keeps them there
// across DST transitions.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Weeks splits the period into consecutive 7-day slices. Overtime thresholds
// apply per week even inside a biweekly period.
func (p Period) Weeks() []Period {
	var weeks []Period
	for start := p.Start; start.Before(p.End); start = start.AddDate(0, 0, 7) {
		end := start.AddDate(0, 0, 7)
		if end.After(p.End) {
			end = p.End
		}
		weeks = append(weeks, Period{Start: start, End: end})
	}
	return weeks
}

// PeriodFor resolves the pay period containing ref under the company's
// cadence. Weekly periods start on the configured weekday; biweekly periods
// are 14-day windows counted from the anchor date, which must be set.
func PeriodFor(settings *company.Settings, ref time.Time) (Period, error) {
	loc := settings.Location()
	ref = ref.In(loc)

	switch settings.PayPeriodType {
	case company.PayPeriodWeekly:
		return weeklyPeriod(ref, time.Weekday(settings.PayrollWeekStartDay), loc), nil
	case company.PayPeriodBiweekly:
		if settings.BiweeklyAnchorDate == nil {
			return Period{}, errors.NewValidationError("biweekly pay periods require an anchor date", errors.ErrCodeMissingBiweeklyAnchor)
		}
		return biweeklyPeriod(ref, *settings.BiweeklyAnchorDate, loc), nil
	default:
		return Period{}, errors.NewValidationError("unknown pay period type: "+settings.PayPeriodType, errors.ErrCodeValidationFailed)
	}
}

func weeklyPeriod(ref time.Time, startDay time.Weekday, loc *time.Location) Period {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	back := (int(day.Weekday()) - int(startDay) + 7) % 7
	start := day.AddDate(0, 0, -back)
	return Period{Start: start, End: start.AddDate(0, 0, 7)}
}

func biweeklyPeriod(ref, anchor time.Time, loc *time.Location) Period {
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	k := int(ref.Sub(anchor).Hours() / (24 * 14))
	start := anchor.AddDate(0, 0, 14*k)
	for ref.Before(start) {
		start = start.AddDate(0, 0, -14)
	}
	for !ref.Before(start.AddDate(0, 0, 14)) {
		start = start.AddDate(0, 0, 14)
	}
	return Period{Start: start, End: start.AddDate(0, 0, 14)}
}
