package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/timeclock/internal/company"
)

// EntrySummary is the slice of a closed time entry the calculator needs:
// whose hours they are, when the shift started (for week assignment) and the
// already-rounded payable hours.
type EntrySummary struct {
	EmployeeID int64
	ClockInAt  time.Time
	Hours      decimal.Decimal
}

// ComputeLineItems turns the period's closed entries into one line item per
// employee. The computation is pure and deterministic: the same entries,
// rates and settings always produce the same items, sorted by employee ID.
//
// Overtime splits per week inside the period. An entry belongs to the week
// containing its clock-in. Employees without entries get no line item, and
// entries for employees missing from rates are skipped.
func ComputeLineItems(entries []EntrySummary, rates map[int64]int64, settings *company.Settings, period Period) []*LineItem {
	weeks := period.Weeks()

	type weekHours map[int]decimal.Decimal
	perEmployee := make(map[int64]weekHours)

	for _, e := range entries {
		if _, known := rates[e.EmployeeID]; !known {
			continue
		}
		week := -1
		for i, w := range weeks {
			if w.Contains(e.ClockInAt) {
				week = i
				break
			}
		}
		if week < 0 {
			continue
		}
		wh, ok := perEmployee[e.EmployeeID]
		if !ok {
			wh = make(weekHours)
			perEmployee[e.EmployeeID] = wh
		}
		wh[week] = wh[week].Add(e.Hours)
	}

	employeeIDs := make([]int64, 0, len(perEmployee))
	for id := range perEmployee {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Slice(employeeIDs, func(i, j int) bool { return employeeIDs[i] < employeeIDs[j] })

	threshold := settings.OvertimeThresholdHoursPerWeek
	multiplier := settings.OvertimeMultiplierDefault

	items := make([]*LineItem, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		regular := decimal.Zero
		overtime := decimal.Zero

		for week := range weeks {
			hours, ok := perEmployee[id][week]
			if !ok || hours.IsZero() {
				continue
			}
			if settings.OvertimeEnabled && hours.GreaterThan(threshold) {
				regular = regular.Add(threshold)
				overtime = overtime.Add(hours.Sub(threshold))
			} else {
				regular = regular.Add(hours)
			}
		}

		rate := decimal.NewFromInt(rates[id])
		gross := regular.Mul(rate).Add(overtime.Mul(rate).Mul(multiplier)).Round(0)

		items = append(items, &LineItem{
			EmployeeID:    id,
			RegularHours:  regular.Round(2),
			OvertimeHours: overtime.Round(2),
			GrossPayCents: gross.IntPart(),
		})
	}
	return items
}
