package timeentry

import (
	errors "github.com/frahmantamala/timeclock/internal"
)

// VarianceResolver answers the cash drawer module's question "which variance
// threshold governs this session" by walking entry -> employee -> company
// settings.
type VarianceResolver struct {
	entries   Repository
	employees EmployeeDirectory
	settings  SettingsProvider
}

func NewVarianceResolver(entries Repository, employees EmployeeDirectory, settings SettingsProvider) *VarianceResolver {
	return &VarianceResolver{
		entries:   entries,
		employees: employees,
		settings:  settings,
	}
}

func (r *VarianceResolver) VarianceThresholdForEntry(timeEntryID int64) (int64, error) {
	entry, err := r.entries.GetByID(timeEntryID)
	if err != nil {
		return 0, errors.ErrEntryNotFound
	}
	emp, err := r.employees.GetByID(entry.EmployeeID)
	if err != nil {
		return 0, err
	}
	settings, err := r.settings.SettingsFor(emp.CompanyID)
	if err != nil {
		return 0, err
	}
	return settings.CashDrawerVarianceThresholdCents, nil
}
