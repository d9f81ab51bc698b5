package schedule

import "time"

// Conflict describes one existing shift that overlaps a candidate interval.
// The detector returns every overlap, not just the first, so callers can
// report them all in a single response.
type Conflict struct {
	ShiftID    int64     `json:"shift_id"`
	EmployeeID int64     `json:"employee_id"`
	ShiftDate  time.Time `json:"shift_date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Status     string    `json:"status"`
}

// FindConflicts compares a candidate interval against the given shifts, which
// must all belong to the same employee; shifts of different employees never
// conflict and callers query per employee. excludeShiftID skips the record
// being edited (zero means no exclusion). Cancelled shifts are ignored.
func FindConflicts(candidate Interval, excludeShiftID int64, existing []*Shift, loc *time.Location) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, shift := range existing {
		if shift.ID != 0 && shift.ID == excludeShiftID {
			continue
		}
		if !shift.Blocking() {
			continue
		}
		interval, err := shift.Interval(loc)
		if err != nil {
			continue
		}
		if candidate.Overlaps(interval) {
			conflicts = append(conflicts, Conflict{
				ShiftID:    shift.ID,
				EmployeeID: shift.EmployeeID,
				ShiftDate:  shift.ShiftDate,
				StartTime:  shift.StartTime,
				EndTime:    shift.EndTime,
				Status:     shift.Status,
			})
		}
	}
	return conflicts
}
