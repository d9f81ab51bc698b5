package events

import (
	"time"

	"github.com/google/uuid"
)

// Attendance event types. The ledger publishes these after its transaction
// commits; the payroll worker and review dashboards consume them. Payroll is
// never notified synchronously, it always recomputes from closed entries.
const (
	EventTimeEntryOpened     = "timeentry.opened"
	EventTimeEntryClosed     = "timeentry.closed"
	EventTimeEntryEdited     = "timeentry.edited"
	EventCashReviewNeeded    = "cashdrawer.review_needed"
	EventCashSessionReviewed = "cashdrawer.reviewed"
	EventPayrollRunComputed  = "payroll.run_computed"
)

func NewTimeEntryOpenedEvent(entryID, employeeID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTimeEntryOpened,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entry_id":    entryID,
			"employee_id": employeeID,
		},
	}
}

func NewTimeEntryClosedEvent(entryID, employeeID int64, roundedHours string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTimeEntryClosed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entry_id":      entryID,
			"employee_id":   employeeID,
			"rounded_hours": roundedHours,
		},
	}
}

func NewTimeEntryEditedEvent(entryID int64, editorID int64, reason string) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventTimeEntryEdited,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"entry_id":  entryID,
			"editor_id": editorID,
			"reason":    reason,
		},
	}
}

func NewCashReviewNeededEvent(sessionID, entryID int64, deltaCents int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventCashReviewNeeded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"entry_id":    entryID,
			"delta_cents": deltaCents,
		},
	}
}

func NewCashSessionReviewedEvent(sessionID, reviewerID int64) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventCashSessionReviewed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"session_id":  sessionID,
			"reviewer_id": reviewerID,
		},
	}
}

func NewPayrollRunComputedEvent(runID int64, periodStart, periodEnd time.Time) Event {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventPayrollRunComputed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"run_id":       runID,
			"period_start": periodStart.Format(time.RFC3339),
			"period_end":   periodEnd.Format(time.RFC3339),
		},
	}
}
