package cashdrawer

import (
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	cashDatamodel "github.com/frahmantamala/timeclock/internal/core/datamodel/cashdrawer"
)

const (
	SessionStatusOpen         = "OPEN"
	SessionStatusClosed       = "CLOSED"
	SessionStatusReviewNeeded = "REVIEW_NEEDED"
)

// Classification of a closed session's delta.
const (
	ClassificationBalanced = "balanced"
	ClassificationOver     = "over"
	ClassificationShort    = "short"
)

type Session struct {
	ID                 int64      `json:"id"`
	TimeEntryID        int64      `json:"time_entry_id"`
	StartCashCents     int64      `json:"start_cash_cents"`
	EndCashCents       *int64     `json:"end_cash_cents,omitempty"`
	CollectedCashCents int64      `json:"collected_cash_cents"`
	BeveragesCashCents int64      `json:"beverages_cash_cents"`
	DropCashCents      int64      `json:"drop_cash_cents"`
	DeltaCents         *int64     `json:"delta_cents,omitempty"`
	Status             string     `json:"status"`
	ReviewedBy         *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	ReviewNote         *string    `json:"review_note,omitempty"`
	EditReason         *string    `json:"edit_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewOpenSession builds the session that accompanies a clock-in. The caller
// persists it in the same transaction as the time entry so a failed punch
// never leaves an orphaned session and vice versa.
func NewOpenSession(startCashCents int64) (*Session, error) {
	if startCashCents < 0 {
		return nil, errors.NewValidationFieldError("start_cash_cents", "start cash must not be negative", errors.ErrCodeInvalidAmount)
	}
	now := time.Now()
	return &Session{
		StartCashCents: startCashCents,
		Status:         SessionStatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ExpectedCents is the drawer amount the count should match:
// start + collected - drop - beverages. Beverages are treated as a separate
// revenue stream that never lands in the drawer.
func (s *Session) ExpectedCents() int64 {
	return s.StartCashCents + s.CollectedCashCents - s.DropCashCents - s.BeveragesCashCents
}

// Close records the counted amounts, derives delta = end - expected and sets
// the status: within the variance threshold the session is CLOSED, beyond it
// REVIEW_NEEDED. A mismatch is never auto-resolved.
func (s *Session) Close(endCents, collectedCents, beveragesCents, dropCents, varianceThresholdCents int64) error {
	if err := validateAmounts(endCents, collectedCents, beveragesCents, dropCents); err != nil {
		return err
	}

	s.EndCashCents = &endCents
	s.CollectedCashCents = collectedCents
	s.BeveragesCashCents = beveragesCents
	s.DropCashCents = dropCents

	delta := endCents - s.ExpectedCents()
	s.DeltaCents = &delta

	if abs(delta) > varianceThresholdCents {
		s.Status = SessionStatusReviewNeeded
	} else {
		s.Status = SessionStatusClosed
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Reapply recomputes delta and status after an admin corrected the start or
// end amount, using the same rules as Close.
func (s *Session) Reapply(startCents, endCents, varianceThresholdCents int64) error {
	if startCents < 0 || endCents < 0 {
		return errors.NewValidationError("cash amounts must not be negative", errors.ErrCodeInvalidAmount)
	}
	s.StartCashCents = startCents
	return s.Close(endCents, s.CollectedCashCents, s.BeveragesCashCents, s.DropCashCents, varianceThresholdCents)
}

// Classification reports the sign convention of the delta: positive is over,
// negative is short.
func (s *Session) Classification() string {
	if s.DeltaCents == nil || *s.DeltaCents == 0 {
		return ClassificationBalanced
	}
	if *s.DeltaCents > 0 {
		return ClassificationOver
	}
	return ClassificationShort
}

func (s *Session) NeedsReview() bool {
	return s.Status == SessionStatusReviewNeeded
}

func validateAmounts(amounts ...int64) error {
	for _, a := range amounts {
		if a < 0 {
			return errors.NewValidationError("cash amounts must not be negative", errors.ErrCodeInvalidAmount)
		}
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func ToDataModel(s *Session) *cashDatamodel.CashDrawerSession {
	return &cashDatamodel.CashDrawerSession{
		ID:                 s.ID,
		TimeEntryID:        s.TimeEntryID,
		StartCashCents:     s.StartCashCents,
		EndCashCents:       s.EndCashCents,
		CollectedCashCents: s.CollectedCashCents,
		BeveragesCashCents: s.BeveragesCashCents,
		DropCashCents:      s.DropCashCents,
		DeltaCents:         s.DeltaCents,
		Status:             s.Status,
		ReviewedBy:         s.ReviewedBy,
		ReviewedAt:         s.ReviewedAt,
		ReviewNote:         s.ReviewNote,
		EditReason:         s.EditReason,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func FromDataModel(m *cashDatamodel.CashDrawerSession) *Session {
	return &Session{
		ID:                 m.ID,
		TimeEntryID:        m.TimeEntryID,
		StartCashCents:     m.StartCashCents,
		EndCashCents:       m.EndCashCents,
		CollectedCashCents: m.CollectedCashCents,
		BeveragesCashCents: m.BeveragesCashCents,
		DropCashCents:      m.DropCashCents,
		DeltaCents:         m.DeltaCents,
		Status:             m.Status,
		ReviewedBy:         m.ReviewedBy,
		ReviewedAt:         m.ReviewedAt,
		ReviewNote:         m.ReviewNote,
		EditReason:         m.EditReason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func FromDataModelSlice(models []*cashDatamodel.CashDrawerSession) []*Session {
	result := make([]*Session, len(models))
	for i, m := range models {
		result[i] = FromDataModel(m)
	}
	return result
}
