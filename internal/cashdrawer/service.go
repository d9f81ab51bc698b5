package cashdrawer

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/core/events"
)

type Repository interface {
	GetByID(id int64) (*Session, error)
	GetByTimeEntryID(timeEntryID int64) (*Session, error)
	ListNeedingReview(limit, offset int) ([]*Session, error)
	Update(session *Session) error
}

// VarianceProvider resolves the variance threshold that applies to a session,
// looked up through the owning time entry's company.
type VarianceProvider interface {
	VarianceThresholdForEntry(timeEntryID int64) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service covers the drawer operations that happen outside the punch
// transaction: review of flagged sessions and retroactive admin corrections.
// Opening and closing ride inside the time entry ledger's transaction.
type Service struct {
	repo     Repository
	variance VarianceProvider
	bus      EventPublisher
	logger   *slog.Logger
}

func NewService(repo Repository, variance VarianceProvider, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		variance: variance,
		bus:      bus,
		logger:   logger,
	}
}

// Review resolves a REVIEW_NEEDED session. Any other status is rejected: a
// flagged mismatch can only leave review through this explicit action.
func (s *Service) Review(sessionID, reviewerID int64, dto ReviewSessionDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(sessionID)
	if err != nil {
		s.logger.Error("cash session not found for review", "error", err, "session_id", sessionID)
		return nil, errors.ErrSessionNotFound
	}

	if !session.NeedsReview() {
		s.logger.Warn("review rejected: session not awaiting review",
			"session_id", sessionID,
			"status", session.Status)
		return nil, errors.ErrInvalidSessionState
	}

	now := time.Now()
	session.Status = SessionStatusClosed
	session.ReviewedBy = &reviewerID
	session.ReviewedAt = &now
	session.ReviewNote = &dto.Note
	session.UpdatedAt = now

	if err := s.repo.Update(session); err != nil {
		s.logger.Error("failed to save reviewed session", "error", err, "session_id", sessionID)
		return nil, err
	}

	s.logger.Info("cash session reviewed",
		"session_id", sessionID,
		"reviewer_id", reviewerID,
		"delta_cents", derefInt64(session.DeltaCents))

	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewCashSessionReviewedEvent(sessionID, reviewerID))
	}

	return session, nil
}

// AdminEdit corrects the start/end amounts of a closed or flagged session and
// recomputes delta and status under the current variance threshold. The
// reason is mandatory and stored with the session.
func (s *Service) AdminEdit(sessionID, actorID int64, dto AdminEditSessionDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	session, err := s.repo.GetByID(sessionID)
	if err != nil {
		s.logger.Error("cash session not found for edit", "error", err, "session_id", sessionID)
		return nil, errors.ErrSessionNotFound
	}

	if session.Status == SessionStatusOpen {
		s.logger.Warn("admin edit rejected: session still open", "session_id", sessionID)
		return nil, errors.NewStateError("cash drawer session is still open", errors.ErrCodeInvalidSessionState)
	}

	threshold, err := s.variance.VarianceThresholdForEntry(session.TimeEntryID)
	if err != nil {
		s.logger.Error("failed to resolve variance threshold", "error", err, "session_id", sessionID)
		return nil, errors.NewInternalError("failed to resolve variance threshold", err)
	}

	if err := session.Reapply(dto.StartCashCents, dto.EndCashCents, threshold); err != nil {
		return nil, err
	}
	session.EditReason = &dto.Reason

	if err := s.repo.Update(session); err != nil {
		s.logger.Error("failed to save edited session", "error", err, "session_id", sessionID)
		return nil, err
	}

	s.logger.Info("cash session edited",
		"session_id", sessionID,
		"actor_id", actorID,
		"delta_cents", derefInt64(session.DeltaCents),
		"status", session.Status)

	if s.bus != nil && session.NeedsReview() {
		s.bus.Publish(context.Background(), events.NewCashReviewNeededEvent(session.ID, session.TimeEntryID, derefInt64(session.DeltaCents)))
	}

	return session, nil
}

func (s *Service) GetSession(sessionID int64) (*Session, error) {
	session, err := s.repo.GetByID(sessionID)
	if err != nil {
		return nil, errors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) ListNeedingReview(limit, offset int) ([]*Session, error) {
	sessions, err := s.repo.ListNeedingReview(limit, offset)
	if err != nil {
		s.logger.Error("failed to list sessions needing review", "error", err)
		return nil, err
	}
	return sessions, nil
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
