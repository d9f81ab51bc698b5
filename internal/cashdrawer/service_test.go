package cashdrawer_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	"github.com/frahmantamala/timeclock/internal/core/events"
)

type mockSessionRepository struct {
	sessions map[int64]*cashdrawer.Session
	nextID   int64

	updateErr error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: make(map[int64]*cashdrawer.Session), nextID: 1}
}

func (m *mockSessionRepository) add(session *cashdrawer.Session) *cashdrawer.Session {
	session.ID = m.nextID
	m.nextID++
	m.sessions[session.ID] = session
	return session
}

func (m *mockSessionRepository) GetByID(id int64) (*cashdrawer.Session, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *mockSessionRepository) GetByTimeEntryID(timeEntryID int64) (*cashdrawer.Session, error) {
	for _, s := range m.sessions {
		if s.TimeEntryID == timeEntryID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSessionRepository) ListNeedingReview(limit, offset int) ([]*cashdrawer.Session, error) {
	var result []*cashdrawer.Session
	for _, s := range m.sessions {
		if s.NeedsReview() {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSessionRepository) Update(session *cashdrawer.Session) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.sessions[session.ID] = session
	return nil
}

type stubVariance struct {
	threshold int64
	err       error
}

func (s *stubVariance) VarianceThresholdForEntry(timeEntryID int64) (int64, error) {
	return s.threshold, s.err
}

type capturingBus struct {
	published []events.Event
}

func (b *capturingBus) Publish(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

var _ = Describe("CashDrawerService", func() {
	var (
		repo    *mockSessionRepository
		bus     *capturingBus
		service *cashdrawer.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	flaggedSession := func(entryID int64) *cashdrawer.Session {
		session, err := cashdrawer.NewOpenSession(10000)
		Expect(err).NotTo(HaveOccurred())
		session.TimeEntryID = entryID
		Expect(session.Close(25000, 20000, 1500, 5000, 500)).To(Succeed())
		Expect(session.NeedsReview()).To(BeTrue())
		return repo.add(session)
	}

	closedSession := func(entryID int64) *cashdrawer.Session {
		session, err := cashdrawer.NewOpenSession(10000)
		Expect(err).NotTo(HaveOccurred())
		session.TimeEntryID = entryID
		Expect(session.Close(23500, 20000, 1500, 5000, 500)).To(Succeed())
		Expect(session.Status).To(Equal(cashdrawer.SessionStatusClosed))
		return repo.add(session)
	}

	BeforeEach(func() {
		repo = newMockSessionRepository()
		bus = &capturingBus{}
		service = cashdrawer.NewService(repo, &stubVariance{threshold: 500}, bus, testLogger)
	})

	Describe("Review", func() {
		It("closes a flagged session and records the reviewer", func() {
			session := flaggedSession(42)

			reviewed, err := service.Review(session.ID, 99, cashdrawer.ReviewSessionDTO{
				Note: "recount confirmed, till was over from the morning shift",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(reviewed.Status).To(Equal(cashdrawer.SessionStatusClosed))
			Expect(*reviewed.ReviewedBy).To(Equal(int64(99)))
			Expect(reviewed.ReviewedAt).NotTo(BeNil())
			Expect(*reviewed.ReviewNote).To(ContainSubstring("recount"))

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventCashSessionReviewed))
		})

		It("rejects a session that is not awaiting review", func() {
			session := closedSession(42)

			_, err := service.Review(session.ID, 99, cashdrawer.ReviewSessionDTO{Note: "nothing to do"})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidSessionState))
		})

		It("requires a note", func() {
			session := flaggedSession(42)

			_, err := service.Review(session.ID, 99, cashdrawer.ReviewSessionDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("returns not found for an unknown session", func() {
			_, err := service.Review(12345, 99, cashdrawer.ReviewSessionDTO{Note: "n/a"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("AdminEdit", func() {
		It("recomputes the delta under the corrected amounts", func() {
			session := flaggedSession(42)

			edited, err := service.AdminEdit(session.ID, 99, cashdrawer.AdminEditSessionDTO{
				StartCashCents: 11500,
				EndCashCents:   25000,
				Reason:         "opening float was miscounted",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*edited.DeltaCents).To(BeZero())
			Expect(edited.Status).To(Equal(cashdrawer.SessionStatusClosed))
			Expect(*edited.EditReason).To(Equal("opening float was miscounted"))
		})

		It("republishes the review event when the correction still exceeds the threshold", func() {
			session := flaggedSession(42)

			edited, err := service.AdminEdit(session.ID, 99, cashdrawer.AdminEditSessionDTO{
				StartCashCents: 10000,
				EndCashCents:   26000,
				Reason:         "re-entered the count",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.Status).To(Equal(cashdrawer.SessionStatusReviewNeeded))

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventCashReviewNeeded))
		})

		It("rejects editing a session that is still open", func() {
			session, err := cashdrawer.NewOpenSession(10000)
			Expect(err).NotTo(HaveOccurred())
			repo.add(session)

			_, err = service.AdminEdit(session.ID, 99, cashdrawer.AdminEditSessionDTO{
				StartCashCents: 10000,
				EndCashCents:   10000,
				Reason:         "premature",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidSessionState))
		})

		It("requires a reason", func() {
			session := closedSession(42)

			_, err := service.AdminEdit(session.ID, 99, cashdrawer.AdminEditSessionDTO{
				StartCashCents: 10000,
				EndCashCents:   23500,
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListNeedingReview", func() {
		It("returns only flagged sessions", func() {
			flaggedSession(1)
			closedSession(2)

			sessions, err := service.ListNeedingReview(20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(1))
			Expect(sessions[0].NeedsReview()).To(BeTrue())
		})
	})
})
