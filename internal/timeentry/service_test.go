package timeentry_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/employee"
	"github.com/frahmantamala/timeclock/internal/timeentry"
)

type mockEntryRepository struct {
	entries  map[int64]*timeentry.TimeEntry
	sessions map[int64]*cashdrawer.Session
	nextID   int64

	txErr          error
	inTx           bool
	keyCheckedInTx bool
}

func newMockEntryRepository() *mockEntryRepository {
	return &mockEntryRepository{
		entries:  make(map[int64]*timeentry.TimeEntry),
		sessions: make(map[int64]*cashdrawer.Session),
		nextID:   1,
	}
}

func (m *mockEntryRepository) InTx(fn func(timeentry.Repository) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(m)
}

func (m *mockEntryRepository) Create(entry *timeentry.TimeEntry, session *cashdrawer.Session) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = entry
	if session != nil {
		session.ID = m.nextID
		m.nextID++
		session.TimeEntryID = entry.ID
		m.sessions[entry.ID] = session
	}
	return nil
}

func (m *mockEntryRepository) GetByID(id int64) (*timeentry.TimeEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, errors.New("entry not found")
	}
	return entry, nil
}

func (m *mockEntryRepository) GetOpenByEmployee(employeeID int64, forUpdate bool) (*timeentry.TimeEntry, error) {
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && e.Status == timeentry.EntryStatusOpen {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockEntryRepository) GetByIdempotencyKey(key string) (*timeentry.TimeEntry, error) {
	m.keyCheckedInTx = m.inTx
	for _, e := range m.entries {
		if e.IdempotencyKey != nil && *e.IdempotencyKey == key {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockEntryRepository) GetSessionByEntry(entryID int64) (*cashdrawer.Session, error) {
	session, ok := m.sessions[entryID]
	if !ok {
		return nil, nil
	}
	return session, nil
}

func (m *mockEntryRepository) Update(entry *timeentry.TimeEntry) error {
	m.entries[entry.ID] = entry
	return nil
}

func (m *mockEntryRepository) UpdateWithSession(entry *timeentry.TimeEntry, session *cashdrawer.Session) error {
	m.entries[entry.ID] = entry
	if session != nil {
		m.sessions[entry.ID] = session
	}
	return nil
}

func (m *mockEntryRepository) ListByEmployee(employeeID int64, from, to time.Time, limit, offset int) ([]*timeentry.TimeEntry, error) {
	var result []*timeentry.TimeEntry
	for _, e := range m.entries {
		if e.EmployeeID == employeeID && !e.ClockInAt.Before(from) && e.ClockInAt.Before(to) {
			result = append(result, e)
		}
	}
	return result, nil
}

type mockEntrySettings struct {
	settings map[int64]*company.Settings
}

func (m *mockEntrySettings) SettingsFor(companyID int64) (*company.Settings, error) {
	s, ok := m.settings[companyID]
	if !ok {
		return nil, errors.New("settings not found")
	}
	return s, nil
}

type mockEntryEmployees struct {
	employees map[int64]*employee.Employee
}

func (m *mockEntryEmployees) GetByID(id int64) (*employee.Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return nil, errors.New("employee not found")
	}
	return emp, nil
}

type mockKioskAuth struct {
	byNumber map[string]*employee.Employee
}

func (m *mockKioskAuth) AuthenticateKiosk(employeeNumber, pin string) (*employee.Employee, error) {
	emp, ok := m.byNumber[employeeNumber]
	if !ok || pin != "1234" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return emp, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) typesPublished() []string {
	var types []string
	for _, e := range b.published {
		types = append(types, e.EventType())
	}
	return types
}

var _ = Describe("TimeEntryService", func() {
	var (
		repo    *mockEntryRepository
		bus     *recordingBus
		service *timeentry.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	cents := func(v int64) *int64 { return &v }

	newService := func(settings *company.Settings, employees map[int64]*employee.Employee) *timeentry.Service {
		kiosk := &mockKioskAuth{byNumber: make(map[string]*employee.Employee)}
		for _, emp := range employees {
			kiosk.byNumber[emp.EmployeeNumber] = emp
		}
		return timeentry.NewService(
			repo,
			&mockEntrySettings{settings: map[int64]*company.Settings{settings.CompanyID: settings}},
			&mockEntryEmployees{employees: employees},
			kiosk,
			bus,
			testLogger,
		)
	}

	BeforeEach(func() {
		repo = newMockEntryRepository()
		bus = &recordingBus{}
		service = newService(
			&company.Settings{
				CompanyID:                        1,
				Timezone:                         "UTC",
				RoundingPolicyMinutes:            15,
				BreaksPaid:                       true,
				CashDrawerEnabled:                true,
				CashDrawerVarianceThresholdCents: 500,
			},
			map[int64]*employee.Employee{
				7: {ID: 7, CompanyID: 1, EmployeeNumber: "EMP-007", Name: "Raka", IsActive: true, HandlesCash: true},
				8: {ID: 8, CompanyID: 1, EmployeeNumber: "EMP-008", Name: "Sari", IsActive: true},
				9: {ID: 9, CompanyID: 1, EmployeeNumber: "EMP-009", Name: "Budi", IsActive: false},
			},
		)
	})

	Describe("ClockIn", func() {
		It("opens an entry with a cash session for a cash-handling employee", func() {
			entry, err := service.ClockIn(7, timeentry.ClockInDTO{StartCashCents: cents(10000)})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Status).To(Equal(timeentry.EntryStatusOpen))
			Expect(entry.Source).To(Equal(timeentry.SourceWeb))

			session, _ := repo.GetSessionByEntry(entry.ID)
			Expect(session).NotTo(BeNil())
			Expect(session.StartCashCents).To(Equal(int64(10000)))
			Expect(session.Status).To(Equal(cashdrawer.SessionStatusOpen))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTimeEntryOpened))
		})

		It("requires a start cash count when the drawer policy applies", func() {
			_, err := service.ClockIn(7, timeentry.ClockInDTO{})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidAmount))
		})

		It("opens without a session for employees who do not handle cash", func() {
			entry, err := service.ClockIn(8, timeentry.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			session, _ := repo.GetSessionByEntry(entry.ID)
			Expect(session).To(BeNil())
		})

		It("rejects a second clock-in while an entry is open", func() {
			_, err := service.ClockIn(8, timeentry.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockIn(8, timeentry.ClockInDTO{})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeAlreadyClockedIn))
			Expect(repo.entries).To(HaveLen(1))
		})

		It("rejects inactive employees", func() {
			_, err := service.ClockIn(9, timeentry.ClockInDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("replays the original entry when the idempotency key repeats", func() {
			first, err := service.ClockIn(8, timeentry.ClockInDTO{IdempotencyKey: "punch-abc"})
			Expect(err).NotTo(HaveOccurred())

			second, err := service.ClockIn(8, timeentry.ClockInDTO{IdempotencyKey: "punch-abc"})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(repo.entries).To(HaveLen(1))
		})

		It("looks up the idempotency key inside the punch transaction", func() {
			_, err := service.ClockIn(8, timeentry.ClockInDTO{IdempotencyKey: "punch-abc"})
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.keyCheckedInTx).To(BeTrue())
		})

		It("records a supplied punch time for a delayed punch", func() {
			at := time.Now().Add(-3 * time.Hour)
			entry, err := service.ClockIn(8, timeentry.ClockInDTO{
				Source:    timeentry.SourceMobile,
				ClockInAt: &at,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ClockInAt).To(Equal(at))
			Expect(entry.Source).To(Equal(timeentry.SourceMobile))
		})

		It("rejects a punch time in the future", func() {
			at := time.Now().Add(time.Hour)
			_, err := service.ClockIn(8, timeentry.ClockInDTO{ClockInAt: &at})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ClockOut", func() {
		It("closes the entry and computes rounded hours", func() {
			entry, err := service.ClockIn(8, timeentry.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
			entry.ClockInAt = time.Now().Add(-8 * time.Hour)

			closed, err := service.ClockOut(8, timeentry.ClockOutDTO{})
			Expect(err).NotTo(HaveOccurred())
			Expect(closed.Status).To(Equal(timeentry.EntryStatusClosed))
			Expect(closed.ClockOutAt).NotTo(BeNil())
			Expect(closed.RoundedHours.Valid).To(BeTrue())
			Expect(closed.RoundedHours.Decimal.String()).To(Equal("8"))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTimeEntryClosed))
		})

		It("returns a conflict when no entry is open", func() {
			_, err := service.ClockOut(8, timeentry.ClockOutDTO{})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeNoOpenEntry))
		})

		It("closes the cash session within the variance threshold", func() {
			entry, err := service.ClockIn(7, timeentry.ClockInDTO{StartCashCents: cents(10000)})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockOut(7, timeentry.ClockOutDTO{
				EndCashCents:       cents(24700),
				CollectedCashCents: cents(20000),
				DropCashCents:      cents(5000),
				BeveragesCashCents: cents(500),
			})
			Expect(err).NotTo(HaveOccurred())

			session, _ := repo.GetSessionByEntry(entry.ID)
			Expect(session.Status).To(Equal(cashdrawer.SessionStatusClosed))
			Expect(*session.DeltaCents).To(Equal(int64(200)))
			Expect(bus.typesPublished()).NotTo(ContainElement(events.EventCashReviewNeeded))
		})

		It("flags the session and publishes an event when the variance exceeds the threshold", func() {
			entry, err := service.ClockIn(7, timeentry.ClockInDTO{StartCashCents: cents(10000)})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockOut(7, timeentry.ClockOutDTO{
				EndCashCents:       cents(28000),
				CollectedCashCents: cents(20000),
				DropCashCents:      cents(1000),
			})
			Expect(err).NotTo(HaveOccurred())

			session, _ := repo.GetSessionByEntry(entry.ID)
			Expect(session.Status).To(Equal(cashdrawer.SessionStatusReviewNeeded))
			Expect(*session.DeltaCents).To(Equal(int64(-1000)))
			Expect(bus.typesPublished()).To(ContainElement(events.EventCashReviewNeeded))
		})

		It("closes at a supplied punch time", func() {
			in := time.Now().Add(-12 * time.Hour)
			_, err := service.ClockIn(8, timeentry.ClockInDTO{
				Source:    timeentry.SourceMobile,
				ClockInAt: &in,
			})
			Expect(err).NotTo(HaveOccurred())

			out := in.Add(8 * time.Hour)
			closed, err := service.ClockOut(8, timeentry.ClockOutDTO{ClockOutAt: &out})
			Expect(err).NotTo(HaveOccurred())
			Expect(*closed.ClockOutAt).To(Equal(out))
			Expect(closed.RoundedHours.Decimal.String()).To(Equal("8"))
		})

		It("rejects a supplied punch time before the clock-in", func() {
			in := time.Now().Add(-2 * time.Hour)
			_, err := service.ClockIn(8, timeentry.ClockInDTO{ClockInAt: &in})
			Expect(err).NotTo(HaveOccurred())

			out := in.Add(-time.Hour)
			_, err = service.ClockOut(8, timeentry.ClockOutDTO{ClockOutAt: &out})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
		})

		It("requires the end cash count when a session is open", func() {
			_, err := service.ClockIn(7, timeentry.ClockInDTO{StartCashCents: cents(10000)})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.ClockOut(7, timeentry.ClockOutDTO{})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidAmount))
		})
	})

	Describe("ManualEdit", func() {
		var entryID int64

		BeforeEach(func() {
			entry, err := service.ClockIn(8, timeentry.ClockInDTO{})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.ClockOut(8, timeentry.ClockOutDTO{})
			Expect(err).NotTo(HaveOccurred())
			entryID = entry.ID
		})

		It("rewrites the punch times and recomputes hours", func() {
			in := time.Now().Add(-10 * time.Hour).Truncate(time.Hour)
			out := in.Add(6 * time.Hour)

			edited, err := service.ManualEdit(entryID, 1, timeentry.ManualEditDTO{
				ClockInAt:  in,
				ClockOutAt: out,
				Reason:     "forgot to punch out",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(edited.ClockInAt).To(Equal(in))
			Expect(*edited.ClockOutAt).To(Equal(out))
			Expect(edited.RoundedHours.Decimal.String()).To(Equal("6"))
			Expect(*edited.EditReason).To(Equal("forgot to punch out"))
			Expect(bus.typesPublished()).To(ContainElement(events.EventTimeEntryEdited))
		})

		It("rejects times that land on another entry", func() {
			in := time.Now().Add(-10 * time.Hour).Truncate(time.Hour)
			otherOut := in.Add(5 * time.Hour)
			repo.entries[77] = &timeentry.TimeEntry{
				ID:         77,
				EmployeeID: 8,
				ClockInAt:  in.Add(2 * time.Hour),
				ClockOutAt: &otherOut,
				Status:     timeentry.EntryStatusClosed,
			}

			_, err := service.ManualEdit(entryID, 1, timeentry.ManualEditDTO{
				ClockInAt:  in,
				ClockOutAt: in.Add(4 * time.Hour),
				Reason:     "backdating over an existing shift",
			})
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeEntryConflict))
		})

		It("requires a reason", func() {
			in := time.Now().Add(-10 * time.Hour)
			_, err := service.ManualEdit(entryID, 1, timeentry.ManualEditDTO{
				ClockInAt:  in,
				ClockOutAt: in.Add(6 * time.Hour),
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects clock out before clock in", func() {
			in := time.Now().Add(-2 * time.Hour)
			_, err := service.ManualEdit(entryID, 1, timeentry.ManualEditDTO{
				ClockInAt:  in,
				ClockOutAt: in.Add(-1 * time.Hour),
				Reason:     "typo",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("KioskPunch", func() {
		It("toggles between clock-in and clock-out", func() {
			entry, action, err := service.KioskPunch(timeentry.KioskPunchDTO{
				EmployeeNumber: "EMP-008",
				PIN:            "1234",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(action).To(Equal(timeentry.ActionClockIn))
			Expect(entry.Status).To(Equal(timeentry.EntryStatusOpen))
			Expect(entry.Source).To(Equal(timeentry.SourceKiosk))

			entry, action, err = service.KioskPunch(timeentry.KioskPunchDTO{
				EmployeeNumber: "EMP-008",
				PIN:            "1234",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(action).To(Equal(timeentry.ActionClockOut))
			Expect(entry.Status).To(Equal(timeentry.EntryStatusClosed))
		})

		It("rejects a bad PIN", func() {
			_, _, err := service.KioskPunch(timeentry.KioskPunchDTO{
				EmployeeNumber: "EMP-008",
				PIN:            "9999",
			})
			Expect(err).To(HaveOccurred())
		})
	})
})
