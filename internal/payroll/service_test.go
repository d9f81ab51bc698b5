package payroll_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/employee"
	"github.com/frahmantamala/timeclock/internal/payroll"
)

type mockRunRepository struct {
	runs   map[int64]*payroll.Run
	items  map[int64][]*payroll.LineItem
	nextID int64
}

func newMockRunRepository() *mockRunRepository {
	return &mockRunRepository{
		runs:   make(map[int64]*payroll.Run),
		items:  make(map[int64][]*payroll.LineItem),
		nextID: 1,
	}
}

func (m *mockRunRepository) CreateRun(run *payroll.Run, items []*payroll.LineItem) error {
	run.ID = m.nextID
	m.nextID++
	m.runs[run.ID] = run
	for _, item := range items {
		item.PayrollRunID = run.ID
	}
	m.items[run.ID] = items
	return nil
}

func (m *mockRunRepository) GetRun(id int64) (*payroll.Run, []*payroll.LineItem, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, nil, errors.New("run not found")
	}
	return run, m.items[id], nil
}

func (m *mockRunRepository) ListRuns(companyID int64, limit, offset int) ([]*payroll.Run, error) {
	var result []*payroll.Run
	for _, r := range m.runs {
		if r.CompanyID == companyID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *mockRunRepository) GetLatestRunForPeriod(companyID int64, periodStart time.Time) (*payroll.Run, error) {
	var latest *payroll.Run
	for _, r := range m.runs {
		if r.CompanyID != companyID || !r.PeriodStart.Equal(periodStart) {
			continue
		}
		if latest == nil || r.ID > latest.ID {
			latest = r
		}
	}
	return latest, nil
}

func (m *mockRunRepository) MarkFinalized(id int64, at time.Time) error {
	run, ok := m.runs[id]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = payroll.RunStatusFinalized
	run.FinalizedAt = &at
	return nil
}

func (m *mockRunRepository) MarkSuperseded(id int64) error {
	run, ok := m.runs[id]
	if !ok {
		return errors.New("run not found")
	}
	run.Status = payroll.RunStatusSuperseded
	return nil
}

type stubEntrySource struct {
	summaries []payroll.EntrySummary
}

func (s *stubEntrySource) ListClosedEntrySummaries(companyID int64, from, to time.Time) ([]payroll.EntrySummary, error) {
	var inWindow []payroll.EntrySummary
	for _, e := range s.summaries {
		if !e.ClockInAt.Before(from) && e.ClockInAt.Before(to) {
			inWindow = append(inWindow, e)
		}
	}
	return inWindow, nil
}

type stubPayrollSettings struct {
	settings *company.Settings
}

func (s *stubPayrollSettings) SettingsFor(companyID int64) (*company.Settings, error) {
	return s.settings, nil
}

type stubStaffDirectory struct {
	staff []*employee.Employee
}

func (s *stubStaffDirectory) ListActiveByCompany(companyID int64) ([]*employee.Employee, error) {
	return s.staff, nil
}

type payrollBus struct {
	published []events.Event
}

func (b *payrollBus) Publish(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

var _ = Describe("PayrollService", func() {
	var (
		repo    *mockRunRepository
		source  *stubEntrySource
		bus     *payrollBus
		service *payroll.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		repo = newMockRunRepository()
		bus = &payrollBus{}
		source = &stubEntrySource{summaries: []payroll.EntrySummary{
			{EmployeeID: 7, ClockInAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), Hours: decimal.NewFromInt(8)},
			{EmployeeID: 7, ClockInAt: time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC), Hours: decimal.NewFromInt(8)},
		}}

		settings := &stubPayrollSettings{settings: &company.Settings{
			CompanyID:                     1,
			Timezone:                      "UTC",
			PayPeriodType:                 company.PayPeriodWeekly,
			PayrollWeekStartDay:           int(time.Monday),
			OvertimeEnabled:               true,
			OvertimeThresholdHoursPerWeek: decimal.NewFromInt(40),
			OvertimeMultiplierDefault:     decimal.NewFromFloat(1.5),
		}}
		staff := &stubStaffDirectory{staff: []*employee.Employee{
			{ID: 7, CompanyID: 1, Name: "Raka", IsActive: true, PayRateCents: 2000},
		}}

		service = payroll.NewService(repo, source, settings, staff, bus, testLogger)
	})

	computeDraft := func() *payroll.RunWithItems {
		result, err := service.ComputeRun(payroll.ComputeRunDTO{CompanyID: 1, PeriodRef: "2026-03-04"})
		Expect(err).NotTo(HaveOccurred())
		return result
	}

	Describe("ComputeRun", func() {
		It("builds a draft run with line items for the period", func() {
			result := computeDraft()
			Expect(result.Run.Status).To(Equal(payroll.RunStatusDraft))
			Expect(result.Run.PeriodStart).To(Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
			Expect(result.Run.PeriodEnd).To(Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)))
			Expect(result.Items).To(HaveLen(1))
			Expect(result.Items[0].GrossPayCents).To(Equal(int64(32000)))

			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.EventPayrollRunComputed))
		})

		It("supersedes a previous draft for the same period", func() {
			first := computeDraft()
			second := computeDraft()

			Expect(*second.Run.SupersedesRunID).To(Equal(first.Run.ID))
			stale, _, err := repo.GetRun(first.Run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stale.Status).To(Equal(payroll.RunStatusSuperseded))
		})

		It("leaves a finalized run untouched on recompute", func() {
			first := computeDraft()
			_, err := service.FinalizeRun(first.Run.ID)
			Expect(err).NotTo(HaveOccurred())

			second := computeDraft()
			Expect(*second.Run.SupersedesRunID).To(Equal(first.Run.ID))

			frozen, _, err := repo.GetRun(first.Run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(frozen.Status).To(Equal(payroll.RunStatusFinalized))
		})

		It("rejects a malformed reference date", func() {
			_, err := service.ComputeRun(payroll.ComputeRunDTO{CompanyID: 1, PeriodRef: "March 4th"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("FinalizeRun", func() {
		It("freezes a draft run", func() {
			draft := computeDraft()

			run, err := service.FinalizeRun(draft.Run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(run.Status).To(Equal(payroll.RunStatusFinalized))
			Expect(run.FinalizedAt).NotTo(BeNil())
		})

		It("rejects finalizing twice", func() {
			draft := computeDraft()
			_, err := service.FinalizeRun(draft.Run.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.FinalizeRun(draft.Run.ID)
			Expect(err).To(HaveOccurred())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeRunFinalized))
		})

		It("rejects finalizing a superseded run", func() {
			first := computeDraft()
			computeDraft()

			_, err := service.FinalizeRun(first.Run.ID)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetRun", func() {
		It("returns the run with its items", func() {
			draft := computeDraft()

			found, err := service.GetRun(draft.Run.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Run.ID).To(Equal(draft.Run.ID))
			Expect(found.Items).To(HaveLen(1))
		})

		It("returns not found for an unknown run", func() {
			_, err := service.GetRun(999)
			Expect(err).To(HaveOccurred())
		})
	})
})
