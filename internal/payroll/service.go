package payroll

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/employee"
)

type Repository interface {
	CreateRun(run *Run, items []*LineItem) error
	GetRun(id int64) (*Run, []*LineItem, error)
	ListRuns(companyID int64, limit, offset int) ([]*Run, error)
	// GetLatestRunForPeriod returns (nil, nil) when the period has no run yet.
	GetLatestRunForPeriod(companyID int64, periodStart time.Time) (*Run, error)
	MarkFinalized(id int64, at time.Time) error
	MarkSuperseded(id int64) error
}

// EntrySource feeds the calculator with the company's closed entries whose
// clock-in falls inside the window.
type EntrySource interface {
	ListClosedEntrySummaries(companyID int64, from, to time.Time) ([]EntrySummary, error)
}

type SettingsProvider interface {
	SettingsFor(companyID int64) (*company.Settings, error)
}

type EmployeeDirectory interface {
	ListActiveByCompany(companyID int64) ([]*employee.Employee, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	entries   EntrySource
	settings  SettingsProvider
	employees EmployeeDirectory
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, entries EntrySource, settings SettingsProvider, employees EmployeeDirectory, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		entries:   entries,
		settings:  settings,
		employees: employees,
		bus:       bus,
		logger:    logger,
	}
}

// ComputeRun builds a DRAFT run for the period containing the reference date.
// An existing DRAFT run for the same period is marked SUPERSEDED; a FINALIZED
// one stays untouched and the new run records it in SupersedesRunID.
func (s *Service) ComputeRun(dto ComputeRunDTO) (*RunWithItems, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	settings, err := s.settings.SettingsFor(dto.CompanyID)
	if err != nil {
		s.logger.Error("settings lookup failed", "error", err, "company_id", dto.CompanyID)
		return nil, errors.NewInternalError("failed to load company settings", err)
	}

	ref, _ := dto.Ref()
	period, perr := PeriodFor(settings, ref)
	if perr != nil {
		if appErr, ok := errors.IsAppError(perr); ok {
			return nil, appErr
		}
		return nil, perr
	}

	summaries, err := s.entries.ListClosedEntrySummaries(dto.CompanyID, period.Start, period.End)
	if err != nil {
		s.logger.Error("failed to load closed entries", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	staff, err := s.employees.ListActiveByCompany(dto.CompanyID)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}
	rates := make(map[int64]int64, len(staff))
	for _, emp := range staff {
		rates[emp.ID] = emp.PayRateCents
	}

	items := ComputeLineItems(summaries, rates, settings, period)

	previous, err := s.repo.GetLatestRunForPeriod(dto.CompanyID, period.Start)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	run := &Run{
		CompanyID:   dto.CompanyID,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		Status:      RunStatusDraft,
		ComputedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if previous != nil {
		prevID := previous.ID
		run.SupersedesRunID = &prevID
	}

	if err := s.repo.CreateRun(run, items); err != nil {
		s.logger.Error("failed to persist payroll run", "error", err, "company_id", dto.CompanyID)
		return nil, err
	}

	if previous != nil && previous.IsDraft() {
		if err := s.repo.MarkSuperseded(previous.ID); err != nil {
			s.logger.Error("failed to mark previous run superseded", "error", err, "run_id", previous.ID)
			return nil, err
		}
	}

	s.logger.Info("payroll run computed",
		"run_id", run.ID,
		"company_id", dto.CompanyID,
		"period_start", period.Start.Format("2006-01-02"),
		"period_end", period.End.Format("2006-01-02"),
		"line_items", len(items))

	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewPayrollRunComputedEvent(run.ID, period.Start, period.End))
	}

	return &RunWithItems{Run: run, Items: items}, nil
}

// FinalizeRun freezes a DRAFT run. Finalized and superseded runs are
// immutable.
func (s *Service) FinalizeRun(runID int64) (*Run, error) {
	run, _, err := s.repo.GetRun(runID)
	if err != nil {
		return nil, errors.ErrRunNotFound
	}

	if run.IsFinalized() {
		return nil, errors.ErrRunFinalized
	}
	if !run.IsDraft() {
		return nil, errors.NewStateError("only draft runs can be finalized", errors.ErrCodeRunFinalized)
	}

	now := time.Now()
	if err := s.repo.MarkFinalized(runID, now); err != nil {
		s.logger.Error("failed to finalize run", "error", err, "run_id", runID)
		return nil, err
	}
	run.Status = RunStatusFinalized
	run.FinalizedAt = &now
	run.UpdatedAt = now

	s.logger.Info("payroll run finalized", "run_id", runID)
	return run, nil
}

func (s *Service) GetRun(runID int64) (*RunWithItems, error) {
	run, items, err := s.repo.GetRun(runID)
	if err != nil {
		return nil, errors.ErrRunNotFound
	}
	return &RunWithItems{Run: run, Items: items}, nil
}

func (s *Service) ListRuns(companyID int64, limit, offset int) ([]*Run, error) {
	runs, err := s.repo.ListRuns(companyID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list payroll runs", "error", err, "company_id", companyID)
		return nil, err
	}
	return runs, nil
}
