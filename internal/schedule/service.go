package schedule

import (
	"log/slog"
	"time"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/employee"
)

// Repository defines data access for shifts. ListAround returns the
// employee's shifts dated within one day of the given date, which is enough
// to catch every overlap once overnight spill is accounted for.
type Repository interface {
	Create(shift *Shift) error
	GetByID(id int64) (*Shift, error)
	ListByEmployee(employeeID int64, from, to time.Time) ([]*Shift, error)
	ListAround(employeeID int64, date time.Time) ([]*Shift, error)
	Update(shift *Shift) error
	UpdateStatus(id int64, status string) error
}

type SettingsProvider interface {
	SettingsFor(companyID int64) (*company.Settings, error)
}

type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

type Service struct {
	repo      Repository
	settings  SettingsProvider
	employees EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo Repository, settings SettingsProvider, employees EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		settings:  settings,
		employees: employees,
		logger:    logger,
	}
}

func (s *Service) locationFor(employeeID int64) (*time.Location, error) {
	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		s.logger.Error("employee lookup failed", "error", err, "employee_id", employeeID)
		return nil, errors.NewNotFoundError("employee not found", errors.ErrCodeValidationFailed)
	}
	settings, err := s.settings.SettingsFor(emp.CompanyID)
	if err != nil {
		s.logger.Error("settings lookup failed", "error", err, "company_id", emp.CompanyID)
		return nil, errors.NewInternalError("failed to load company settings", err)
	}
	return settings.Location(), nil
}

// CreateShift validates the candidate against the employee's existing shifts
// and persists it as DRAFT when the slot is free. All overlapping shifts are
// returned at once in the conflict error.
func (s *Service) CreateShift(dto CreateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("shift validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	loc, err := s.locationFor(dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	date, _ := dto.Date()
	candidate, normErr := NormalizeIntervalStrings(date, dto.StartTime, dto.EndTime, loc)
	if normErr != nil {
		return nil, errors.NewValidationError(normErr.Error(), errors.ErrCodeInvalidWallClock)
	}

	conflicts, err := s.conflictsFor(dto.EmployeeID, candidate, 0)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.Warn("shift creation rejected: overlapping shifts",
			"employee_id", dto.EmployeeID,
			"conflict_count", len(conflicts))
		return nil, errors.NewConflictError("shift overlaps existing shifts", errors.ErrCodeShiftConflict).
			WithDetails(conflicts)
	}

	now := time.Now()
	shift := &Shift{
		EmployeeID:   dto.EmployeeID,
		ShiftDate:    date,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		BreakMinutes: dto.BreakMinutes,
		Status:       ShiftStatusDraft,
		Notes:        dto.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(shift); err != nil {
		s.logger.Error("failed to create shift", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}

	s.logger.Info("shift created",
		"shift_id", shift.ID,
		"employee_id", shift.EmployeeID,
		"date", dto.ShiftDate,
		"overnight", shift.IsOvernight())

	return shift, nil
}

// UpdateShift re-runs conflict detection with the edited times, excluding the
// shift itself from the comparison set.
func (s *Service) UpdateShift(shiftID int64, dto UpdateShiftDTO) (*Shift, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("shift update validation failed", "error", err, "shift_id", shiftID)
		return nil, err
	}

	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		return nil, errors.ErrShiftNotFound
	}
	if !shift.CanEdit() {
		s.logger.Warn("cannot edit shift in current status", "shift_id", shiftID, "status", shift.Status)
		return nil, errors.NewStateError("shift cannot be edited in current status", errors.ErrCodeInvalidShift)
	}

	if dto.ShiftDate != nil {
		date, _ := time.Parse("2006-01-02", *dto.ShiftDate)
		shift.ShiftDate = date
	}
	if dto.StartTime != nil {
		shift.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		shift.EndTime = *dto.EndTime
	}
	if dto.BreakMinutes != nil {
		shift.BreakMinutes = *dto.BreakMinutes
	}
	if dto.Notes != nil {
		shift.Notes = *dto.Notes
	}

	loc, err := s.locationFor(shift.EmployeeID)
	if err != nil {
		return nil, err
	}
	candidate, normErr := shift.Interval(loc)
	if normErr != nil {
		return nil, errors.NewValidationError(normErr.Error(), errors.ErrCodeInvalidWallClock)
	}

	conflicts, err := s.conflictsFor(shift.EmployeeID, candidate, shift.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, errors.NewConflictError("shift overlaps existing shifts", errors.ErrCodeShiftConflict).
			WithDetails(conflicts)
	}

	shift.UpdatedAt = time.Now()
	if err := s.repo.Update(shift); err != nil {
		s.logger.Error("failed to update shift", "error", err, "shift_id", shiftID)
		return nil, err
	}

	s.logger.Info("shift updated", "shift_id", shiftID)
	return shift, nil
}

// ValidateShift is the dry-run conflict check: an empty list means the slot
// is free.
func (s *Service) ValidateShift(dto ValidateShiftDTO) ([]Conflict, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	loc, err := s.locationFor(dto.EmployeeID)
	if err != nil {
		return nil, err
	}

	date, _ := time.Parse("2006-01-02", dto.ShiftDate)
	candidate, normErr := NormalizeIntervalStrings(date, dto.StartTime, dto.EndTime, loc)
	if normErr != nil {
		return nil, errors.NewValidationError(normErr.Error(), errors.ErrCodeInvalidWallClock)
	}

	return s.conflictsFor(dto.EmployeeID, candidate, 0)
}

func (s *Service) conflictsFor(employeeID int64, candidate Interval, excludeShiftID int64) ([]Conflict, error) {
	existing, err := s.repo.ListAround(employeeID, candidate.Start)
	if err != nil {
		s.logger.Error("failed to list shifts for conflict check", "error", err, "employee_id", employeeID)
		return nil, err
	}
	loc := candidate.Start.Location()
	return FindConflicts(candidate, excludeShiftID, existing, loc), nil
}

func (s *Service) GetShift(shiftID int64) (*Shift, error) {
	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		return nil, errors.ErrShiftNotFound
	}
	return shift, nil
}

func (s *Service) ListShifts(employeeID int64, from, to time.Time) ([]*Shift, error) {
	return s.repo.ListByEmployee(employeeID, from, to)
}

func (s *Service) PublishShift(shiftID int64) (*Shift, error) {
	return s.transition(shiftID, ShiftStatusPublished, func(sh *Shift) bool { return sh.CanPublish() })
}

func (s *Service) ApproveShift(shiftID int64) (*Shift, error) {
	return s.transition(shiftID, ShiftStatusApproved, func(sh *Shift) bool { return sh.CanApprove() })
}

func (s *Service) CancelShift(shiftID int64) (*Shift, error) {
	return s.transition(shiftID, ShiftStatusCancelled, func(sh *Shift) bool { return sh.CanCancel() })
}

func (s *Service) transition(shiftID int64, target string, allowed func(*Shift) bool) (*Shift, error) {
	shift, err := s.repo.GetByID(shiftID)
	if err != nil {
		return nil, errors.ErrShiftNotFound
	}
	if !allowed(shift) {
		s.logger.Warn("illegal shift transition",
			"shift_id", shiftID,
			"from", shift.Status,
			"to", target)
		return nil, errors.NewStateError("shift cannot transition to "+target+" from "+shift.Status, errors.ErrCodeInvalidShift)
	}
	if err := s.repo.UpdateStatus(shiftID, target); err != nil {
		s.logger.Error("failed to update shift status", "error", err, "shift_id", shiftID)
		return nil, err
	}
	shift.Status = target
	shift.UpdatedAt = time.Now()

	s.logger.Info("shift status changed", "shift_id", shiftID, "status", target)
	return shift, nil
}
