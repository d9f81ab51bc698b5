package timeentry

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/cashdrawer"
	"github.com/frahmantamala/timeclock/internal/company"
	"github.com/frahmantamala/timeclock/internal/core/events"
	"github.com/frahmantamala/timeclock/internal/employee"
)

// Repository defines data access for the ledger. Implementations must make
// InTx run the callback against a transaction-scoped Repository, and must
// lock the open-entry lookup when forUpdate is set so two concurrent punches
// for the same employee serialize instead of both opening an entry.
//
// GetOpenByEmployee, GetByIdempotencyKey and GetSessionByEntry return
// (nil, nil) when no row matches.
type Repository interface {
	InTx(fn func(Repository) error) error
	Create(entry *TimeEntry, session *cashdrawer.Session) error
	GetByID(id int64) (*TimeEntry, error)
	GetOpenByEmployee(employeeID int64, forUpdate bool) (*TimeEntry, error)
	GetByIdempotencyKey(key string) (*TimeEntry, error)
	GetSessionByEntry(entryID int64) (*cashdrawer.Session, error)
	Update(entry *TimeEntry) error
	UpdateWithSession(entry *TimeEntry, session *cashdrawer.Session) error
	ListByEmployee(employeeID int64, from, to time.Time, limit, offset int) ([]*TimeEntry, error)
}

type SettingsProvider interface {
	SettingsFor(companyID int64) (*company.Settings, error)
}

type EmployeeDirectory interface {
	GetByID(id int64) (*employee.Employee, error)
}

// KioskAuthenticator verifies an employee-number/PIN pair from a shared
// terminal and returns the matching active employee.
type KioskAuthenticator interface {
	AuthenticateKiosk(employeeNumber, pin string) (*employee.Employee, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Punch actions reported back to kiosk clients.
const (
	ActionClockIn  = "clock_in"
	ActionClockOut = "clock_out"
)

type Service struct {
	repo      Repository
	settings  SettingsProvider
	employees EmployeeDirectory
	kioskAuth KioskAuthenticator
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, settings SettingsProvider, employees EmployeeDirectory, kioskAuth KioskAuthenticator, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		settings:  settings,
		employees: employees,
		kioskAuth: kioskAuth,
		bus:       bus,
		logger:    logger,
	}
}

func (s *Service) policyFor(employeeID int64) (*employee.Employee, *company.Settings, error) {
	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		s.logger.Error("employee lookup failed", "error", err, "employee_id", employeeID)
		return nil, nil, errors.NewNotFoundError("employee not found", errors.ErrCodeValidationFailed)
	}
	if !emp.IsActive {
		return nil, nil, errors.ErrEmployeeInactive
	}
	settings, err := s.settings.SettingsFor(emp.CompanyID)
	if err != nil {
		s.logger.Error("settings lookup failed", "error", err, "company_id", emp.CompanyID)
		return nil, nil, errors.NewInternalError("failed to load company settings", err)
	}
	return emp, settings, nil
}

// ClockIn opens a time entry for the employee, at the supplied punch time or
// the server clock. At most one entry per employee may be OPEN: the check and
// the insert run in one transaction with the open-entry lookup locked, and a
// partial unique index backs the invariant in the database. The idempotency
// key is re-checked inside that transaction, so a concurrent retry replays
// the committed entry instead of tripping the unique index. When the drawer
// policy applies, the accompanying cash session is created in the same
// transaction so neither record exists without the other.
func (s *Service) ClockIn(employeeID int64, dto ClockInDTO) (*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, settings, err := s.policyFor(employeeID)
	if err != nil {
		return nil, err
	}

	drawerApplies := settings.CashDrawerEnabled && emp.HandlesCash
	if drawerApplies && dto.StartCashCents == nil {
		return nil, errors.NewValidationFieldError("start_cash_cents", "start cash count is required for cash-handling employees", errors.ErrCodeInvalidAmount)
	}

	source := dto.Source
	if source == "" {
		source = SourceWeb
	}

	now := time.Now()
	punchAt := now
	if dto.ClockInAt != nil {
		punchAt = *dto.ClockInAt
	}
	entry := &TimeEntry{
		EmployeeID: employeeID,
		ClockInAt:  punchAt,
		Status:     EntryStatusOpen,
		Source:     source,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if dto.IdempotencyKey != "" {
		key := dto.IdempotencyKey
		entry.IdempotencyKey = &key
	}

	var replayed *TimeEntry
	txErr := s.repo.InTx(func(tx Repository) error {
		if dto.IdempotencyKey != "" {
			existing, err := tx.GetByIdempotencyKey(dto.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				replayed = existing
				return nil
			}
		}

		open, err := tx.GetOpenByEmployee(employeeID, true)
		if err != nil {
			return err
		}
		if open != nil {
			return errors.ErrAlreadyClockedIn
		}

		var session *cashdrawer.Session
		if drawerApplies {
			session, err = cashdrawer.NewOpenSession(*dto.StartCashCents)
			if err != nil {
				return err
			}
		}
		return tx.Create(entry, session)
	})
	if txErr != nil {
		if appErr, ok := errors.IsAppError(txErr); ok {
			return nil, appErr
		}
		s.logger.Error("clock in transaction failed", "error", txErr, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to clock in", txErr)
	}
	if replayed != nil {
		s.logger.Info("clock in replayed via idempotency key",
			"entry_id", replayed.ID,
			"employee_id", employeeID)
		return replayed, nil
	}

	s.logger.Info("employee clocked in",
		"entry_id", entry.ID,
		"employee_id", employeeID,
		"source", source,
		"drawer_opened", drawerApplies)

	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewTimeEntryOpenedEvent(entry.ID, employeeID))
	}
	return entry, nil
}

// ClockOut closes the employee's open entry at the supplied punch time or the
// server clock, computes the rounded hours under the company policy and, when
// a cash session rides on the entry, closes it with the counted amounts in
// the same transaction.
func (s *Service) ClockOut(employeeID int64, dto ClockOutDTO) (*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	_, settings, err := s.policyFor(employeeID)
	if err != nil {
		return nil, err
	}

	var (
		entry         *TimeEntry
		closedSession *cashdrawer.Session
	)
	txErr := s.repo.InTx(func(tx Repository) error {
		open, err := tx.GetOpenByEmployee(employeeID, true)
		if err != nil {
			return err
		}
		if open == nil {
			return errors.ErrNoOpenEntry
		}

		now := time.Now()
		punchAt := now
		if dto.ClockOutAt != nil {
			punchAt = *dto.ClockOutAt
			if !punchAt.After(open.ClockInAt) {
				return errors.NewValidationFieldError("clock_out_at", "clock out must be after clock in", errors.ErrCodeInvalidTimeRange)
			}
		}
		open.ClockOutAt = &punchAt
		open.BreakMinutes = dto.BreakMinutes
		open.Status = EntryStatusClosed
		open.RoundedHours = decimal.NewNullDecimal(ComputeRoundedHours(
			open.ClockInAt, punchAt, dto.BreakMinutes,
			settings.RoundingPolicyMinutes, settings.BreaksPaid))
		open.UpdatedAt = now

		session, err := tx.GetSessionByEntry(open.ID)
		if err != nil {
			return err
		}
		if session != nil && session.Status == cashdrawer.SessionStatusOpen {
			if dto.EndCashCents == nil {
				return errors.NewValidationFieldError("end_cash_cents", "end cash count is required to close the drawer", errors.ErrCodeInvalidAmount)
			}
			if err := session.Close(
				*dto.EndCashCents,
				derefCents(dto.CollectedCashCents),
				derefCents(dto.BeveragesCashCents),
				derefCents(dto.DropCashCents),
				settings.CashDrawerVarianceThresholdCents,
			); err != nil {
				return err
			}
		} else {
			session = nil
		}

		if err := tx.UpdateWithSession(open, session); err != nil {
			return err
		}
		entry = open
		closedSession = session
		return nil
	})
	if txErr != nil {
		if appErr, ok := errors.IsAppError(txErr); ok {
			return nil, appErr
		}
		s.logger.Error("clock out transaction failed", "error", txErr, "employee_id", employeeID)
		return nil, errors.NewInternalError("failed to clock out", txErr)
	}

	s.logger.Info("employee clocked out",
		"entry_id", entry.ID,
		"employee_id", employeeID,
		"rounded_hours", entry.RoundedHours.Decimal.String())

	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewTimeEntryClosedEvent(entry.ID, employeeID, entry.RoundedHours.Decimal.String()))
		if closedSession != nil && closedSession.NeedsReview() {
			s.logger.Warn("cash drawer variance exceeds threshold",
				"session_id", closedSession.ID,
				"entry_id", entry.ID,
				"delta_cents", derefCents(closedSession.DeltaCents))
			s.bus.Publish(context.Background(), events.NewCashReviewNeededEvent(closedSession.ID, entry.ID, derefCents(closedSession.DeltaCents)))
		}
	}
	return entry, nil
}

// ManualEdit rewrites an entry's punch times retroactively. The reason is
// mandatory and stored on the entry; rounded hours are recomputed from the
// new timestamps under the current policy. Editing never touches the cash
// session, which has its own correction path.
func (s *Service) ManualEdit(entryID, actorID int64, dto ManualEditDTO) (*TimeEntry, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(entryID)
	if err != nil {
		return nil, errors.ErrEntryNotFound
	}

	_, settings, err := s.policyFor(entry.EmployeeID)
	if err != nil {
		return nil, err
	}

	if err := s.checkEntryOverlap(entry.EmployeeID, entryID, dto.ClockInAt, dto.ClockOutAt); err != nil {
		return nil, err
	}

	out := dto.ClockOutAt
	entry.ClockInAt = dto.ClockInAt
	entry.ClockOutAt = &out
	entry.BreakMinutes = dto.BreakMinutes
	entry.Status = EntryStatusClosed
	entry.RoundedHours = decimal.NewNullDecimal(ComputeRoundedHours(
		dto.ClockInAt, out, dto.BreakMinutes,
		settings.RoundingPolicyMinutes, settings.BreaksPaid))
	entry.EditReason = &dto.Reason
	entry.UpdatedAt = time.Now()

	if err := s.repo.Update(entry); err != nil {
		s.logger.Error("failed to save edited entry", "error", err, "entry_id", entryID)
		return nil, err
	}

	s.logger.Info("time entry edited",
		"entry_id", entryID,
		"actor_id", actorID,
		"rounded_hours", entry.RoundedHours.Decimal.String())

	if s.bus != nil {
		s.bus.Publish(context.Background(), events.NewTimeEntryEditedEvent(entryID, actorID, dto.Reason))
	}
	return entry, nil
}

// KioskPunch authenticates the PIN and toggles: an employee with an open
// entry is clocked out, anyone else is clocked in.
func (s *Service) KioskPunch(dto KioskPunchDTO) (*TimeEntry, string, error) {
	if err := dto.Validate(); err != nil {
		return nil, "", err
	}

	emp, err := s.kioskAuth.AuthenticateKiosk(dto.EmployeeNumber, dto.PIN)
	if err != nil {
		return nil, "", err
	}

	open, err := s.repo.GetOpenByEmployee(emp.ID, false)
	if err != nil {
		return nil, "", err
	}

	if open != nil {
		entry, err := s.ClockOut(emp.ID, dto.clockOut())
		return entry, ActionClockOut, err
	}
	entry, err := s.ClockIn(emp.ID, dto.clockIn())
	return entry, ActionClockIn, err
}

// checkEntryOverlap guards backdated edits: the rewritten interval must not
// land on top of another entry for the same employee. Same half-open
// comparison as shift conflict detection; an entry still open counts up to
// the present.
func (s *Service) checkEntryOverlap(employeeID, excludeEntryID int64, in, out time.Time) error {
	others, err := s.repo.ListByEmployee(employeeID, in.Add(-48*time.Hour), out.Add(48*time.Hour), 200, 0)
	if err != nil {
		return err
	}

	overlapping := make([]*TimeEntry, 0)
	for _, other := range others {
		if other.ID == excludeEntryID {
			continue
		}
		end := time.Now()
		if other.ClockOutAt != nil {
			end = *other.ClockOutAt
		}
		if other.ClockInAt.Before(out) && end.After(in) {
			overlapping = append(overlapping, other)
		}
	}
	if len(overlapping) > 0 {
		s.logger.Warn("manual edit rejected: overlapping time entries",
			"employee_id", employeeID,
			"conflict_count", len(overlapping))
		return errors.NewConflictError("edited times overlap existing time entries", errors.ErrCodeEntryConflict).
			WithDetails(overlapping)
	}
	return nil
}

func (s *Service) GetEntry(entryID int64) (*TimeEntry, error) {
	entry, err := s.repo.GetByID(entryID)
	if err != nil {
		return nil, errors.ErrEntryNotFound
	}
	return entry, nil
}

func (s *Service) ListEntries(employeeID int64, from, to time.Time, limit, offset int) ([]*TimeEntry, error) {
	return s.repo.ListByEmployee(employeeID, from, to, limit, offset)
}

func derefCents(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
