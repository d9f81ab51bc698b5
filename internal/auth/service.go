package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/timeclock/internal"
	"github.com/frahmantamala/timeclock/internal/employee"
)

type EmployeeDirectory interface {
	GetByNumber(employeeNumber string) (*employee.Employee, error)
}

type Service struct {
	employees EmployeeDirectory
	tokens    *TokenManager
	logger    *slog.Logger
}

func NewService(employees EmployeeDirectory, tokens *TokenManager, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthenticateKiosk verifies an employee-number/PIN pair. Lookup and compare
// failures collapse into the same error so the kiosk cannot be used to probe
// which employee numbers exist.
func (s *Service) AuthenticateKiosk(employeeNumber, pin string) (*employee.Employee, error) {
	emp, err := s.employees.GetByNumber(employeeNumber)
	if err != nil {
		s.logger.Warn("kiosk auth failed: unknown employee number")
		return nil, errors.ErrInvalidCredentials
	}

	if emp.PINHash == "" || bcrypt.CompareHashAndPassword([]byte(emp.PINHash), []byte(pin)) != nil {
		s.logger.Warn("kiosk auth failed: PIN mismatch", "employee_id", emp.ID)
		return nil, errors.ErrInvalidCredentials
	}

	if !emp.IsActive {
		return nil, errors.ErrEmployeeInactive
	}
	return emp, nil
}

// Login authenticates like the kiosk and issues an access token for the web
// and admin surfaces.
func (s *Service) Login(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.AuthenticateKiosk(dto.EmployeeNumber, dto.PIN)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(emp.ID, emp.IsAdmin)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "employee_id", emp.ID)
		return nil, errors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("employee logged in", "employee_id", emp.ID, "is_admin", emp.IsAdmin)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Employee:    emp,
	}, nil
}

// VerifyToken resolves a bearer token to the acting employee.
func (s *Service) VerifyToken(token string) (*Actor, error) {
	return s.tokens.Parse(token)
}

// HashPIN derives the stored PIN hash. Used by the seeder and employee
// provisioning.
func HashPIN(pin string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
