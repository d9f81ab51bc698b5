package company

import "log/slog"

// Repository defines read access to company settings. Settings CRUD lives in
// the company administration surface, outside this core; here they are only
// consumed.
type Repository interface {
	GetByCompanyID(companyID int64) (*Settings, error)
	ListCompanyIDs() ([]int64, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) SettingsFor(companyID int64) (*Settings, error) {
	settings, err := s.repo.GetByCompanyID(companyID)
	if err != nil {
		s.logger.Error("failed to load company settings", "error", err, "company_id", companyID)
		return nil, err
	}
	return settings, nil
}

// AllCompanyIDs lists every company with settings on record. The payroll
// worker iterates this to compute draft runs.
func (s *Service) AllCompanyIDs() ([]int64, error) {
	ids, err := s.repo.ListCompanyIDs()
	if err != nil {
		s.logger.Error("failed to list companies", "error", err)
		return nil, err
	}
	return ids, nil
}
