package organization

import (
	"log/slog"

	"github.com/frahmantamala/records-management/internal"
)

// Repository defines the data access methods for reference organization data.
type Repository interface {
	GetAdministration(id int64) (*Administration, error)
	ListAdministrations() ([]*Administration, error)
	GetDepartment(id int64) (*Department, error)
	GetSection(id int64) (*Section, error)

	// UnitsVisibleTo returns the departments an administration may use:
	// departments bound to it plus generic templates of the matching kind.
	UnitsVisibleTo(administrationID int64, kind string) ([]*Department, error)

	// DepartmentsOwnedBy returns only the departments bound to the administration.
	DepartmentsOwnedBy(administrationID int64) ([]*Department, error)

	SectionsForDepartment(departmentID int64) ([]*Section, error)

	// Corridor lookups used by the destination resolver.
	GovernmentGeneralSecretariats() ([]*Department, error)
	MinistryGeneralSecretariats() ([]*Department, error)
	MunicipalGeneralSecretariatsInProvince(province string) ([]*Department, error)
	GovernmentGeneralSecretariatsInProvince(province string) ([]*Department, error)

	AllDepartments() ([]*Department, error)
	AllSections() ([]*Section, error)

	CreateAdministration(admin *Administration) error
	CreateDepartment(dept *Department) error
	CreateSection(section *Section) error
}

// Service exposes reference-data operations for the administration setup
// screens and for the other domain services.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetAdministration(id int64) (*Administration, error) {
	return s.repo.GetAdministration(id)
}

func (s *Service) ListAdministrations() ([]*Administration, error) {
	return s.repo.ListAdministrations()
}

func (s *Service) GetDepartment(id int64) (*Department, error) {
	dept, err := s.repo.GetDepartment(id)
	if err != nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return dept, nil
}

func (s *Service) GetSection(id int64) (*Section, error) {
	section, err := s.repo.GetSection(id)
	if err != nil {
		return nil, internal.ErrSectionNotFound
	}
	return section, nil
}

// UnitsVisibleTo implements the base tenant-scoping rule: an administration
// sees its own departments and the generic templates of its kind.
func (s *Service) UnitsVisibleTo(admin *Administration) ([]*Department, error) {
	return s.repo.UnitsVisibleTo(admin.ID, admin.Kind)
}

func (s *Service) SectionsForDepartment(departmentID int64) ([]*Section, error) {
	return s.repo.SectionsForDepartment(departmentID)
}

func (s *Service) CreateDepartment(dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dept := &Department{
		AdministrationID: dto.AdministrationID,
		Kind:             dto.Kind,
		Name:             dto.Name,
		Code:             dto.Code,
		Description:      dto.Description,
		Active:           true,
	}

	if err := s.repo.CreateDepartment(dept); err != nil {
		s.logger.Error("failed to create department", "error", err, "name", dto.Name)
		return nil, err
	}

	s.logger.Info("department created", "department_id", dept.ID, "name", dept.Name)
	return dept, nil
}

func (s *Service) CreateSection(dto CreateSectionDTO) (*Section, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetDepartment(dto.DepartmentID); err != nil {
		return nil, internal.ErrDepartmentNotFound
	}

	section := &Section{
		DepartmentID: dto.DepartmentID,
		Name:         dto.Name,
		Code:         dto.Code,
		Description:  dto.Description,
		Active:       true,
	}

	if err := s.repo.CreateSection(section); err != nil {
		s.logger.Error("failed to create section", "error", err, "name", dto.Name, "department_id", dto.DepartmentID)
		return nil, err
	}

	s.logger.Info("section created", "section_id", section.ID, "department_id", section.DepartmentID)
	return section, nil
}
