package document

import (
	"log/slog"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
)

// Repository defines the data access methods for documents and document types.
type Repository interface {
	GetByID(id int64) (*Document, error)
	All(limit, offset int) ([]*Document, error)
	ForAdministration(administrationID int64, limit, offset int) ([]*Document, error)
	ForDepartment(administrationID, departmentID int64, limit, offset int) ([]*Document, error)
	ForSection(administrationID, departmentID, sectionID int64, limit, offset int) ([]*Document, error)

	GetDocumentType(id int64) (*DocumentType, error)
	ListDocumentTypes() ([]*DocumentType, error)
	CreateDocumentType(dt *DocumentType) error
}

// Service handles document reads with hierarchy-based visibility. Writes go
// through the movement ledger, which owns the status/location invariants.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CanView applies the visibility rule: elevated roles see everything in
// their administration, section actors see documents sitting at their
// section (or at their department with no section), department actors see
// documents at their department. Tenant isolation always applies first.
func CanView(actor *auth.Actor, doc *Document) bool {
	if actor.IsSuperuser() && actor.Administration == nil {
		return true
	}
	if actor.Administration == nil || doc.AdministrationID != actor.Administration.ID {
		return false
	}
	if actor.IsElevated() {
		return true
	}

	if actor.InSection() {
		if doc.CurrentSectionID != nil && *doc.CurrentSectionID == actor.Section.ID {
			return true
		}
		dept := actor.EffectiveDepartment()
		return dept != nil && doc.CurrentSectionID == nil && doc.CurrentDepartmentID == dept.ID
	}

	dept := actor.EffectiveDepartment()
	return dept != nil && doc.CurrentDepartmentID == dept.ID
}

func (s *Service) GetDocument(actor *auth.Actor, id int64) (*Document, error) {
	doc, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrDocumentNotFound
	}

	if !CanView(actor, doc) {
		s.logger.Warn("document access denied", "document_id", id, "actor_id", actor.ID)
		return nil, internal.ErrUnauthorizedAccess
	}

	return doc, nil
}

// ListForActor returns the documents currently visible from the actor's
// position in the hierarchy.
func (s *Service) ListForActor(actor *auth.Actor, limit, offset int) ([]*Document, error) {
	if actor.IsSuperuser() && actor.Administration == nil {
		return s.repo.All(limit, offset)
	}
	if actor.Administration == nil {
		return []*Document{}, nil
	}

	adminID := actor.Administration.ID

	if actor.IsElevated() {
		return s.repo.ForAdministration(adminID, limit, offset)
	}

	dept := actor.EffectiveDepartment()
	if dept == nil {
		return []*Document{}, nil
	}

	if actor.InSection() {
		return s.repo.ForSection(adminID, dept.ID, actor.Section.ID, limit, offset)
	}
	return s.repo.ForDepartment(adminID, dept.ID, limit, offset)
}

func (s *Service) GetDocumentType(id int64) (*DocumentType, error) {
	return s.repo.GetDocumentType(id)
}

func (s *Service) ListDocumentTypes() ([]*DocumentType, error) {
	return s.repo.ListDocumentTypes()
}

func (s *Service) CreateDocumentType(actor *auth.Actor, dt *DocumentType) error {
	if !actor.IsElevated() {
		return internal.ErrUnauthorizedAction
	}
	if dt.DeadlineDays <= 0 {
		dt.DeadlineDays = 30
	}
	dt.Active = true

	if err := s.repo.CreateDocumentType(dt); err != nil {
		s.logger.Error("failed to create document type", "error", err, "name", dt.Name)
		return err
	}
	return nil
}
