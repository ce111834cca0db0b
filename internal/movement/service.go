package movement

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/auth"
	"github.com/frahmantamala/records-management/internal/core/events"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/organization"
)

// Repository persists the ledger. The closure-taking methods run their
// callback inside a transaction holding a row lock on the document (or
// movement), so every business decision made in the callback sees a stable
// snapshot and commits atomically with the new entry.
type Repository interface {
	GetByID(id int64) (*Movement, error)
	ListForDocument(documentID int64) ([]*Movement, error)

	PendingForDepartment(departmentID int64) ([]*Movement, error)
	PendingForSection(sectionID int64) ([]*Movement, error)

	// CreateWithDocument inserts the document, assigns its protocol number
	// and persists the creation entry built by the callback, all in one
	// transaction.
	CreateWithDocument(doc *document.Document, build func(doc *document.Document, seq int64) *Movement) error

	// AppendForDocument locks the document row, hands the current state and
	// the next sequence number to the callback, then inserts the returned
	// entry and saves the (possibly mutated) document.
	AppendForDocument(documentID int64, decide func(doc *document.Document, seq int64) (*Movement, error)) (*Movement, error)

	// Confirm locks the movement row and hands it to the callback; the row
	// is saved only when the callback reports a change.
	Confirm(movementID int64, decide func(mv *Movement) (bool, error)) (*Movement, error)
}

// DestinationValidator is satisfied by routing.Validator.
type DestinationValidator interface {
	ValidateDestination(actor *auth.Actor, departmentID, sectionID *int64) error
}

// SectionDirectory resolves a destination section to its parent department.
type SectionDirectory interface {
	GetSection(id int64) (*organization.Section, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	docs      document.Repository
	sections  SectionDirectory
	validator DestinationValidator
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, docs document.Repository, sections SectionDirectory,
	validator DestinationValidator, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		docs:      docs,
		sections:  sections,
		validator: validator,
		bus:       bus,
		logger:    logger,
	}
}

// CreateDocument registers a protocol at the actor's own unit and opens its
// ledger with the creation entry.
func (s *Service) CreateDocument(actor *auth.Actor, dto *document.CreateDocumentDTO) (*document.Document, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	dept := actor.EffectiveDepartment()
	if dept == nil || actor.AdministrationID == nil {
		return nil, internal.ErrUnauthorizedAction
	}

	// The users table does not tie section_id to department_id, so a stale
	// assignment can pair a section with a foreign department. Refuse to
	// open a ledger from an inconsistent position.
	if actor.SectionID != nil {
		section, err := s.sections.GetSection(*actor.SectionID)
		if err != nil {
			return nil, internal.ErrSectionNotFound
		}
		if section.DepartmentID != dept.ID {
			return nil, internal.ErrSectionDepartmentMismatch
		}
	}

	docType, err := s.docs.GetDocumentType(dto.DocumentTypeID)
	if err != nil {
		return nil, internal.NewValidationError("unknown document type", internal.ErrCodeValidationFailed)
	}
	if !docType.Active {
		return nil, internal.NewValidationError("document type is no longer accepted", internal.ErrCodeValidationFailed)
	}

	doc := &document.Document{
		Title:           dto.Title,
		Content:         dto.Content,
		DocumentTypeID:  docType.ID,
		Status:          document.StatusCreated,
		Priority:        dto.Priority,
		Confidentiality: dto.Confidentiality,

		SenderName:   dto.SenderName,
		SenderPhone:  dto.SenderPhone,
		SenderEmail:  dto.SenderEmail,
		SenderOrigin: dto.SenderOrigin,

		OriginDepartmentID:  dept.ID,
		CurrentDepartmentID: dept.ID,
		CurrentSectionID:    actor.SectionID,
		AdministrationID:    *actor.AdministrationID,
		CreatedByID:         actor.ID,
		Notes:               dto.Notes,
	}
	if docType.DeadlineDays > 0 {
		due := time.Now().AddDate(0, 0, docType.DeadlineDays)
		doc.DueAt = &due
	}

	err = s.repo.CreateWithDocument(doc, func(doc *document.Document, seq int64) *Movement {
		return &Movement{
			DocumentID:         doc.ID,
			Seq:                seq,
			Kind:               KindCreation,
			OriginDepartmentID: &dept.ID,
			OriginSectionID:    actor.SectionID,
			ActorID:            actor.ID,
			Confirmed:          true,
		}
	})
	if err != nil {
		s.logger.Error("document registration failed", "actor_id", actor.ID, "error", err)
		return nil, err
	}

	s.logger.Info("document registered",
		"document_id", doc.ID,
		"protocol_number", doc.ProtocolNumber,
		"actor_id", actor.ID)
	return doc, nil
}

// Forward routes a document to a permitted destination. The destination is
// validated against the actor's resolved set before the ledger is touched;
// the terminal-state and visibility checks run under the document row lock.
func (s *Service) Forward(actor *auth.Actor, documentID int64, dto *ForwardDTO) (*Movement, error) {
	if err := s.validator.ValidateDestination(actor, dto.DestinationDepartmentID, dto.DestinationSectionID); err != nil {
		return nil, err
	}

	destDeptID := dto.DestinationDepartmentID
	destSectionID := dto.DestinationSectionID
	var newDeptID int64
	if destSectionID != nil {
		section, err := s.sections.GetSection(*destSectionID)
		if err != nil {
			return nil, internal.ErrSectionNotFound
		}
		newDeptID = section.DepartmentID
	} else {
		newDeptID = *destDeptID
	}

	mv, err := s.repo.AppendForDocument(documentID, func(doc *document.Document, seq int64) (*Movement, error) {
		if !document.CanView(actor, doc) {
			return nil, internal.ErrUnauthorizedAccess
		}
		if doc.IsTerminal() {
			return nil, internal.ErrTerminalState
		}

		entry := &Movement{
			DocumentID:              doc.ID,
			Seq:                     seq,
			Kind:                    KindForwarding,
			OriginDepartmentID:      &doc.CurrentDepartmentID,
			OriginSectionID:         doc.CurrentSectionID,
			DestinationDepartmentID: destDeptID,
			DestinationSectionID:    destSectionID,
			ActorID:                 actor.ID,
			Note:                    dto.Note,
		}

		doc.CurrentDepartmentID = newDeptID
		doc.CurrentSectionID = destSectionID
		doc.Status = document.StatusForwarded
		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	doc, derr := s.docs.GetByID(documentID)
	if derr == nil {
		_ = s.bus.Publish(context.Background(), events.NewDocumentForwardedEvent(events.DocumentForwardedData{
			DocumentID:              doc.ID,
			MovementID:              mv.ID,
			ProtocolNumber:          doc.ProtocolNumber,
			Subject:                 doc.Title,
			ActorID:                 actor.ID,
			DestinationDepartmentID: destDeptID,
			DestinationSectionID:    destSectionID,
		}))
	}

	s.logger.Info("document forwarded",
		"document_id", documentID,
		"movement_id", mv.ID,
		"seq", mv.Seq,
		"actor_id", actor.ID)
	return mv, nil
}

// Despatch records an instruction on the ledger without moving the document.
// Only elevated actors may despatch.
func (s *Service) Despatch(actor *auth.Actor, documentID int64, dto *DespatchDTO) (*Movement, error) {
	if !actor.IsElevated() {
		return nil, internal.ErrUnauthorizedAction
	}
	if dto.Text == "" {
		return nil, internal.NewValidationError("despatch text is required", internal.ErrCodeValidationFailed)
	}

	mv, err := s.repo.AppendForDocument(documentID, func(doc *document.Document, seq int64) (*Movement, error) {
		if !document.CanView(actor, doc) {
			return nil, internal.ErrUnauthorizedAccess
		}
		if doc.IsTerminal() {
			return nil, internal.ErrTerminalState
		}

		return &Movement{
			DocumentID:         doc.ID,
			Seq:                seq,
			Kind:               KindDespatch,
			OriginDepartmentID: &doc.CurrentDepartmentID,
			OriginSectionID:    doc.CurrentSectionID,
			ActorID:            actor.ID,
			Despatch:           dto.Text,
			Confirmed:          true,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("despatch recorded",
		"document_id", documentID,
		"movement_id", mv.ID,
		"actor_id", actor.ID)
	return mv, nil
}

// Finalize closes the ledger with a terminal decision. The document keeps
// its last location; only the status and conclusion timestamp change.
func (s *Service) Finalize(actor *auth.Actor, documentID int64, dto *FinalizeDTO) (*Movement, error) {
	if !actor.IsElevated() {
		return nil, internal.ErrUnauthorizedAction
	}
	kind, err := KindForDecision(dto.Decision)
	if err != nil {
		return nil, err
	}

	mv, err := s.repo.AppendForDocument(documentID, func(doc *document.Document, seq int64) (*Movement, error) {
		if !document.CanView(actor, doc) {
			return nil, internal.ErrUnauthorizedAccess
		}
		if doc.IsTerminal() {
			return nil, internal.ErrTerminalState
		}

		entry := &Movement{
			DocumentID:         doc.ID,
			Seq:                seq,
			Kind:               kind,
			OriginDepartmentID: &doc.CurrentDepartmentID,
			OriginSectionID:    doc.CurrentSectionID,
			ActorID:            actor.ID,
			Despatch:           dto.Despatch,
			Confirmed:          true,
		}

		now := time.Now()
		doc.Status = dto.Decision
		doc.ConcludedAt = &now
		return entry, nil
	})
	if err != nil {
		return nil, err
	}

	doc, derr := s.docs.GetByID(documentID)
	if derr == nil {
		_ = s.bus.Publish(context.Background(), events.NewDocumentFinalizedEvent(events.DocumentFinalizedData{
			DocumentID:     doc.ID,
			MovementID:     mv.ID,
			ProtocolNumber: doc.ProtocolNumber,
			Decision:       dto.Decision,
			ActorID:        actor.ID,
		}))
	}

	s.logger.Info("document finalized",
		"document_id", documentID,
		"decision", dto.Decision,
		"actor_id", actor.ID)
	return mv, nil
}

// ConfirmReceipt marks a forwarding entry as received at its destination.
// Confirming an already confirmed entry is a no-op.
func (s *Service) ConfirmReceipt(actor *auth.Actor, movementID int64) (*Movement, error) {
	var changed bool
	mv, err := s.repo.Confirm(movementID, func(mv *Movement) (bool, error) {
		if !mv.IsForwarding() {
			return false, internal.NewValidationError(
				"only forwarding entries require receipt confirmation", internal.ErrCodeInvalidMovementKind)
		}
		if !s.canConfirm(actor, mv) {
			return false, internal.ErrUnauthorizedAction
		}
		if mv.Confirmed {
			return false, nil
		}

		now := time.Now()
		mv.Confirmed = true
		mv.ConfirmedByID = &actor.ID
		mv.ConfirmedAt = &now
		changed = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		_ = s.bus.Publish(context.Background(), events.NewMovementConfirmedEvent(events.MovementConfirmedData{
			DocumentID: mv.DocumentID,
			MovementID: mv.ID,
			ActorID:    actor.ID,
		}))
	}

	return mv, nil
}

// canConfirm allows members of the destination unit and elevated actors.
func (s *Service) canConfirm(actor *auth.Actor, mv *Movement) bool {
	if actor.IsElevated() {
		return true
	}
	if mv.DestinationSectionID != nil {
		return actor.SectionID != nil && *actor.SectionID == *mv.DestinationSectionID
	}
	if mv.DestinationDepartmentID != nil {
		dept := actor.EffectiveDepartment()
		return dept != nil && dept.ID == *mv.DestinationDepartmentID
	}
	return false
}

// PendingFor lists the unconfirmed forwarding entries addressed to the
// actor's unit that are still the latest movement of their document.
func (s *Service) PendingFor(actor *auth.Actor) ([]*Movement, error) {
	if actor.InSection() {
		return s.repo.PendingForSection(*actor.SectionID)
	}
	dept := actor.EffectiveDepartment()
	if dept == nil {
		return []*Movement{}, nil
	}
	return s.repo.PendingForDepartment(dept.ID)
}

// History returns the full ledger of a document the actor is allowed to see.
func (s *Service) History(actor *auth.Actor, documentID int64) ([]*Movement, error) {
	doc, err := s.docs.GetByID(documentID)
	if err != nil {
		return nil, internal.ErrDocumentNotFound
	}
	if !document.CanView(actor, doc) {
		return nil, internal.ErrUnauthorizedAccess
	}
	return s.repo.ListForDocument(documentID)
}

// GetMovement looks up a single ledger entry, subject to document visibility.
func (s *Service) GetMovement(actor *auth.Actor, movementID int64) (*Movement, error) {
	mv, err := s.repo.GetByID(movementID)
	if err != nil {
		return nil, internal.ErrMovementNotFound
	}
	doc, err := s.docs.GetByID(mv.DocumentID)
	if err != nil {
		return nil, internal.ErrDocumentNotFound
	}
	if !document.CanView(actor, doc) {
		return nil, internal.ErrUnauthorizedAccess
	}
	return mv, nil
}
