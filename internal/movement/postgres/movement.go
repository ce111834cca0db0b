package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/document"
	"github.com/frahmantamala/records-management/internal/movement"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id int64) (*movement.Movement, error) {
	var mv movement.Movement
	if err := r.db.First(&mv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMovementNotFound
		}
		return nil, err
	}
	return &mv, nil
}

func (r *Repository) ListForDocument(documentID int64) ([]*movement.Movement, error) {
	var entries []*movement.Movement
	err := r.db.
		Where("document_id = ?", documentID).
		Order("seq ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// pendingBaseQuery selects unconfirmed forwardings that are still the latest
// entry of their document. A later entry of any kind supersedes the receipt.
func (r *Repository) pendingBaseQuery() *gorm.DB {
	return r.db.
		Where("kind = ?", movement.KindForwarding).
		Where("confirmed = ?", false).
		Where(`NOT EXISTS (
			SELECT 1 FROM movements later
			WHERE later.document_id = movements.document_id
			  AND later.seq > movements.seq)`).
		Order("created_at ASC")
}

func (r *Repository) PendingForDepartment(departmentID int64) ([]*movement.Movement, error) {
	var entries []*movement.Movement
	err := r.pendingBaseQuery().
		Where("destination_department_id = ?", departmentID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *Repository) PendingForSection(sectionID int64) ([]*movement.Movement, error) {
	var entries []*movement.Movement
	err := r.pendingBaseQuery().
		Where("destination_section_id = ?", sectionID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateWithDocument inserts the document, derives its protocol number from
// the assigned id and registration year, and writes the opening ledger entry.
func (r *Repository) CreateWithDocument(doc *document.Document, build func(doc *document.Document, seq int64) *movement.Movement) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return err
		}

		doc.ProtocolNumber = fmt.Sprintf("%d/%d", doc.ID, time.Now().Year())
		if err := tx.Model(doc).Update("protocol_number", doc.ProtocolNumber).Error; err != nil {
			return err
		}

		entry := build(doc, 1)
		return tx.Create(entry).Error
	})
}

// AppendForDocument locks the document row for the whole decision, assigns
// the next sequence number and commits the new entry together with any
// document changes the callback made.
func (r *Repository) AppendForDocument(documentID int64, decide func(doc *document.Document, seq int64) (*movement.Movement, error)) (*movement.Movement, error) {
	var entry *movement.Movement
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var doc document.Document
		err := lockForUpdate(tx).First(&doc, documentID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrDocumentNotFound
			}
			return err
		}

		var maxSeq int64
		err = tx.Model(&movement.Movement{}).
			Where("document_id = ?", documentID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error
		if err != nil {
			return err
		}

		entry, err = decide(&doc, maxSeq+1)
		if err != nil {
			return err
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Save(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Confirm locks the movement row; the row is written back only when the
// callback reports a change, so repeated confirmations stay idempotent.
func (r *Repository) Confirm(movementID int64, decide func(mv *movement.Movement) (bool, error)) (*movement.Movement, error) {
	var mv movement.Movement
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&mv, movementID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return internal.ErrMovementNotFound
			}
			return err
		}

		changed, err := decide(&mv)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return tx.Save(&mv).Error
	})
	if err != nil {
		return nil, err
	}
	return &mv, nil
}

// lockForUpdate takes a row lock where the dialect supports one. sqlite
// serializes writers on its own and rejects the FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

var _ movement.Repository = (*Repository)(nil)

