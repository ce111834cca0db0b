package postgres

import (
	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements document.Repository using GORM.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var doc document.Document
	err := r.db.Where("id = ?", id).First(&doc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) All(limit, offset int) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) ForAdministration(administrationID int64, limit, offset int) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.
		Where("administration_id = ?", administrationID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) ForDepartment(administrationID, departmentID int64, limit, offset int) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.
		Where("administration_id = ? AND current_department_id = ?", administrationID, departmentID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

// ForSection also surfaces documents parked at the department level with no
// section, matching the visibility rule for section members.
func (r *DocumentRepository) ForSection(administrationID, departmentID, sectionID int64, limit, offset int) ([]*document.Document, error) {
	var docs []*document.Document
	err := r.db.
		Where("administration_id = ?", administrationID).
		Where("current_section_id = ? OR (current_department_id = ? AND current_section_id IS NULL)", sectionID, departmentID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) GetDocumentType(id int64) (*document.DocumentType, error) {
	var dt document.DocumentType
	if err := r.db.Where("id = ?", id).First(&dt).Error; err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *DocumentRepository) ListDocumentTypes() ([]*document.DocumentType, error) {
	var types []*document.DocumentType
	err := r.db.Where("active = ?", true).Order("name").Find(&types).Error
	return types, err
}

func (r *DocumentRepository) CreateDocumentType(dt *document.DocumentType) error {
	return r.db.Create(dt).Error
}
