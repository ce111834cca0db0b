package document

import (
	"time"
)

const (
	StatusCreated    = "created"
	StatusForwarded  = "forwarded"
	StatusDespatched = "despatched"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusArchived   = "archived"
)

const (
	PriorityNormal     = "normal"
	PriorityUrgent     = "urgent"
	PriorityVeryUrgent = "very_urgent"
)

const (
	ConfidentialityPublic       = "public"
	ConfidentialityRestricted   = "restricted"
	ConfidentialityConfidential = "confidential"
)

// Sender origins, from the registration form.
const (
	OriginIndividual         = "individual"
	OriginStateInstitution   = "state_institution"
	OriginPublicInstitution  = "public_institution"
	OriginPrivateInstitution = "private_institution"
	OriginCivilOrganization  = "civil_organization"
)

// DocumentType drives the processing deadline of a registered document.
type DocumentType struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex"`
	Description  string    `json:"description,omitempty" gorm:"column:description"`
	DeadlineDays int       `json:"deadline_days" gorm:"column:deadline_days;default:30"`
	Active       bool      `json:"active" gorm:"column:active;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (DocumentType) TableName() string {
	return "document_types"
}

// Document is a registered protocol. Its AdministrationID never changes
// after creation; its status and current location change only together with
// a ledger entry.
type Document struct {
	ID             int64  `json:"id" gorm:"primaryKey"`
	ProtocolNumber string `json:"protocol_number" gorm:"column:protocol_number;uniqueIndex"`
	Title          string `json:"title" gorm:"not null"`
	Content        string `json:"content" gorm:"column:content"`
	DocumentTypeID int64  `json:"document_type_id" gorm:"column:document_type_id;not null"`

	Status          string `json:"status" gorm:"column:status;default:created"`
	Priority        string `json:"priority" gorm:"column:priority;default:normal"`
	Confidentiality string `json:"confidentiality" gorm:"column:confidentiality;default:public"`

	SenderName   string `json:"sender_name" gorm:"column:sender_name"`
	SenderPhone  string `json:"sender_phone" gorm:"column:sender_phone"`
	SenderEmail  string `json:"sender_email,omitempty" gorm:"column:sender_email"`
	SenderOrigin string `json:"sender_origin" gorm:"column:sender_origin;default:individual"`

	OriginDepartmentID  int64  `json:"origin_department_id" gorm:"column:origin_department_id;not null"`
	CurrentDepartmentID int64  `json:"current_department_id" gorm:"column:current_department_id;not null"`
	CurrentSectionID    *int64 `json:"current_section_id,omitempty" gorm:"column:current_section_id"`
	AdministrationID    int64  `json:"administration_id" gorm:"column:administration_id;not null"`
	CreatedByID         int64  `json:"created_by_id" gorm:"column:created_by_id;not null"`

	Notes string `json:"notes,omitempty" gorm:"column:notes"`

	DueAt       *time.Time `json:"due_at,omitempty" gorm:"column:due_at"`
	ConcludedAt *time.Time `json:"concluded_at,omitempty" gorm:"column:concluded_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Document) TableName() string {
	return "documents"
}

// IsTerminal reports whether the document reached a final decision. Terminal
// documents accept no further forwarding or finalization.
func (d *Document) IsTerminal() bool {
	switch d.Status {
	case StatusApproved, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// Overdue reports whether the processing deadline passed without a final
// decision.
func (d *Document) Overdue() bool {
	if d.DueAt == nil || d.IsTerminal() {
		return false
	}
	return time.Now().After(*d.DueAt)
}
