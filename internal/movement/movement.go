package movement

import (
	"time"

	"github.com/frahmantamala/records-management/internal"
	"github.com/frahmantamala/records-management/internal/document"
)

const (
	KindCreation   = "creation"
	KindForwarding = "forwarding"
	KindDespatch   = "despatch"
	KindApproval   = "approval"
	KindRejection  = "rejection"
	KindArchival   = "archival"
)

// Movement is one ledger entry. Rows are insert-only; the only mutable
// fields are the receipt-confirmation triple, set at most once.
type Movement struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	DocumentID int64  `json:"document_id" gorm:"column:document_id;not null"`
	Seq        int64  `json:"seq" gorm:"column:seq;not null"`
	Kind       string `json:"kind" gorm:"column:kind;not null;default:forwarding"`

	OriginDepartmentID *int64 `json:"origin_department_id,omitempty" gorm:"column:origin_department_id"`
	OriginSectionID    *int64 `json:"origin_section_id,omitempty" gorm:"column:origin_section_id"`

	// Exactly one of the two destination fields is set on forwarding entries.
	DestinationDepartmentID *int64 `json:"destination_department_id,omitempty" gorm:"column:destination_department_id"`
	DestinationSectionID    *int64 `json:"destination_section_id,omitempty" gorm:"column:destination_section_id"`

	ActorID  int64  `json:"actor_id" gorm:"column:actor_id;not null"`
	Note     string `json:"note,omitempty" gorm:"column:note"`
	Despatch string `json:"despatch,omitempty" gorm:"column:despatch"`

	Confirmed     bool       `json:"confirmed" gorm:"column:confirmed;default:false"`
	ConfirmedByID *int64     `json:"confirmed_by_id,omitempty" gorm:"column:confirmed_by_id"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty" gorm:"column:confirmed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Movement) TableName() string {
	return "movements"
}

func (m *Movement) IsForwarding() bool {
	return m.Kind == KindForwarding
}

// Terminal decisions accepted by Finalize, keyed by the resulting document
// status.
var terminalKinds = map[string]string{
	document.StatusApproved: KindApproval,
	document.StatusRejected: KindRejection,
	document.StatusArchived: KindArchival,
}

// KindForDecision maps a finalization decision to its movement kind.
func KindForDecision(decision string) (string, error) {
	kind, ok := terminalKinds[decision]
	if !ok {
		return "", internal.NewValidationError(
			"decision must be one of approved, rejected, archived", internal.ErrCodeInvalidFinalDecision)
	}
	return kind, nil
}
