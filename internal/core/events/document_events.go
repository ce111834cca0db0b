package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventDocumentForwarded = "document.forwarded"
	EventDocumentFinalized = "document.finalized"
	EventMovementConfirmed = "movement.confirmed"
)

type DocumentForwardedData struct {
	DocumentID              int64  `json:"document_id"`
	MovementID              int64  `json:"movement_id"`
	ProtocolNumber          string `json:"protocol_number"`
	Subject                 string `json:"subject"`
	ActorID                 int64  `json:"actor_id"`
	DestinationDepartmentID *int64 `json:"destination_department_id,omitempty"`
	DestinationSectionID    *int64 `json:"destination_section_id,omitempty"`
}

func NewDocumentForwardedEvent(data DocumentForwardedData) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventDocumentForwarded,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id":               data.DocumentID,
			"movement_id":               data.MovementID,
			"protocol_number":           data.ProtocolNumber,
			"subject":                   data.Subject,
			"actor_id":                  data.ActorID,
			"destination_department_id": data.DestinationDepartmentID,
			"destination_section_id":    data.DestinationSectionID,
		},
	}
}

type DocumentFinalizedData struct {
	DocumentID     int64  `json:"document_id"`
	MovementID     int64  `json:"movement_id"`
	ProtocolNumber string `json:"protocol_number"`
	Decision       string `json:"decision"`
	ActorID        int64  `json:"actor_id"`
}

func NewDocumentFinalizedEvent(data DocumentFinalizedData) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventDocumentFinalized,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id":     data.DocumentID,
			"movement_id":     data.MovementID,
			"protocol_number": data.ProtocolNumber,
			"decision":        data.Decision,
			"actor_id":        data.ActorID,
		},
	}
}

type MovementConfirmedData struct {
	DocumentID int64 `json:"document_id"`
	MovementID int64 `json:"movement_id"`
	ActorID    int64 `json:"actor_id"`
}

func NewMovementConfirmedEvent(data MovementConfirmedData) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventMovementConfirmed,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"document_id": data.DocumentID,
			"movement_id": data.MovementID,
			"actor_id":    data.ActorID,
		},
	}
}
