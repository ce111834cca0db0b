package notification

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/records-management/internal/core/events"
)

// RecipientDirectory resolves a destination unit to the users working there.
type RecipientDirectory interface {
	ActorIDsForDepartment(departmentID int64) ([]int64, error)
	ActorIDsForSection(sectionID int64) ([]int64, error)
}

// Dispatcher fans routing events out to the members of the receiving unit.
// Delivery is best effort; a failed notification never unwinds the movement
// that triggered it.
type Dispatcher struct {
	recipients RecipientDirectory
	logger     *slog.Logger
}

func NewDispatcher(recipients RecipientDirectory, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		recipients: recipients,
		logger:     logger,
	}
}

// Register subscribes the dispatcher to the routing events it handles.
func (d *Dispatcher) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventDocumentForwarded, d.HandleDocumentForwarded)
	bus.Subscribe(events.EventDocumentFinalized, d.HandleDocumentFinalized)
	bus.Subscribe(events.EventMovementConfirmed, d.HandleMovementConfirmed)
}

func (d *Dispatcher) HandleDocumentForwarded(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		d.logger.Warn("unexpected event payload", "event_type", event.EventType())
		return nil
	}

	recipients, err := d.resolveRecipients(data)
	if err != nil {
		d.logger.Error("recipient lookup failed",
			"event_id", event.EventID(), "error", err)
		return nil
	}

	for _, userID := range recipients {
		d.logger.Info("notification sent",
			"user_id", userID,
			"event_type", event.EventType(),
			"document_id", data["document_id"],
			"protocol_number", data["protocol_number"])
	}
	return nil
}

func (d *Dispatcher) HandleDocumentFinalized(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		d.logger.Warn("unexpected event payload", "event_type", event.EventType())
		return nil
	}

	d.logger.Info("document concluded",
		"document_id", data["document_id"],
		"protocol_number", data["protocol_number"],
		"decision", data["decision"])
	return nil
}

func (d *Dispatcher) HandleMovementConfirmed(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		d.logger.Warn("unexpected event payload", "event_type", event.EventType())
		return nil
	}

	d.logger.Info("receipt confirmed",
		"document_id", data["document_id"],
		"movement_id", data["movement_id"],
		"actor_id", data["actor_id"])
	return nil
}

// resolveRecipients prefers the section when the forwarding targeted one,
// otherwise notifies the whole destination department.
func (d *Dispatcher) resolveRecipients(data map[string]interface{}) ([]int64, error) {
	if sectionID := idFromPayload(data["destination_section_id"]); sectionID != nil {
		return d.recipients.ActorIDsForSection(*sectionID)
	}
	if deptID := idFromPayload(data["destination_department_id"]); deptID != nil {
		return d.recipients.ActorIDsForDepartment(*deptID)
	}
	return nil, nil
}

func idFromPayload(v interface{}) *int64 {
	switch id := v.(type) {
	case *int64:
		return id
	case int64:
		return &id
	case float64:
		n := int64(id)
		return &n
	}
	return nil
}
