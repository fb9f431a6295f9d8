package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePermissionAdded   = "permission.added"
	EventTypePermissionDeleted = "permission.deleted"
)

// PermissionChangedEvent records one successful write to a permission table.
type PermissionChangedEvent struct {
	BaseEvent
	Table string `json:"table"`
	RowID int64  `json:"row_id,omitempty"`
}

func NewPermissionAdded(table string, values map[string]interface{}) *PermissionChangedEvent {
	data := map[string]interface{}{"table": table}
	for k, v := range values {
		data[k] = v
	}
	return &PermissionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePermissionAdded,
			Timestamp: time.Now(),
			Data:      data,
		},
		Table: table,
	}
}

func NewPermissionDeleted(table string, rowID int64) *PermissionChangedEvent {
	return &PermissionChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePermissionDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"table":  table,
				"row_id": rowID,
			},
		},
		Table: table,
		RowID: rowID,
	}
}

// AuditHandler writes every permission change to the operational log.
func AuditHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.Info("permission changed",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	}
}

// SubscribeAudit registers the audit handler for all permission events.
func (eb *EventBus) SubscribeAudit(logger *slog.Logger) {
	eb.Subscribe(EventTypePermissionAdded, AuditHandler(logger))
	eb.Subscribe(EventTypePermissionDeleted, AuditHandler(logger))
}
