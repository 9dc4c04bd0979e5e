package shared

import (
	"context"

	"github.com/google/uuid"
)

// AuditEvent records who did what to which entity. Detail is free-form and
// marshaled by the sink.
type AuditEvent struct {
	LocationID uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	EntityID   uuid.UUID
	Detail     map[string]any
}

// AuditSink is fire-and-forget: implementations swallow their own failures so
// audit trouble never aborts a command.
type AuditSink interface {
	Record(ctx context.Context, e AuditEvent)
}
