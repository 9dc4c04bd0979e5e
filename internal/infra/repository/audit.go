package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"barberbook/internal/pkg/pgconv"
	"barberbook/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditSink writes events on the pool, outside command transactions, so an
// aborted command still leaves its trail and audit failures never abort a
// command.
type AuditSink struct {
	pool *pgxpool.Pool
}

func NewAuditSink(pool *pgxpool.Pool) *AuditSink {
	return &AuditSink{pool: pool}
}

const insertAuditEventSQL = `
INSERT INTO audit_events (id, location_id, actor_id, action, entity_id, detail, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())`

func (s *AuditSink) Record(ctx context.Context, e shared.AuditEvent) {
	detail, err := json.Marshal(e.Detail)
	if err != nil {
		slog.WarnContext(ctx, "failed to marshal audit detail", "action", e.Action, "error", err)
		detail = []byte("{}")
	}

	_, err = s.pool.Exec(ctx, insertAuditEventSQL,
		uuid.New(), e.LocationID,
		pgconv.UUIDPtrToPgtype(e.ActorID),
		e.Action, e.EntityID, detail,
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to record audit event",
			"action", e.Action, "entity_id", e.EntityID, "error", err)
	}
}
