package postgres

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookEventRepo implements ports.WebhookEventRepository.
// webhook_events carries a unique constraint on provider_event_id which is
// the authoritative deduplication layer for processor redeliveries.
type WebhookEventRepo struct {
	pool Pool
}

// NewWebhookEventRepo creates a new WebhookEventRepo.
func NewWebhookEventRepo(pool Pool) *WebhookEventRepo {
	return &WebhookEventRepo{pool: pool}
}

// Insert persists the event inside the caller's transaction. ON CONFLICT
// DO NOTHING turns a redelivery into a zero-row insert, reported as
// inserted=false. Because the row commits with the reconciliation updates,
// a rolled-back attempt leaves no record and the redelivery retries in full.
func (r *WebhookEventRepo) Insert(ctx context.Context, tx pgx.Tx, e *domain.WebhookEvent) (bool, error) {
	query := `INSERT INTO webhook_events (id, provider_event_id, event_type, intent_id, payload, received_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_event_id) DO NOTHING`

	tag, err := tx.Exec(ctx, query,
		e.ID, e.ProviderEventID, e.EventType, e.IntentID, e.Payload, e.ReceivedAt, e.ProcessedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert webhook event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkProcessed stamps the event once its state transition committed.
func (r *WebhookEventRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE webhook_events SET processed_at = $1 WHERE id = $2`

	if _, err := r.pool.Exec(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark webhook event processed: %w", err)
	}
	return nil
}
