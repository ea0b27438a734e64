package postgres

import (
	"context"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
)

type notificationRepo struct {
	pool Pool
}

// NewNotificationRepo creates a PostgreSQL-backed NotificationRepository.
func NewNotificationRepo(pool Pool) ports.NotificationRepository {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Create(ctx context.Context, log *domain.NotificationLog) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_logs
		(id, order_id, event_type, url, payload, http_status, attempt, status, last_error, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		log.ID, log.OrderID, log.EventType, log.URL, log.Payload,
		log.HTTPStatus, log.Attempt, string(log.Status), log.LastError,
		log.CreatedAt, log.UpdatedAt,
	)
	return err
}

func (r *notificationRepo) Update(ctx context.Context, log *domain.NotificationLog) error {
	log.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx,
		`UPDATE notification_logs
		 SET http_status=$1, attempt=$2, status=$3, last_error=$4, updated_at=$5
		 WHERE id=$6`,
		log.HTTPStatus, log.Attempt, string(log.Status), log.LastError, log.UpdatedAt, log.ID,
	)
	return err
}
