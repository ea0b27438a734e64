package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notifyRetryIntervals spaces out redelivery attempts after a failed POST.
var notifyRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// HTTPClient is the outbound HTTP boundary, narrowed for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// orderEventPayload is the JSON body posted to the configured endpoint.
type orderEventPayload struct {
	EventType string         `json:"event_type"`
	Data      orderEventData `json:"data"`
}

type orderEventData struct {
	OrderID   string `json:"order_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	Timestamp int64  `json:"timestamp"`
}

// NotificationServiceImpl posts signed order-event notifications to a
// configured endpoint and records every delivery attempt. Background
// deliveries run under a service-owned context so graceful shutdown can
// cancel the retry schedule and wait for in-flight attempts.
type NotificationServiceImpl struct {
	notifyURL    string
	notifySecret string
	sigSvc       ports.SignatureService
	notifRepo    ports.NotificationRepository
	httpClient   HTTPClient
	log          zerolog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewNotificationService creates a new NotificationServiceImpl. An empty
// URL disables delivery.
func NewNotificationService(
	notifyURL, notifySecret string,
	sigSvc ports.SignatureService,
	notifRepo ports.NotificationRepository,
	httpClient HTTPClient,
	log zerolog.Logger,
) *NotificationServiceImpl {
	baseCtx, cancel := context.WithCancel(context.Background())
	return &NotificationServiceImpl{
		notifyURL:    notifyURL,
		notifySecret: notifySecret,
		sigSvc:       sigSvc,
		notifRepo:    notifRepo,
		httpClient:   httpClient,
		log:          log,
		baseCtx:      baseCtx,
		cancel:       cancel,
	}
}

// DispatchOrderEvent delivers the event asynchronously. The goroutine is
// tracked so Shutdown can drain it instead of killing a delivery mid-retry.
func (s *NotificationServiceImpl) DispatchOrderEvent(order *domain.Order, eventType string) {
	if s.notifyURL == "" {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.NotifyOrderEvent(s.baseCtx, order, eventType); err != nil {
			s.log.Warn().Err(err).Str("order_id", order.ID.String()).Str("event", eventType).Msg("order event notification failed")
		}
	}()
}

// Shutdown cancels pending retry waits and blocks until in-flight
// deliveries return or the context expires.
func (s *NotificationServiceImpl) Shutdown(ctx context.Context) error {
	s.cancel()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyOrderEvent signs and delivers one order event, retrying on failure.
// The X-Signature header carries an HMAC-SHA256 of the body so the receiver
// can authenticate the sender.
func (s *NotificationServiceImpl) NotifyOrderEvent(ctx context.Context, order *domain.Order, eventType string) error {
	if s.notifyURL == "" {
		s.log.Debug().Str("event", eventType).Msg("no notification endpoint configured, skipping")
		return nil
	}

	payload := orderEventPayload{
		EventType: eventType,
		Data: orderEventData{
			OrderID:   order.ID.String(),
			UserID:    order.UserID.String(),
			Status:    string(order.Status),
			Total:     order.Total.String(),
			Currency:  order.Currency,
			Timestamp: time.Now().Unix(),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	signature := s.sigSvc.Sign(s.notifySecret, string(body))

	now := time.Now().UTC()
	entry := &domain.NotificationLog{
		ID:        uuid.New(),
		OrderID:   order.ID,
		EventType: eventType,
		URL:       s.notifyURL,
		Payload:   string(body),
		Status:    domain.NotificationStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notifRepo.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to record notification")
	}

	for attempt := 0; attempt <= len(notifyRetryIntervals); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				s.finish(ctx, entry, domain.NotificationStatusFailed, nil, ctx.Err())
				return ctx.Err()
			case <-time.After(notifyRetryIntervals[attempt-1]):
			}
		}
		entry.Attempt = attempt + 1

		status, err := s.post(ctx, body, signature)
		if err != nil {
			s.log.Warn().Err(err).Str("order_id", order.ID.String()).Int("attempt", entry.Attempt).Msg("notification delivery failed")
			s.finish(ctx, entry, domain.NotificationStatusPending, nil, err)
			continue
		}
		if status >= 200 && status < 300 {
			s.finish(ctx, entry, domain.NotificationStatusDelivered, &status, nil)
			s.log.Info().Str("order_id", order.ID.String()).Int("attempt", entry.Attempt).Int("status", status).Msg("notification delivered")
			return nil
		}

		s.log.Warn().Str("order_id", order.ID.String()).Int("attempt", entry.Attempt).Int("status", status).Msg("notification rejected, retrying")
		s.finish(ctx, entry, domain.NotificationStatusPending, &status, nil)
	}

	s.finish(ctx, entry, domain.NotificationStatusFailed, entry.HTTPStatus, nil)
	return fmt.Errorf("notification delivery exhausted after %d attempts", entry.Attempt)
}

func (s *NotificationServiceImpl) post(ctx context.Context, body []byte, signature string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.notifyURL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (s *NotificationServiceImpl) finish(ctx context.Context, entry *domain.NotificationLog, status domain.NotificationStatus, httpStatus *int, lastErr error) {
	entry.Status = status
	entry.HTTPStatus = httpStatus
	entry.UpdatedAt = time.Now().UTC()
	if lastErr != nil {
		msg := lastErr.Error()
		entry.LastError = &msg
	}
	if err := s.notifRepo.Update(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("notification_id", entry.ID.String()).Msg("failed to update notification record")
	}
}
