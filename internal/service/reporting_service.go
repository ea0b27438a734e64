package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl serves the admin dashboard: aggregate order stats
// over a rolling period and unrestricted order listing.
type ReportingServiceImpl struct {
	orderRepo ports.OrderRepository
	log       zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(orderRepo ports.OrderRepository, log zerolog.Logger) *ReportingServiceImpl {
	return &ReportingServiceImpl{orderRepo: orderRepo, log: log}
}

// GetOrderStats aggregates order counts and paid revenue for the period
// ("24h", "7d", "30d" or "all").
func (s *ReportingServiceImpl) GetOrderStats(ctx context.Context, period string) (*ports.OrderStats, error) {
	var periodStart *int64
	switch period {
	case "", "all":
		// no lower bound
	case "24h":
		ts := time.Now().Add(-24 * time.Hour).Unix()
		periodStart = &ts
	case "7d":
		ts := time.Now().AddDate(0, 0, -7).Unix()
		periodStart = &ts
	case "30d":
		ts := time.Now().AddDate(0, 0, -30).Unix()
		periodStart = &ts
	default:
		return nil, apperror.Validation("period must be one of 24h, 7d, 30d, all")
	}

	stats, err := s.orderRepo.GetStats(ctx, periodStart)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("order stats: %w", err))
	}
	return stats, nil
}

// ListOrders returns any user's orders for the admin view.
func (s *ReportingServiceImpl) ListOrders(ctx context.Context, params ports.OrderListParams) ([]domain.Order, int64, error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list orders: %w", err))
	}
	return orders, total, nil
}
