package service

import (
	"context"
	"fmt"
	"time"

	"storefront-api/internal/core/ports"
	"storefront-api/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RiskScorerImpl applies pre-charge risk rules: a hard per-charge amount
// ceiling and a per-user attempt velocity window backed by Redis.
type RiskScorerImpl struct {
	velocity       ports.VelocityStore
	maxAmount      int64
	velocityLimit  int64
	velocityWindow time.Duration
	log            zerolog.Logger
}

// NewRiskScorer creates a new RiskScorerImpl.
func NewRiskScorer(velocity ports.VelocityStore, maxAmount, velocityLimit int64, velocityWindow time.Duration, log zerolog.Logger) *RiskScorerImpl {
	return &RiskScorerImpl{
		velocity:       velocity,
		maxAmount:      maxAmount,
		velocityLimit:  velocityLimit,
		velocityWindow: velocityWindow,
		log:            log,
	}
}

// Score rejects the attempt with a client-visible reason, or returns nil.
func (s *RiskScorerImpl) Score(ctx context.Context, userID uuid.UUID, amount int64, currency string) error {
	if amount > s.maxAmount {
		s.log.Warn().
			Str("user_id", userID.String()).
			Int64("amount", amount).
			Int64("max_amount", s.maxAmount).
			Msg("charge amount over ceiling")
		return apperror.ErrRiskRejected("amount exceeds the per-charge limit")
	}

	count, err := s.velocity.Increment(ctx, userID.String(), s.velocityWindow)
	if err != nil {
		// Redis being down must not block payments; log and let it through.
		s.log.Error().Err(err).Str("user_id", userID.String()).Msg("velocity counter unavailable")
		return nil
	}
	if count > s.velocityLimit {
		s.log.Warn().
			Str("user_id", userID.String()).
			Int64("count", count).
			Msg(fmt.Sprintf("payment attempt velocity over %d per window", s.velocityLimit))
		return apperror.ErrRiskRejected("too many recent payment attempts")
	}

	return nil
}
