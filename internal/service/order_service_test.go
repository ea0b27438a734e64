package service

import (
	"context"
	"testing"

	"storefront-api/internal/core/domain"
	"storefront-api/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type orderTestDeps struct {
	svc        *OrderServiceImpl
	transactor *mocks.MockDBTransactor
	orderRepo  *mocks.MockOrderRepository
	ctrl       *gomock.Controller
}

func setupOrderService(t *testing.T) *orderTestDeps {
	ctrl := gomock.NewController(t)
	d := &orderTestDeps{
		transactor: mocks.NewMockDBTransactor(ctrl),
		orderRepo:  mocks.NewMockOrderRepository(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewOrderService(d.transactor, d.orderRepo, nil, zerolog.Nop())
	return d
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	d := setupOrderService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID, orderID := uuid.New(), uuid.New()

	d.orderRepo.EXPECT().GetByIDForUser(ctx, orderID, userID).Return(nil, nil)

	order, err := d.svc.GetOrder(ctx, userID, orderID)
	assert.Nil(t, order)
	assertAppError(t, err, "ORD_001")
}

func TestOrderService_Advance_Success(t *testing.T) {
	d := setupOrderService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	orderID := uuid.New()
	tx := &mockTx{}

	d.orderRepo.EXPECT().GetByID(ctx, orderID).Return(&domain.Order{
		ID: orderID, Status: domain.OrderStatusProcessing,
	}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.orderRepo.EXPECT().UpdateStatus(ctx, tx, orderID, domain.OrderStatusShipped).Return(nil)

	order, err := d.svc.Advance(ctx, orderID, domain.OrderStatusShipped)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, order.Status)
}

func TestOrderService_Advance_IllegalTransition(t *testing.T) {
	d := setupOrderService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	orderID := uuid.New()

	d.orderRepo.EXPECT().GetByID(ctx, orderID).Return(&domain.Order{
		ID: orderID, Status: domain.OrderStatusPending,
	}, nil)

	order, err := d.svc.Advance(ctx, orderID, domain.OrderStatusDelivered)
	assert.Nil(t, order)
	assertAppError(t, err, "ORD_003")
}

func TestOrderService_Advance_RejectsCancellation(t *testing.T) {
	d := setupOrderService(t)
	defer d.ctrl.Finish()

	order, err := d.svc.Advance(context.Background(), uuid.New(), domain.OrderStatusCancelled)
	assert.Nil(t, order)
	assertAppError(t, err, "VAL_001")
}
