package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/happymall/mall/internal/domain/order"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/mq"
)

// ShipOrderUseCase 发货用例（管理后台）
type ShipOrderUseCase struct {
	orderRepo order.Repository
	publisher *mq.Publisher
}

// NewShipOrderUseCase 创建发货用例
func NewShipOrderUseCase(orderRepo order.Repository, publisher *mq.Publisher) *ShipOrderUseCase {
	return &ShipOrderUseCase{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// Execute 发货
// 条件更新 Paid → Shipped。未支付（或已取消/已关闭）订单的发货请求，
// 条件更新影响0行，向调用方报"订单尚未支付"
func (uc *ShipOrderUseCase) Execute(ctx context.Context, orderNo int64) error {
	if err := uc.orderRepo.MarkShipped(ctx, orderNo, time.Now()); err != nil {
		if errors.Is(err, order.ErrIllegalTransition) {
			return apperrors.ErrPaymentNotFinished
		}
		return err
	}

	o, err := uc.orderRepo.FindByOrderNo(ctx, orderNo)
	if err != nil {
		// 状态已更新成功，事件查不到订单只记日志
		log.Printf("发货后查询订单失败 orderNo=%d: %v", orderNo, err)
		return nil
	}

	if err := uc.publisher.PublishOrderEvent(mq.RouteOrderShipped, mq.OrderEvent{
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Status:     int(order.StatusShipped),
		Payment:    o.Payment,
		OccurredAt: time.Now(),
	}); err != nil {
		log.Printf("发布发货事件失败 orderNo=%d: %v", orderNo, err)
	}

	return nil
}
