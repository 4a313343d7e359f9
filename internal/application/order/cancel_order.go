package order

import (
	"context"
	"log"
	"time"

	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/product"
	"github.com/happymall/mall/pkg/mq"
)

// CancelOrderUseCase 取消订单用例
// 只有未支付（NoPay）的订单可以取消，取消后回补库存
type CancelOrderUseCase struct {
	orderRepo   order.Repository
	productRepo product.Repository
	txManager   Transactor
	publisher   *mq.Publisher
}

// NewCancelOrderUseCase 创建取消订单用例
func NewCancelOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	txManager Transactor,
	publisher *mq.Publisher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// Execute 取消订单
//
// 事务内步骤：
// 1. 按用户+订单号读取订单（归属校验，他人订单返回不存在）
// 2. 条件更新 NoPay → Canceled（并发的支付回调和取消请求，
//    由数据库保证只有一个生效：回调先到则这里返回状态不符）
// 3. 按明细逐行回补库存
func (uc *CancelOrderUseCase) Execute(ctx context.Context, userID uint, orderNo int64) error {
	var canceled *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByUserIDOrderNo(txCtx, userID, orderNo)
		if err != nil {
			return err
		}

		if err := uc.orderRepo.MarkCanceled(txCtx, orderNo, time.Now()); err != nil {
			return err
		}

		// 回补库存（与状态更新同一事务，失败一起回滚）
		for _, item := range o.Items {
			if err := uc.productRepo.IncreaseStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		canceled = o
		return nil
	})

	if err != nil {
		return err
	}

	if err := uc.publisher.PublishOrderEvent(mq.RouteOrderCanceled, mq.OrderEvent{
		OrderNo:    canceled.OrderNo,
		UserID:     canceled.UserID,
		Status:     int(order.StatusCanceled),
		Payment:    canceled.Payment,
		OccurredAt: time.Now(),
	}); err != nil {
		log.Printf("发布取消事件失败 orderNo=%d: %v", canceled.OrderNo, err)
	}

	return nil
}
