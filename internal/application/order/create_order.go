package order

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/product"
	"github.com/happymall/mall/internal/domain/shipping"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/metrics"
	"github.com/happymall/mall/pkg/mq"
)

// CreateOrderUseCase 创建订单用例
// 整个系统最核心的写路径：从购物车勾选行生成订单，
// 涉及事务、并发扣库存、价格快照
type CreateOrderUseCase struct {
	orderRepo    order.Repository
	productRepo  product.Repository
	cartRepo     cart.Repository
	shippingRepo shipping.Repository
	noGen        *order.NoGenerator
	txManager    Transactor
	publisher    *mq.Publisher
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	productRepo product.Repository,
	cartRepo cart.Repository,
	shippingRepo shipping.Repository,
	noGen *order.NoGenerator,
	txManager Transactor,
	publisher *mq.Publisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		shippingRepo: shippingRepo,
		noGen:        noGen,
		txManager:    txManager,
		publisher:    publisher,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID     uint // 买家用户ID（从JWT提取）
	ShippingID uint // 收货地址ID
}

// Execute 执行下单
//
// 全有或全无：任何一行商品下架或库存不足，整个事务回滚，
// 不产生部分订单、不留下部分扣减的库存。
//
// 事务内步骤：
// 1. 读取勾选的购物车行（无勾选行 → ErrEmptyCart）
// 2. 逐行校验商品在售且库存充足，生成价格快照明细
//    （被库存校正清零的行跳过，全为零行时同样视为空购物车）
// 3. 生成订单号，持久化订单+明细
// 4. 逐行条件扣库存（UPDATE ... WHERE stock >= ?，影响0行则回滚）
// 5. 删除已购的购物车行
//
// 金额计算用数据库中的当前价格而非前端传值，防止改价攻击。
// 扣库存放在明细持久化之后：条件UPDATE是最可能失败的一步，
// 失败时事务回滚，前面的写入全部撤销。
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	start := time.Now()

	// 收货地址归属校验（属于他人的地址ID视同不存在）
	if _, err := uc.shippingRepo.FindByUserIDAndID(ctx, req.UserID, req.ShippingID); err != nil {
		return nil, err
	}

	var result *order.Order
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 读取勾选的购物车行
		cartItems, err := uc.cartRepo.ListCheckedByUserID(txCtx, req.UserID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return order.ErrEmptyCart
		}

		// 2. 逐行校验并生成快照明细
		orderNo := uc.noGen.Next()
		var payment int64
		orderItems := make([]order.Item, 0, len(cartItems))
		productIDs := make([]uint, 0, len(cartItems))

		for _, ci := range cartItems {
			// 库存清零后读取校正会把行数量写成0，这种行跳过，
			// 留在购物车里等补货，不拖垮整单
			if ci.Quantity <= 0 {
				continue
			}

			p, err := uc.productRepo.FindByID(txCtx, ci.ProductID)
			if err != nil {
				return err
			}

			if !p.IsOnSale() {
				return product.ErrProductOffSale
			}

			// 先用普通读快速失败；真正的并发防线是下面的条件扣减
			if p.Stock < ci.Quantity {
				return product.ErrInsufficientStock
			}

			totalPrice := p.Price * int64(ci.Quantity)
			orderItems = append(orderItems, order.Item{
				UserID:           req.UserID,
				OrderNo:          orderNo,
				ProductID:        p.ID,
				ProductName:      p.Name,
				ProductImage:     p.MainImage,
				CurrentUnitPrice: p.Price,
				Quantity:         ci.Quantity,
				TotalPrice:       totalPrice,
				CreatedAt:        time.Now(),
			})
			payment += totalPrice
			productIDs = append(productIDs, p.ID)
		}

		// 勾选的行全是零数量行时视同空购物车
		if len(orderItems) == 0 {
			return order.ErrEmptyCart
		}

		// 3. 持久化订单+明细
		newOrder := order.NewOrder(orderNo, req.UserID, req.ShippingID, orderItems, payment)
		if err := uc.orderRepo.Create(txCtx, newOrder); err != nil {
			return err
		}

		// 4. 条件扣库存
		// 单条UPDATE原子完成校验+扣减，并发抢最后一件时只有一个成功，
		// 失败方整个事务回滚（订单、明细一并撤销）
		for _, item := range orderItems {
			if err := uc.productRepo.DecreaseStock(txCtx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, product.ErrInsufficientStock) {
					metrics.IncCounter(metrics.StockConflictsTotal)
				}
				return err
			}
		}

		// 5. 清除已购的购物车行
		if err := uc.cartRepo.DeleteByUserIDProductIDs(txCtx, req.UserID, productIDs); err != nil {
			return err
		}

		result = newOrder
		return nil
	})

	if err != nil {
		metrics.IncCounterVec(metrics.OrdersFailedTotal, map[string]string{
			"reason": failureReason(err),
		})
		return nil, err
	}

	metrics.IncCounter(metrics.OrdersCreatedTotal)
	metrics.ObserveHistogram(metrics.OrderCreationDuration, time.Since(start).Seconds())

	// 事务提交后发布事件；MQ不可用不影响下单结果
	if err := uc.publisher.PublishOrderEvent(mq.RouteOrderCreated, mq.OrderEvent{
		OrderNo:    result.OrderNo,
		UserID:     result.UserID,
		Status:     int(result.Status),
		Payment:    result.Payment,
		OccurredAt: time.Now(),
	}); err != nil {
		log.Printf("发布下单事件失败 orderNo=%d: %v", result.OrderNo, err)
	}

	return result, nil
}

// failureReason 下单失败原因 → 指标标签
func failureReason(err error) string {
	appErr := apperrors.GetAppError(err)
	switch appErr.Code {
	case apperrors.ErrCodeEmptyCart:
		return "empty_cart"
	case apperrors.ErrCodeProductOffSale:
		return "off_sale"
	case apperrors.ErrCodeInsufficientStock:
		return "insufficient_stock"
	default:
		return "internal"
	}
}
