package order

import (
	"context"
	"log"

	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/infrastructure/persistence/redis"
)

// QueryOrderUseCase 订单查询用例（买家侧 + 管理后台）
type QueryOrderUseCase struct {
	orderRepo      order.Repository
	payInfoRepo    order.PayInfoRepository
	payStatusCache *redis.PayStatusCache
}

// NewQueryOrderUseCase 创建订单查询用例
func NewQueryOrderUseCase(
	orderRepo order.Repository,
	payInfoRepo order.PayInfoRepository,
	payStatusCache *redis.PayStatusCache,
) *QueryOrderUseCase {
	return &QueryOrderUseCase{
		orderRepo:      orderRepo,
		payInfoRepo:    payInfoRepo,
		payStatusCache: payStatusCache,
	}
}

// Detail 买家查询订单详情（归属校验由仓储的复合条件完成）
func (uc *QueryOrderUseCase) Detail(ctx context.Context, userID uint, orderNo int64) (*order.Order, error) {
	return uc.orderRepo.FindByUserIDOrderNo(ctx, userID, orderNo)
}

// List 买家查询订单列表（分页）
func (uc *QueryOrderUseCase) List(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	return uc.orderRepo.ListByUserID(ctx, userID, page, pageSize)
}

// IsPaid 查询订单是否已支付（前端轮询接口）
// 先查Redis缓存，未命中或缓存故障回落数据库；
// 数据库确认已支付后回填缓存，挡住后续轮询
func (uc *QueryOrderUseCase) IsPaid(ctx context.Context, userID uint, orderNo int64) (bool, error) {
	if paid, err := uc.payStatusCache.IsPaid(ctx, orderNo); err == nil && paid {
		return true, nil
	} else if err != nil {
		log.Printf("查询支付状态缓存失败 orderNo=%d: %v", orderNo, err)
	}

	o, err := uc.orderRepo.FindByUserIDOrderNo(ctx, userID, orderNo)
	if err != nil {
		return false, err
	}

	if o.IsPaidOrLater() {
		if err := uc.payStatusCache.MarkPaid(ctx, orderNo); err != nil {
			log.Printf("回填支付状态缓存失败 orderNo=%d: %v", orderNo, err)
		}
		return true, nil
	}

	return false, nil
}

// AdminDetail 管理后台查询订单详情（不限用户）
func (uc *QueryOrderUseCase) AdminDetail(ctx context.Context, orderNo int64) (*order.Order, error) {
	return uc.orderRepo.FindByOrderNo(ctx, orderNo)
}

// AdminList 管理后台订单列表（可按订单号/状态过滤）
func (uc *QueryOrderUseCase) AdminList(ctx context.Context, query order.ListQuery) ([]*order.Order, int64, error) {
	return uc.orderRepo.List(ctx, query)
}

// PayRecords 查询订单的支付流水（对账）
func (uc *QueryOrderUseCase) PayRecords(ctx context.Context, orderNo int64) ([]*order.PayInfo, error) {
	return uc.payInfoRepo.ListByOrderNo(ctx, orderNo)
}
