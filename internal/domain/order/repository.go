package order

import (
	"context"
	"time"
)

// ListQuery 管理后台订单列表查询条件
type ListQuery struct {
	OrderNo  int64  // 按订单号精确查询（0表示不过滤）
	Status   Status // 按状态过滤
	HasStat  bool   // Status是否生效（Canceled=0，不能用零值判断）
	Page     int
	PageSize int
}

// Repository 订单仓储接口
// 设计说明：
// 1. 状态变更不提供通用的UpdateStatus，而是按转换各提供一个条件更新方法，
//    由数据库原子完成"校验前置状态+更新"（WHERE order_no = ? AND status = ?）
// 2. 条件更新影响0行时，实现负责区分订单不存在（ErrOrderNotFound）
//    和状态不符（ErrIllegalTransition）
type Repository interface {
	// Create 持久化订单及其全部明细（须在事务内调用）
	Create(ctx context.Context, o *Order) error

	// FindByOrderNo 按订单号查询（含明细）
	FindByOrderNo(ctx context.Context, orderNo int64) (*Order, error)

	// FindByUserIDOrderNo 按用户+订单号查询（含明细），用于买家侧接口的归属校验
	FindByUserIDOrderNo(ctx context.Context, userID uint, orderNo int64) (*Order, error)

	// ListByUserID 查询用户订单列表（含明细，按创建时间倒序，分页）
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Order, int64, error)

	// List 管理后台订单列表（分页，可按订单号/状态过滤）
	List(ctx context.Context, query ListQuery) ([]*Order, int64, error)

	// MarkCanceled 取消订单：NoPay → Canceled，写入关闭时间
	MarkCanceled(ctx context.Context, orderNo int64, closeTime time.Time) error

	// MarkPaid 确认支付：NoPay → Paid，写入支付时间（回调幂等依赖此条件更新）
	MarkPaid(ctx context.Context, orderNo int64, paymentTime time.Time) error

	// MarkShipped 发货：Paid → Shipped，写入发货时间
	MarkShipped(ctx context.Context, orderNo int64, sendTime time.Time) error
}
