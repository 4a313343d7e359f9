package order

import (
	"context"
	"time"
)

// 支付平台
const (
	PlatformAlipay = 1 // 支付宝
)

// PayInfo 支付流水记录
// 设计说明：
// 1. 只追加不更新的审计表，每次有效回调插入一条
// 2. PlatformNumber是支付平台的交易号（trade_no），用于对账
// 3. 幂等门（status >= PAID则忽略）保证同一笔支付不会重复落两条
type PayInfo struct {
	ID             uint
	UserID         uint
	OrderNo        int64
	PayPlatform    int    // 支付平台：1支付宝
	PlatformNumber string // 平台交易号
	PlatformStatus string // 平台交易状态（如TRADE_SUCCESS）
	CreatedAt      time.Time
}

// PayInfoRepository 支付流水仓储接口
type PayInfoRepository interface {
	// Create 插入一条支付流水
	Create(ctx context.Context, info *PayInfo) error

	// ListByOrderNo 查询订单的全部支付流水（按创建时间升序）
	ListByOrderNo(ctx context.Context, orderNo int64) ([]*PayInfo, error)
}
