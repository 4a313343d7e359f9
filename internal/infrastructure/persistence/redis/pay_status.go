package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// payStatusTTL 已支付标记缓存时长
// 前端轮询支付结果的间隔是秒级，短TTL即可挡住绝大部分查询，
// 缓存未命中或Redis故障时自然回落到数据库查询
const payStatusTTL = 5 * time.Minute

// PayStatusCache 支付结果查询缓存
// Key设计：order:paid:{order_no}，只缓存"已支付"这一确定事实
// （未支付状态随时会变，不缓存）。nil接收者所有方法为空操作，
// 表现为缓存永远未命中
type PayStatusCache struct {
	client *redis.Client
}

// NewPayStatusCache 创建支付结果缓存
func NewPayStatusCache(client *redis.Client) *PayStatusCache {
	return &PayStatusCache{client: client}
}

// MarkPaid 标记订单已支付（回调确认后写入）
// 缓存写入失败不影响主流程，错误交由调用方记日志后忽略
func (c *PayStatusCache) MarkPaid(ctx context.Context, orderNo int64) error {
	if c == nil {
		return nil
	}
	key := fmt.Sprintf("order:paid:%d", orderNo)
	return c.client.Set(ctx, key, 1, payStatusTTL).Err()
}

// IsPaid 查询订单是否已支付
// 返回(true, nil)表示缓存命中已支付；(false, nil)表示未命中，
// 调用方需要回查数据库
func (c *PayStatusCache) IsPaid(ctx context.Context, orderNo int64) (bool, error) {
	if c == nil {
		return false, nil
	}
	key := fmt.Sprintf("order:paid:%d", orderNo)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return exists > 0, nil
}
