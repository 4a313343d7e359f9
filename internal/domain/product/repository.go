package product

import (
	"context"
)

// Repository 商品仓储接口
type Repository interface {
	// Create 创建商品
	Create(ctx context.Context, p *Product) error

	// FindByID 按ID查询商品
	FindByID(ctx context.Context, id uint) (*Product, error)

	// List 商品列表（分页，可按名称模糊搜索，keyword为空则不过滤）
	List(ctx context.Context, keyword string, page, pageSize int) ([]*Product, int64, error)

	// DecreaseStock 条件扣减库存
	// 单条语句原子完成：UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
	// 影响0行说明库存不足（或商品不存在），返回ErrInsufficientStock，
	// 不做"先读再写"，避免并发下超卖
	DecreaseStock(ctx context.Context, productID uint, quantity int) error

	// IncreaseStock 回补库存（取消订单时调用）
	IncreaseStock(ctx context.Context, productID uint, quantity int) error
}
