package cart

import (
	"context"
)

// Repository 购物车仓储接口
type Repository interface {
	// ListByUserID 查询用户全部购物车条目
	ListByUserID(ctx context.Context, userID uint) ([]*Item, error)

	// ListCheckedByUserID 查询用户已勾选的购物车条目（下单入口）
	ListCheckedByUserID(ctx context.Context, userID uint) ([]*Item, error)

	// FindByUserIDProductID 查询用户某商品的购物车条目，不存在返回ErrCartItemNotFound
	FindByUserIDProductID(ctx context.Context, userID, productID uint) (*Item, error)

	// Save 新增或更新购物车条目
	Save(ctx context.Context, item *Item) error

	// UpdateQuantity 更新条目数量（库存校正时也走这里，持久化校正结果）
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error

	// UpdateChecked 更新单个商品勾选状态
	UpdateChecked(ctx context.Context, userID, productID uint, checked int) error

	// UpdateCheckedAll 全选/全不选
	UpdateCheckedAll(ctx context.Context, userID uint, checked int) error

	// DeleteByUserIDProductIDs 删除用户的若干条目（下单成功后清空已购条目）
	DeleteByUserIDProductIDs(ctx context.Context, userID uint, productIDs []uint) error

	// CountByUserID 统计用户购物车商品总件数（Σ quantity）
	CountByUserID(ctx context.Context, userID uint) (int64, error)

	// CountUncheckedByUserID 统计未勾选条目数（用于"是否全选"判断）
	CountUncheckedByUserID(ctx context.Context, userID uint) (int64, error)
}
