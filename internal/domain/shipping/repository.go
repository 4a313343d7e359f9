package shipping

import (
	"context"
)

// Repository 收货地址仓储接口
type Repository interface {
	// Create 创建收货地址
	Create(ctx context.Context, s *Shipping) error

	// FindByUserIDAndID 按用户+地址ID查询
	// 用户ID一并作为查询条件，天然完成归属校验，
	// 地址不存在或属于他人都返回ErrShippingNotFound
	FindByUserIDAndID(ctx context.Context, userID, id uint) (*Shipping, error)

	// ListByUserID 查询用户全部收货地址
	ListByUserID(ctx context.Context, userID uint) ([]*Shipping, error)
}
