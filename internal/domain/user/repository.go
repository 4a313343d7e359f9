package user

import (
	"context"
)

// Repository 用户仓储接口
// 邮箱唯一性由数据库UNIQUE索引保证，实现负责把唯一索引冲突
// 翻译为ErrEmailDuplicate
type Repository interface {
	// Create 创建用户
	Create(ctx context.Context, u *User) error

	// FindByID 按ID查询，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 按邮箱查询，不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}
