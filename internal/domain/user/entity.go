package user

import (
	"time"
)

// 用户角色
const (
	RoleCustomer = 0 // 普通用户
	RoleAdmin    = 1 // 管理员
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 密码只保存bcrypt哈希，不提供任何暴露明文的方法
// 2. 领域实体不带GORM tag，持久化映射由基础设施层完成
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	Role      int // 0普通用户 1管理员
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法），默认普通用户角色
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		Role:      RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAdmin 是否管理员（后台接口鉴权用）
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UpdateNickname 更新昵称
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
