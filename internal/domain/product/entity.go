package product

import (
	"time"
)

// 商品状态
const (
	StatusOnSale  = 1 // 在售
	StatusOffSale = 2 // 下架
	StatusDeleted = 3 // 删除
)

// Product 商品实体
// 设计说明：
// 1. Price以分为单位的int64存储，避免浮点运算的精度问题
//    （27.50元 = 2750分，展示层负责换算）
// 2. Stock只通过仓储的条件更新修改，实体上不提供Decrease方法，
//    防止读改写竞态
type Product struct {
	ID        uint
	Name      string
	Subtitle  string // 副标题
	MainImage string // 主图（相对路径，展示时拼接图片服务器前缀）
	SubImages string // 子图（逗号分隔）
	Detail    string // 详情（富文本）
	Price     int64  // 价格（分）
	Stock     int    // 库存
	Status    int    // 状态：1在售 2下架 3删除
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOnSale 是否在售
// 下单和加购前都要检查，非在售商品不允许购买
func (p *Product) IsOnSale() bool {
	return p.Status == StatusOnSale
}

// StatusDesc 状态描述
func (p *Product) StatusDesc() string {
	switch p.Status {
	case StatusOnSale:
		return "在售"
	case StatusOffSale:
		return "下架"
	case StatusDeleted:
		return "删除"
	default:
		return "未知"
	}
}
