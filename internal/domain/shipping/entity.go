package shipping

import (
	"time"
)

// Shipping 收货地址实体
// 订单创建时校验地址归属（ShippingID必须属于下单用户），
// 订单只保存地址ID，详情展示时再按ID取地址。
type Shipping struct {
	ID           uint
	UserID       uint
	ReceiverName string // 收货人姓名
	Phone        string // 联系电话
	Province     string
	City         string
	District     string
	Address      string // 详细地址
	Zip          string // 邮编
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
