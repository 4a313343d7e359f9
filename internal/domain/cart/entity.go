package cart

import (
	"time"
)

// 勾选状态
const (
	Checked   = 1 // 已勾选（参与结算）
	Unchecked = 0 // 未勾选
)

// Item 购物车条目
// 设计说明：
// 1. 每个(UserID, ProductID)至多一条记录，重复加购合并数量
// 2. 购物车不存价格快照，展示和结算时实时读取商品当前价格
// 3. Quantity是"期望数量"，可能超过当前库存，读取购物车时做库存校正
type Item struct {
	ID        uint
	UserID    uint
	ProductID uint
	Quantity  int // 期望购买数量
	Checked   int // 1勾选 0未勾选
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsChecked 是否勾选参与结算
func (i *Item) IsChecked() bool {
	return i.Checked == Checked
}
