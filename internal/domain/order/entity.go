package order

import (
	"time"
)

// Status 订单状态
// 设计说明：
// 1. 状态码持久化到数据库且直接展示给客户端，取值必须保持稳定
// 2. 0取消，10未支付，20已支付，40已发货，50订单完成，60订单关闭
// 3. 除NO_PAY→CANCELED外，状态只能沿数值增大的方向流转
type Status int

const (
	StatusCanceled Status = 0  // 已取消
	StatusNoPay    Status = 10 // 未支付
	StatusPaid     Status = 20 // 已支付
	StatusShipped  Status = 40 // 已发货
	StatusSuccess  Status = 50 // 订单完成
	StatusClosed   Status = 60 // 订单关闭
)

// String 实现Stringer接口（方便日志输出）
func (s Status) String() string {
	switch s {
	case StatusCanceled:
		return "已取消"
	case StatusNoPay:
		return "未支付"
	case StatusPaid:
		return "已支付"
	case StatusShipped:
		return "已发货"
	case StatusSuccess:
		return "订单完成"
	case StatusClosed:
		return "订单关闭"
	default:
		return "未知状态"
	}
}

// PaymentType 支付类型
const (
	PaymentTypeOnline = 1 // 在线支付
)

// PaymentTypeDesc 支付类型描述
func PaymentTypeDesc(paymentType int) string {
	if paymentType == PaymentTypeOnline {
		return "在线支付"
	}
	return "未知支付类型"
}

// Order 订单实体（聚合根）
// 设计说明：
// 1. OrderNo是业务主键（64位整数，全局唯一，对外可见），区别于自增ID
// 2. Payment冗余存储订单总金额（分），创建后不可变
// 3. OrderItem保存下单时的价格快照，后续商品改价不影响历史订单
type Order struct {
	ID          uint
	OrderNo     int64      // 订单号（业务主键）
	UserID      uint       // 买家用户ID
	ShippingID  uint       // 收货地址ID
	Payment     int64      // 订单总金额（分）= Σ明细TotalPrice
	PaymentType int        // 支付类型：1在线支付
	Postage     int64      // 运费（分），当前固定为0
	Status      Status     // 订单状态
	PaymentTime *time.Time // 支付时间（回调确认后写入）
	SendTime    *time.Time // 发货时间
	EndTime     *time.Time // 交易完成时间
	CloseTime   *time.Time // 交易关闭时间
	Items       []Item     // 订单明细（聚合内的子实体）
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item 订单明细项
// 设计说明：
// 1. 不是独立聚合根，必须通过Order访问
// 2. ProductName/ProductImage/CurrentUnitPrice是下单时刻的快照
// 3. TotalPrice = CurrentUnitPrice × Quantity，创建后不可变
type Item struct {
	ID               uint
	UserID           uint
	OrderNo          int64  // 所属订单号
	ProductID        uint   // 商品ID
	ProductName      string // 商品名称快照
	ProductImage     string // 商品主图快照
	CurrentUnitPrice int64  // 下单时单价（分）
	Quantity         int    // 购买数量
	TotalPrice       int64  // 该商品购买总价（分）
	CreatedAt        time.Time
}

// NewOrder 创建新订单（工厂方法）
// 初始状态为NoPay（未支付），运费当前固定为0
func NewOrder(orderNo int64, userID, shippingID uint, items []Item, payment int64) *Order {
	now := time.Now()
	return &Order{
		OrderNo:     orderNo,
		UserID:      userID,
		ShippingID:  shippingID,
		Payment:     payment,
		PaymentType: PaymentTypeOnline,
		Postage:     0,
		Status:      StatusNoPay,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// transitions 合法的状态转换表
// Success和Closed的入边由外部后台任务驱动（本核心不触发），
// 但仍在此声明，未来的清理任务复用同一条件更新原语即可。
var transitions = map[Status][]Status{
	StatusNoPay:    {StatusCanceled, StatusPaid, StatusClosed},
	StatusPaid:     {StatusShipped},
	StatusShipped:  {StatusSuccess},
	StatusCanceled: {},
	StatusSuccess:  {},
	StatusClosed:   {},
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换（内存模型）
// 注意：持久化层的状态变更必须用条件UPDATE（WHERE status = 原状态），
// 本方法只用于聚合内校验，不能替代数据库层的并发控制。
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrIllegalTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// IsPaidOrLater 是否已进入支付完成之后的状态
// 回调幂等判断依据：status >= PAID即认为是重复通知
func (o *Order) IsPaidOrLater() bool {
	return o.Status >= StatusPaid
}

// CalculateTotal 根据明细实时计算订单总金额
// 用于创建订单时的自检：Payment必须等于明细合计
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
