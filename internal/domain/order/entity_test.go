package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	items := []Item{
		{ProductID: 1, ProductName: "Go语言实战", CurrentUnitPrice: 1000, Quantity: 2, TotalPrice: 2000},
		{ProductID: 2, ProductName: "机械键盘", CurrentUnitPrice: 750, Quantity: 1, TotalPrice: 750},
	}

	o := NewOrder(12345, 100, 7, items, 2750)

	assert.Equal(t, StatusNoPay, o.Status, "新订单初始状态应该是未支付")
	assert.Equal(t, int64(2750), o.Payment, "订单金额应该是27.50元")
	assert.Equal(t, PaymentTypeOnline, o.PaymentType)
	assert.Equal(t, int64(0), o.Postage, "运费当前固定为0")
	assert.Nil(t, o.PaymentTime, "未支付订单不应有支付时间")
	assert.Len(t, o.Items, 2)
	assert.Equal(t, o.Payment, o.CalculateTotal(), "Payment必须等于明细合计")
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"未支付可以取消", StatusNoPay, StatusCanceled, true},
		{"未支付可以支付", StatusNoPay, StatusPaid, true},
		{"未支付可以超时关闭", StatusNoPay, StatusClosed, true},
		{"未支付不能直接发货", StatusNoPay, StatusShipped, false},
		{"未支付不能直接完成", StatusNoPay, StatusSuccess, false},
		{"已支付可以发货", StatusPaid, StatusShipped, true},
		{"已支付不能取消", StatusPaid, StatusCanceled, false},
		{"已支付不能重复支付", StatusPaid, StatusPaid, false},
		{"已发货可以完成", StatusShipped, StatusSuccess, true},
		{"已发货不能退回已支付", StatusShipped, StatusPaid, false},
		{"已取消是终态", StatusCanceled, StatusNoPay, false},
		{"订单完成是终态", StatusSuccess, StatusShipped, false},
		{"订单关闭是终态", StatusClosed, StatusNoPay, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			assert.Equal(t, tt.allowed, o.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderTransitionTo(t *testing.T) {
	t.Run("合法转换更新状态", func(t *testing.T) {
		o := &Order{Status: StatusNoPay}
		err := o.TransitionTo(StatusPaid)
		require.NoError(t, err)
		assert.Equal(t, StatusPaid, o.Status)
	})

	t.Run("非法转换返回错误且状态不变", func(t *testing.T) {
		o := &Order{Status: StatusCanceled}
		err := o.TransitionTo(StatusPaid)
		assert.ErrorIs(t, err, ErrIllegalTransition)
		assert.Equal(t, StatusCanceled, o.Status, "失败的转换不应改变状态")
	})
}

func TestOrderIsPaidOrLater(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusCanceled, false},
		{StatusNoPay, false},
		{StatusPaid, true},
		{StatusShipped, true},
		{StatusSuccess, true},
		{StatusClosed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.want, o.IsPaidOrLater())
		})
	}
}

func TestOrderIsOwnedBy(t *testing.T) {
	o := &Order{UserID: 100}
	assert.True(t, o.IsOwnedBy(100))
	assert.False(t, o.IsOwnedBy(200), "他人不应拥有该订单")
}

func TestCalculateTotal(t *testing.T) {
	o := &Order{
		Items: []Item{
			{TotalPrice: 2000},
			{TotalPrice: 750},
		},
		CreatedAt: time.Now(),
	}
	assert.Equal(t, int64(2750), o.CalculateTotal())

	empty := &Order{}
	assert.Equal(t, int64(0), empty.CalculateTotal(), "无明细订单合计为0")
}
