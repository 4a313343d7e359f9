package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happymall/mall/internal/domain/order"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// fakeOrderRepo 内存订单仓储，MarkPaid保持条件更新语义
type fakeOrderRepo struct {
	orders []*order.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	r.orders = append(r.orders, o)
	return nil
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo int64) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByUserIDOrderNo(_ context.Context, userID uint, orderNo int64) (*order.Order, error) {
	for _, o := range r.orders {
		if o.UserID == userID && o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, _ uint, _, _ int) ([]*order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ order.ListQuery) ([]*order.Order, int64, error) {
	return nil, 0, nil
}

func (r *fakeOrderRepo) MarkCanceled(_ context.Context, orderNo int64, closeTime time.Time) error {
	return r.markIf(orderNo, order.StatusNoPay, order.StatusCanceled)
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderNo int64, paymentTime time.Time) error {
	if err := r.markIf(orderNo, order.StatusNoPay, order.StatusPaid); err != nil {
		return err
	}
	o, _ := r.FindByOrderNo(context.Background(), orderNo)
	o.PaymentTime = &paymentTime
	return nil
}

func (r *fakeOrderRepo) MarkShipped(_ context.Context, orderNo int64, _ time.Time) error {
	return r.markIf(orderNo, order.StatusPaid, order.StatusShipped)
}

func (r *fakeOrderRepo) markIf(orderNo int64, from, to order.Status) error {
	for _, o := range r.orders {
		if o.OrderNo != orderNo {
			continue
		}
		if o.Status != from {
			return order.ErrIllegalTransition
		}
		o.Status = to
		return nil
	}
	return order.ErrOrderNotFound
}

// fakePayInfoRepo 内存支付流水仓储
type fakePayInfoRepo struct {
	infos []*order.PayInfo
}

func (r *fakePayInfoRepo) Create(_ context.Context, info *order.PayInfo) error {
	r.infos = append(r.infos, info)
	return nil
}

func (r *fakePayInfoRepo) ListByOrderNo(_ context.Context, orderNo int64) ([]*order.PayInfo, error) {
	var out []*order.PayInfo
	for _, pi := range r.infos {
		if pi.OrderNo == orderNo {
			out = append(out, pi)
		}
	}
	return out, nil
}

// fakeVerifier 假验签器
type fakeVerifier struct {
	fail bool
}

func (v *fakeVerifier) VerifySignature(_ map[string]string, _ string) error {
	if v.fail {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

// fakeTx 直通事务（回调各失败分支都在首次写入前返回，无需快照回滚）
type fakeTx struct{}

func (t *fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type callbackEnv struct {
	orderRepo   *fakeOrderRepo
	payInfoRepo *fakePayInfoRepo
	verifier    *fakeVerifier
	uc          *CallbackUseCase
}

func newCallbackEnv() *callbackEnv {
	env := &callbackEnv{
		orderRepo:   &fakeOrderRepo{},
		payInfoRepo: &fakePayInfoRepo{},
		verifier:    &fakeVerifier{},
	}
	env.uc = NewCallbackUseCase(
		env.orderRepo, env.payInfoRepo, env.verifier, nil, &fakeTx{}, nil)
	return env
}

func (e *callbackEnv) seedNoPayOrder(orderNo int64, payment int64) *order.Order {
	o := &order.Order{OrderNo: orderNo, UserID: 100, Payment: payment, Status: order.StatusNoPay}
	e.orderRepo.orders = append(e.orderRepo.orders, o)
	return o
}

// successParams 一条合法的TRADE_SUCCESS通知
func successParams(outTradeNo string) map[string]string {
	return map[string]string{
		"out_trade_no": outTradeNo,
		"trade_no":     "2026082922001400001234567890",
		"trade_status": TradeStatusSuccess,
		"total_amount": "27.50",
		"gmt_payment":  "2026-08-29 12:30:45",
		"sign":         "fake-sign",
	}
}

func TestCallbackTradeSuccess(t *testing.T) {
	env := newCallbackEnv()
	env.seedNoPayOrder(1001, 2750)

	err := env.uc.Execute(context.Background(), successParams("1001"))
	require.NoError(t, err, "合法回调应应答success")

	o, err := env.orderRepo.FindByOrderNo(context.Background(), 1001)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, o.Status)
	require.NotNil(t, o.PaymentTime)
	assert.Equal(t, "2026-08-29 12:30:45", o.PaymentTime.Format("2006-01-02 15:04:05"),
		"支付时间应取回调里的gmt_payment")

	infos, err := env.payInfoRepo.ListByOrderNo(context.Background(), 1001)
	require.NoError(t, err)
	require.Len(t, infos, 1, "应落一条支付流水")
	assert.Equal(t, "2026082922001400001234567890", infos[0].PlatformNumber)
	assert.Equal(t, TradeStatusSuccess, infos[0].PlatformStatus)
	assert.Equal(t, order.PlatformAlipay, infos[0].PayPlatform)
}

func TestCallbackReplayIsIdempotent(t *testing.T) {
	env := newCallbackEnv()
	env.seedNoPayOrder(1001, 2750)

	require.NoError(t, env.uc.Execute(context.Background(), successParams("1001")))

	o, _ := env.orderRepo.FindByOrderNo(context.Background(), 1001)
	firstPaidAt := *o.PaymentTime

	// 支付宝重发同一条通知
	replay := successParams("1001")
	replay["gmt_payment"] = "2026-08-29 13:00:00"
	err := env.uc.Execute(context.Background(), replay)
	require.NoError(t, err, "重复通知也应答success，让支付宝停止重试")

	o, _ = env.orderRepo.FindByOrderNo(context.Background(), 1001)
	assert.Equal(t, order.StatusPaid, o.Status)
	assert.Equal(t, firstPaidAt, *o.PaymentTime, "支付时间不应被重复通知覆盖")

	infos, _ := env.payInfoRepo.ListByOrderNo(context.Background(), 1001)
	assert.Len(t, infos, 1, "重复通知不应重复落流水")
}

func TestCallbackBadSignature(t *testing.T) {
	env := newCallbackEnv()
	env.seedNoPayOrder(1001, 2750)
	env.verifier.fail = true

	err := env.uc.Execute(context.Background(), successParams("1001"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)

	o, _ := env.orderRepo.FindByOrderNo(context.Background(), 1001)
	assert.Equal(t, order.StatusNoPay, o.Status, "验签失败不应有任何状态变化")
	assert.Empty(t, env.payInfoRepo.infos)
}

func TestCallbackForeignOrder(t *testing.T) {
	env := newCallbackEnv()

	err := env.uc.Execute(context.Background(), successParams("99999"))
	assert.ErrorIs(t, err, order.ErrForeignOrder, "非本商店订单应答failure")
}

func TestCallbackInvalidOrderNo(t *testing.T) {
	env := newCallbackEnv()

	err := env.uc.Execute(context.Background(), successParams("not-a-number"))
	assert.Error(t, err)
}

func TestCallbackWaitBuyerPay(t *testing.T) {
	env := newCallbackEnv()
	env.seedNoPayOrder(1001, 2750)

	params := successParams("1001")
	params["trade_status"] = TradeStatusWaitBuyerPay
	delete(params, "gmt_payment")

	err := env.uc.Execute(context.Background(), params)
	require.NoError(t, err, "中间状态通知应答success")

	o, _ := env.orderRepo.FindByOrderNo(context.Background(), 1001)
	assert.Equal(t, order.StatusNoPay, o.Status, "中间状态不应转换订单状态")
	assert.Nil(t, o.PaymentTime)

	infos, _ := env.payInfoRepo.ListByOrderNo(context.Background(), 1001)
	require.Len(t, infos, 1, "中间状态也要落流水（审计）")
	assert.Equal(t, TradeStatusWaitBuyerPay, infos[0].PlatformStatus)
}

func TestCallbackAmountMismatch(t *testing.T) {
	env := newCallbackEnv()
	env.seedNoPayOrder(1001, 2750)

	params := successParams("1001")
	params["total_amount"] = "0.01"

	err := env.uc.Execute(context.Background(), params)
	assert.Error(t, err, "回调金额与订单不符应答failure")

	o, _ := env.orderRepo.FindByOrderNo(context.Background(), 1001)
	assert.Equal(t, order.StatusNoPay, o.Status)
	assert.Empty(t, env.payInfoRepo.infos)
}

func TestParseGmtPayment(t *testing.T) {
	t.Run("正常解析", func(t *testing.T) {
		got := parseGmtPayment("2026-08-29 12:30:45")
		assert.Equal(t, "2026-08-29 12:30:45", got.Format(gmtLayout))
	})

	t.Run("缺失退回当前时间", func(t *testing.T) {
		before := time.Now()
		got := parseGmtPayment("")
		assert.False(t, got.Before(before))
	})

	t.Run("格式错误退回当前时间", func(t *testing.T) {
		before := time.Now()
		got := parseGmtPayment("29/08/2026")
		assert.False(t, got.Before(before))
	})
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		fen  int64
		want string
	}{
		{2750, "27.50"},
		{100, "1.00"},
		{1, "0.01"},
		{0, "0.00"},
		{123456, "1234.56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAmount(tt.fen))
	}
}
