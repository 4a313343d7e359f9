package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/product"
	"github.com/happymall/mall/internal/domain/shipping"
)

// testEnv 下单用例测试环境：内存仓储 + 真实订单号生成器
type testEnv struct {
	store        *memStore
	orderRepo    *fakeOrderRepo
	productRepo  *fakeProductRepo
	cartRepo     *fakeCartRepo
	shippingRepo *fakeShippingRepo
	create       *CreateOrderUseCase
	cancel       *CancelOrderUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newMemStore()
	env := &testEnv{
		store:        store,
		orderRepo:    &fakeOrderRepo{store: store},
		productRepo:  &fakeProductRepo{store: store},
		cartRepo:     &fakeCartRepo{store: store},
		shippingRepo: &fakeShippingRepo{store: store},
	}

	noGen, err := order.NewNoGenerator(0)
	require.NoError(t, err)

	tx := &fakeTx{store: store}
	env.create = NewCreateOrderUseCase(
		env.orderRepo, env.productRepo, env.cartRepo, env.shippingRepo, noGen, tx, nil)
	env.cancel = NewCancelOrderUseCase(env.orderRepo, env.productRepo, tx, nil)

	// 用户100的收货地址
	store.shippings = append(store.shippings, &shipping.Shipping{
		ID: 1, UserID: 100, ReceiverName: "张三", Phone: "13800138000",
	})

	return env
}

func (e *testEnv) seedProduct(id uint, name string, price int64, stock, status int) {
	e.store.products[id] = &product.Product{
		ID: id, Name: name, MainImage: "image.jpg",
		Price: price, Stock: stock, Status: status,
	}
}

func (e *testEnv) seedCartItem(userID, productID uint, quantity, checked int) {
	e.store.cartItems = append(e.store.cartItems, &cart.Item{
		ID: uint(len(e.store.cartItems) + 1), UserID: userID,
		ProductID: productID, Quantity: quantity, Checked: checked,
	})
}

func TestCreateOrderSuccess(t *testing.T) {
	env := newTestEnv(t)
	// Go语言实战 10.00元×2 + 机械键盘 7.50元×1 = 27.50元
	env.seedProduct(1, "Go语言实战", 1000, 5, product.StatusOnSale)
	env.seedProduct(2, "机械键盘", 750, 3, product.StatusOnSale)
	env.seedCartItem(100, 1, 2, cart.Checked)
	env.seedCartItem(100, 2, 1, cart.Checked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(2750), o.Payment, "订单金额应该是10.00*2+7.50=27.50元")
	assert.Equal(t, order.StatusNoPay, o.Status)
	assert.Positive(t, o.OrderNo)
	require.Len(t, o.Items, 2)

	// 价格快照写入明细
	assert.Equal(t, "Go语言实战", o.Items[0].ProductName)
	assert.Equal(t, int64(1000), o.Items[0].CurrentUnitPrice)
	assert.Equal(t, int64(2000), o.Items[0].TotalPrice)
	assert.Equal(t, o.OrderNo, o.Items[0].OrderNo)

	// 库存已扣减
	assert.Equal(t, 3, env.store.products[1].Stock)
	assert.Equal(t, 2, env.store.products[2].Stock)

	// 已购的购物车行被清除
	assert.Empty(t, env.store.cartItems, "下单成功后购物车应清空已购条目")

	// 订单已持久化
	stored, err := env.orderRepo.FindByUserIDOrderNo(context.Background(), 100, o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNo, stored.OrderNo)
}

func TestCreateOrderOnlyCheckedLines(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "勾选商品", 1000, 5, product.StatusOnSale)
	env.seedProduct(2, "未勾选商品", 500, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 1, cart.Checked)
	env.seedCartItem(100, 2, 1, cart.Unchecked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), o.Payment, "未勾选的行不应参与结算")
	require.Len(t, o.Items, 1)
	assert.Equal(t, 5, env.store.products[2].Stock, "未勾选商品的库存不应变化")
	require.Len(t, env.store.cartItems, 1, "未勾选的行应留在购物车")
	assert.Equal(t, uint(2), env.store.cartItems[0].ProductID)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 2, cart.Unchecked) // 有行但没勾选

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	assert.ErrorIs(t, err, order.ErrEmptyCart)

	assert.Empty(t, env.store.orders, "下单失败不应产生订单")
	assert.Equal(t, 5, env.store.products[1].Stock, "下单失败不应扣库存")
	assert.Len(t, env.store.cartItems, 1, "下单失败不应动购物车")
}

func TestCreateOrderOffSaleRollsBack(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "在售商品", 1000, 5, product.StatusOnSale)
	env.seedProduct(2, "下架商品", 500, 5, product.StatusOffSale)
	env.seedCartItem(100, 1, 1, cart.Checked)
	env.seedCartItem(100, 2, 1, cart.Checked)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	assert.ErrorIs(t, err, product.ErrProductOffSale)

	// 全有或全无：一行下架，整单失败，无任何残留
	assert.Empty(t, env.store.orders)
	assert.Equal(t, 5, env.store.products[1].Stock)
	assert.Len(t, env.store.cartItems, 2)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "紧俏商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 8, cart.Checked) // 期望8件库存5件

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	assert.ErrorIs(t, err, product.ErrInsufficientStock)

	assert.Empty(t, env.store.orders)
	assert.Equal(t, 5, env.store.products[1].Stock, "库存不应被部分扣减")
}

// 库存清零后读取校正会把购物车行数量写成0，这种行不应拖垮整单
func TestCreateOrderSkipsZeroQuantityLines(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "售罄商品", 1000, 0, product.StatusOnSale)
	env.seedProduct(2, "正常商品", 500, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 0, cart.Checked) // 被校正清零的行
	env.seedCartItem(100, 2, 2, cart.Checked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(1000), o.Payment, "只有正常行参与结算")
	require.Len(t, o.Items, 1)
	assert.Equal(t, uint(2), o.Items[0].ProductID)
	assert.Equal(t, 3, env.store.products[2].Stock)

	// 零数量行留在购物车等补货，正常行已清除
	require.Len(t, env.store.cartItems, 1)
	assert.Equal(t, uint(1), env.store.cartItems[0].ProductID)
}

func TestCreateOrderAllLinesZeroQuantity(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "售罄商品", 1000, 0, product.StatusOnSale)
	env.seedCartItem(100, 1, 0, cart.Checked)

	_, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	assert.ErrorIs(t, err, order.ErrEmptyCart, "勾选的行全是零数量时视同空购物车")
	assert.Empty(t, env.store.orders)
}

func TestCreateOrderForeignShipping(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(200, 1, 1, cart.Checked)

	// 用户200试图使用用户100的地址ID=1
	_, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 200, ShippingID: 1})
	assert.ErrorIs(t, err, shipping.ErrShippingNotFound, "他人地址应视同不存在")
	assert.Empty(t, env.store.orders)
}

// 两个用户并发抢最后一件库存，只能有一单成功
func TestCreateOrderConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "最后一件", 1000, 1, product.StatusOnSale)
	env.seedCartItem(100, 1, 1, cart.Checked)
	env.seedCartItem(200, 1, 1, cart.Checked)
	env.store.shippings = append(env.store.shippings, &shipping.Shipping{ID: 2, UserID: 200})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	reqs := []CreateOrderRequest{
		{UserID: 100, ShippingID: 1},
		{UserID: 200, ShippingID: 2},
	}

	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.create.Execute(context.Background(), reqs[i])
		}(i)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, product.ErrInsufficientStock)
			failed++
		}
	}

	assert.Equal(t, 1, succeeded, "最后一件只能被一单买走")
	assert.Equal(t, 1, failed)
	assert.Len(t, env.store.orders, 1)
	assert.Equal(t, 0, env.store.products[1].Stock, "库存不应被扣成负数")
}

func TestCreateOrderUsesCurrentPrice(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "改价商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 1, cart.Checked)

	// 加购后商品涨价，结算按当前价而不是加购时的价
	env.store.products[1].Price = 1500

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1500), o.Payment, "结算必须使用商品当前价格")
	assert.Equal(t, int64(1500), o.Items[0].CurrentUnitPrice)
}

func TestCancelOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 2, cart.Checked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)
	require.Equal(t, 3, env.store.products[1].Stock)

	err = env.cancel.Execute(context.Background(), 100, o.OrderNo)
	require.NoError(t, err)

	stored, err := env.orderRepo.FindByOrderNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCanceled, stored.Status)
	assert.NotNil(t, stored.CloseTime, "取消后应记录关闭时间")
	assert.Equal(t, 5, env.store.products[1].Stock, "取消后库存应回补")
}

func TestCancelPaidOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 2, cart.Checked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)

	// 支付回调先到
	require.NoError(t, env.orderRepo.MarkPaid(context.Background(), o.OrderNo, time.Now()))

	err = env.cancel.Execute(context.Background(), 100, o.OrderNo)
	assert.ErrorIs(t, err, order.ErrIllegalTransition, "已支付订单不允许取消")

	stored, err := env.orderRepo.FindByOrderNo(context.Background(), o.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status)
	assert.Equal(t, 3, env.store.products[1].Stock, "取消失败不应回补库存")
}

func TestCancelForeignOrder(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct(1, "商品", 1000, 5, product.StatusOnSale)
	env.seedCartItem(100, 1, 1, cart.Checked)

	o, err := env.create.Execute(context.Background(), CreateOrderRequest{UserID: 100, ShippingID: 1})
	require.NoError(t, err)

	// 用户200试图取消用户100的订单
	err = env.cancel.Execute(context.Background(), 200, o.OrderNo)
	assert.ErrorIs(t, err, order.ErrOrderNotFound, "他人订单应视同不存在")
}
