package order

import (
	"context"
	"sync"
	"time"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/product"
	"github.com/happymall/mall/internal/domain/shipping"
)

// memStore 内存数据存储，供各个假仓储共享
// 事务语义由fakeTx提供：进入事务时打快照，fn返回错误则恢复快照
type memStore struct {
	mu        sync.Mutex
	orders    []*order.Order
	payInfos  []*order.PayInfo
	products  map[uint]*product.Product
	cartItems []*cart.Item
	shippings []*shipping.Shipping
}

func newMemStore() *memStore {
	return &memStore{products: make(map[uint]*product.Product)}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for _, o := range s.orders {
		co := *o
		co.Items = append([]order.Item(nil), o.Items...)
		c.orders = append(c.orders, &co)
	}
	for _, pi := range s.payInfos {
		cp := *pi
		c.payInfos = append(c.payInfos, &cp)
	}
	for _, it := range s.cartItems {
		ci := *it
		c.cartItems = append(c.cartItems, &ci)
	}
	// shippings不参与快照：事务内不修改收货地址
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.orders = snap.orders
	s.payInfos = snap.payInfos
	s.products = snap.products
	s.cartItems = snap.cartItems
}

// fakeTx 内存事务管理器：串行化事务，失败时回滚到快照
type fakeTx struct {
	store *memStore
}

func (t *fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	snap := t.store.clone()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// fakeOrderRepo 内存订单仓储，状态变更模拟条件UPDATE的语义
type fakeOrderRepo struct {
	store *memStore
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	o.ID = uint(len(r.store.orders) + 1)
	r.store.orders = append(r.store.orders, o)
	return nil
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo int64) (*order.Order, error) {
	for _, o := range r.store.orders {
		if o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) FindByUserIDOrderNo(_ context.Context, userID uint, orderNo int64) (*order.Order, error) {
	for _, o := range r.store.orders {
		if o.UserID == userID && o.OrderNo == orderNo {
			return o, nil
		}
	}
	return nil, order.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uint, _, _ int) ([]*order.Order, int64, error) {
	var out []*order.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) List(_ context.Context, query order.ListQuery) ([]*order.Order, int64, error) {
	var out []*order.Order
	for _, o := range r.store.orders {
		if query.OrderNo != 0 && o.OrderNo != query.OrderNo {
			continue
		}
		if query.HasStat && o.Status != query.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

// markIf 条件状态更新：WHERE order_no = ? AND status = ? 的内存版
func (r *fakeOrderRepo) markIf(orderNo int64, from, to order.Status, apply func(o *order.Order)) error {
	for _, o := range r.store.orders {
		if o.OrderNo != orderNo {
			continue
		}
		if o.Status != from {
			return order.ErrIllegalTransition
		}
		o.Status = to
		o.UpdatedAt = time.Now()
		apply(o)
		return nil
	}
	return order.ErrOrderNotFound
}

func (r *fakeOrderRepo) MarkCanceled(_ context.Context, orderNo int64, closeTime time.Time) error {
	return r.markIf(orderNo, order.StatusNoPay, order.StatusCanceled, func(o *order.Order) {
		o.CloseTime = &closeTime
	})
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderNo int64, paymentTime time.Time) error {
	return r.markIf(orderNo, order.StatusNoPay, order.StatusPaid, func(o *order.Order) {
		o.PaymentTime = &paymentTime
	})
}

func (r *fakeOrderRepo) MarkShipped(_ context.Context, orderNo int64, sendTime time.Time) error {
	return r.markIf(orderNo, order.StatusPaid, order.StatusShipped, func(o *order.Order) {
		o.SendTime = &sendTime
	})
}

// fakePayInfoRepo 内存支付流水仓储
type fakePayInfoRepo struct {
	store *memStore
}

func (r *fakePayInfoRepo) Create(_ context.Context, info *order.PayInfo) error {
	info.ID = uint(len(r.store.payInfos) + 1)
	r.store.payInfos = append(r.store.payInfos, info)
	return nil
}

func (r *fakePayInfoRepo) ListByOrderNo(_ context.Context, orderNo int64) ([]*order.PayInfo, error) {
	var out []*order.PayInfo
	for _, pi := range r.store.payInfos {
		if pi.OrderNo == orderNo {
			out = append(out, pi)
		}
	}
	return out, nil
}

// fakeProductRepo 内存商品仓储，扣库存保持条件扣减语义
type fakeProductRepo struct {
	store *memStore
}

func (r *fakeProductRepo) Create(_ context.Context, p *product.Product) error {
	r.store.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ string, _, _ int) ([]*product.Product, int64, error) {
	var out []*product.Product
	for _, p := range r.store.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) DecreaseStock(_ context.Context, productID uint, quantity int) error {
	p, ok := r.store.products[productID]
	if !ok || p.Stock < quantity {
		return product.ErrInsufficientStock
	}
	p.Stock -= quantity
	return nil
}

func (r *fakeProductRepo) IncreaseStock(_ context.Context, productID uint, quantity int) error {
	if p, ok := r.store.products[productID]; ok {
		p.Stock += quantity
	}
	return nil
}

// fakeCartRepo 内存购物车仓储
type fakeCartRepo struct {
	store *memStore
}

func (r *fakeCartRepo) ListByUserID(_ context.Context, userID uint) ([]*cart.Item, error) {
	var out []*cart.Item
	for _, it := range r.store.cartItems {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) ListCheckedByUserID(_ context.Context, userID uint) ([]*cart.Item, error) {
	var out []*cart.Item
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.Checked == cart.Checked {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) FindByUserIDProductID(_ context.Context, userID, productID uint) (*cart.Item, error) {
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return nil, cart.ErrCartItemNotFound
}

func (r *fakeCartRepo) Save(_ context.Context, item *cart.Item) error {
	for i, it := range r.store.cartItems {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			r.store.cartItems[i] = item
			return nil
		}
	}
	r.store.cartItems = append(r.store.cartItems, item)
	return nil
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, userID, productID uint, quantity int) error {
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			it.Quantity = quantity
		}
	}
	return nil
}

func (r *fakeCartRepo) UpdateChecked(_ context.Context, userID, productID uint, checked int) error {
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.ProductID == productID {
			it.Checked = checked
		}
	}
	return nil
}

func (r *fakeCartRepo) UpdateCheckedAll(_ context.Context, userID uint, checked int) error {
	for _, it := range r.store.cartItems {
		if it.UserID == userID {
			it.Checked = checked
		}
	}
	return nil
}

func (r *fakeCartRepo) DeleteByUserIDProductIDs(_ context.Context, userID uint, productIDs []uint) error {
	keep := r.store.cartItems[:0]
	for _, it := range r.store.cartItems {
		deleted := false
		if it.UserID == userID {
			for _, pid := range productIDs {
				if it.ProductID == pid {
					deleted = true
					break
				}
			}
		}
		if !deleted {
			keep = append(keep, it)
		}
	}
	r.store.cartItems = keep
	return nil
}

func (r *fakeCartRepo) CountByUserID(_ context.Context, userID uint) (int64, error) {
	var total int64
	for _, it := range r.store.cartItems {
		if it.UserID == userID {
			total += int64(it.Quantity)
		}
	}
	return total, nil
}

func (r *fakeCartRepo) CountUncheckedByUserID(_ context.Context, userID uint) (int64, error) {
	var n int64
	for _, it := range r.store.cartItems {
		if it.UserID == userID && it.Checked == cart.Unchecked {
			n++
		}
	}
	return n, nil
}

// fakeShippingRepo 内存收货地址仓储
type fakeShippingRepo struct {
	store *memStore
}

func (r *fakeShippingRepo) Create(_ context.Context, s *shipping.Shipping) error {
	s.ID = uint(len(r.store.shippings) + 1)
	r.store.shippings = append(r.store.shippings, s)
	return nil
}

func (r *fakeShippingRepo) FindByUserIDAndID(_ context.Context, userID, id uint) (*shipping.Shipping, error) {
	for _, s := range r.store.shippings {
		if s.UserID == userID && s.ID == id {
			return s, nil
		}
	}
	return nil, shipping.ErrShippingNotFound
}

func (r *fakeShippingRepo) ListByUserID(_ context.Context, userID uint) ([]*shipping.Shipping, error) {
	var out []*shipping.Shipping
	for _, s := range r.store.shippings {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}
