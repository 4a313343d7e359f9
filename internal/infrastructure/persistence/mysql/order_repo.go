package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/happymall/mall/internal/domain/order"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// orderRepository 订单仓储实现（MySQL）
// 设计说明：
// 1. Order和OrderItem是聚合关系，创建时一起保存
// 2. 查询时使用Preload预加载明细，避免N+1
// 3. 状态转换全部用条件UPDATE（WHERE order_no = ? AND status = 前置状态），
//    由数据库原子完成校验+更新，并发重复请求只有一个生效
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单（含明细，须在事务内调用）
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订单失败")
	}

	// 回填自增ID
	o.ID = model.ID
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
	}

	return nil
}

// FindByOrderNo 根据订单号查找订单
func (r *orderRepository) FindByOrderNo(ctx context.Context, orderNo int64) (*order.Order, error) {
	var model OrderModel
	db := getDB(ctx, r.db)
	err := db.Preload("Items").Where("order_no = ?", orderNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// FindByUserIDOrderNo 按用户+订单号查找（买家侧接口的归属校验）
func (r *orderRepository) FindByUserIDOrderNo(ctx context.Context, userID uint, orderNo int64) (*order.Order, error) {
	var model OrderModel
	db := getDB(ctx, r.db)
	err := db.Preload("Items").
		Where("user_id = ? AND order_no = ?", userID, orderNo).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	return toOrderEntity(&model), nil
}

// ListByUserID 查询用户的订单列表（分页，含明细）
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&OrderModel{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// List 管理后台订单列表（可按订单号/状态过滤）
func (r *orderRepository) List(ctx context.Context, q order.ListQuery) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&OrderModel{})

	if q.OrderNo != 0 {
		query = query.Where("order_no = ?", q.OrderNo)
	}
	if q.HasStat {
		query = query.Where("status = ?", int(q.Status))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单总数失败")
	}

	offset := (q.Page - 1) * q.PageSize
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(q.PageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询订单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// MarkCanceled 取消订单：NoPay → Canceled
func (r *orderRepository) MarkCanceled(ctx context.Context, orderNo int64, closeTime time.Time) error {
	return r.conditionalTransition(ctx, orderNo, order.StatusNoPay, map[string]interface{}{
		"status":     int(order.StatusCanceled),
		"close_time": closeTime,
		"updated_at": time.Now(),
	})
}

// MarkPaid 确认支付：NoPay → Paid（回调幂等依赖此条件更新）
func (r *orderRepository) MarkPaid(ctx context.Context, orderNo int64, paymentTime time.Time) error {
	return r.conditionalTransition(ctx, orderNo, order.StatusNoPay, map[string]interface{}{
		"status":       int(order.StatusPaid),
		"payment_time": paymentTime,
		"updated_at":   time.Now(),
	})
}

// MarkShipped 发货：Paid → Shipped
func (r *orderRepository) MarkShipped(ctx context.Context, orderNo int64, sendTime time.Time) error {
	return r.conditionalTransition(ctx, orderNo, order.StatusPaid, map[string]interface{}{
		"status":     int(order.StatusShipped),
		"send_time":  sendTime,
		"updated_at": time.Now(),
	})
}

// conditionalTransition 条件状态转换
// UPDATE orders SET ... WHERE order_no = ? AND status = ?
// 影响0行时再查一次订单，区分"订单不存在"和"状态不符"
func (r *orderRepository) conditionalTransition(ctx context.Context, orderNo int64, from order.Status, updates map[string]interface{}) error {
	db := getDB(ctx, r.db)

	result := db.Model(&OrderModel{}).
		Where("order_no = ? AND status = ?", orderNo, int(from)).
		Updates(updates)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单状态失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderModel{}).Where("order_no = ?", orderNo).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询订单失败")
		}
		if count == 0 {
			return order.ErrOrderNotFound
		}
		return order.ErrIllegalTransition
	}

	return nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:               item.ID,
			UserID:           item.UserID,
			OrderNo:          item.OrderNo,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductImage:     item.ProductImage,
			CurrentUnitPrice: item.CurrentUnitPrice,
			Quantity:         item.Quantity,
			TotalPrice:       item.TotalPrice,
			CreatedAt:        item.CreatedAt,
		}
	}

	return &OrderModel{
		ID:          o.ID,
		OrderNo:     o.OrderNo,
		UserID:      o.UserID,
		ShippingID:  o.ShippingID,
		Payment:     o.Payment,
		PaymentType: o.PaymentType,
		Postage:     o.Postage,
		Status:      int(o.Status),
		PaymentTime: o.PaymentTime,
		SendTime:    o.SendTime,
		EndTime:     o.EndTime,
		CloseTime:   o.CloseTime,
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel) *order.Order {
	items := make([]order.Item, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.Item{
			ID:               item.ID,
			UserID:           item.UserID,
			OrderNo:          item.OrderNo,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductImage:     item.ProductImage,
			CurrentUnitPrice: item.CurrentUnitPrice,
			Quantity:         item.Quantity,
			TotalPrice:       item.TotalPrice,
			CreatedAt:        item.CreatedAt,
		}
	}

	return &order.Order{
		ID:          model.ID,
		OrderNo:     model.OrderNo,
		UserID:      model.UserID,
		ShippingID:  model.ShippingID,
		Payment:     model.Payment,
		PaymentType: model.PaymentType,
		Postage:     model.Postage,
		Status:      order.Status(model.Status),
		PaymentTime: model.PaymentTime,
		SendTime:    model.SendTime,
		EndTime:     model.EndTime,
		CloseTime:   model.CloseTime,
		Items:       items,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
