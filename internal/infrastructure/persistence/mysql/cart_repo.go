package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/happymall/mall/internal/domain/cart"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// cartRepository 购物车仓储实现（MySQL）
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// ListByUserID 查询用户全部购物车条目
func (r *cartRepository) ListByUserID(ctx context.Context, userID uint) ([]*cart.Item, error) {
	var models []CartItemModel
	db := getDB(ctx, r.db)
	err := db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartItemEntities(models), nil
}

// ListCheckedByUserID 查询用户已勾选的条目
func (r *cartRepository) ListCheckedByUserID(ctx context.Context, userID uint) ([]*cart.Item, error) {
	var models []CartItemModel
	db := getDB(ctx, r.db)
	err := db.Where("user_id = ? AND checked = ?", userID, cart.Checked).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartItemEntities(models), nil
}

// FindByUserIDProductID 查询某商品的购物车条目
func (r *cartRepository) FindByUserIDProductID(ctx context.Context, userID, productID uint) (*cart.Item, error) {
	var model CartItemModel
	db := getDB(ctx, r.db)
	err := db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	return toCartItemEntity(&model), nil
}

// Save 新增或更新购物车条目
func (r *cartRepository) Save(ctx context.Context, item *cart.Item) error {
	model := toCartItemModel(item)

	db := getDB(ctx, r.db)
	if err := db.Save(model).Error; err != nil {
		return apperrors.Wrap(err, "保存购物车失败")
	}

	item.ID = model.ID
	return nil
}

// UpdateQuantity 更新条目数量（库存校正持久化也走这里）
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	db := getDB(ctx, r.db)

	result := db.Model(&CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车数量失败")
	}

	// RowsAffected按匹配行数统计（DSN开启clientFoundRows），
	// 同值更新不会误判为记录不存在
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}

	return nil
}

// UpdateChecked 更新单个商品勾选状态
func (r *cartRepository) UpdateChecked(ctx context.Context, userID, productID uint, checked int) error {
	db := getDB(ctx, r.db)

	result := db.Model(&CartItemModel{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("checked", checked)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新勾选状态失败")
	}

	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}

	return nil
}

// UpdateCheckedAll 全选/全不选
func (r *cartRepository) UpdateCheckedAll(ctx context.Context, userID uint, checked int) error {
	db := getDB(ctx, r.db)

	err := db.Model(&CartItemModel{}).
		Where("user_id = ?", userID).
		Update("checked", checked).Error

	if err != nil {
		return apperrors.Wrap(err, "更新勾选状态失败")
	}

	return nil
}

// DeleteByUserIDProductIDs 删除用户的若干条目
func (r *cartRepository) DeleteByUserIDProductIDs(ctx context.Context, userID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}

	db := getDB(ctx, r.db)
	err := db.Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&CartItemModel{}).Error

	if err != nil {
		return apperrors.Wrap(err, "删除购物车条目失败")
	}

	return nil
}

// CountByUserID 统计用户购物车商品总件数（Σ quantity）
func (r *cartRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count *int64
	db := getDB(ctx, r.db)

	// SUM对空集返回NULL，用指针接收再判空
	err := db.Model(&CartItemModel{}).
		Where("user_id = ?", userID).
		Select("SUM(quantity)").
		Scan(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计购物车失败")
	}

	if count == nil {
		return 0, nil
	}
	return *count, nil
}

// CountUncheckedByUserID 统计未勾选条目数
func (r *cartRepository) CountUncheckedByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	db := getDB(ctx, r.db)

	err := db.Model(&CartItemModel{}).
		Where("user_id = ? AND checked = ?", userID, cart.Unchecked).
		Count(&count).Error

	if err != nil {
		return 0, apperrors.Wrap(err, "统计购物车失败")
	}

	return count, nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toCartItemModel(item *cart.Item) *CartItemModel {
	return &CartItemModel{
		ID:        item.ID,
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		Checked:   item.Checked,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toCartItemEntity(model *CartItemModel) *cart.Item {
	return &cart.Item{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		Quantity:  model.Quantity,
		Checked:   model.Checked,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toCartItemEntities(models []CartItemModel) []*cart.Item {
	items := make([]*cart.Item, len(models))
	for i := range models {
		items[i] = toCartItemEntity(&models[i])
	}
	return items
}
