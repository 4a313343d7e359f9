package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/happymall/mall/internal/domain/product"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// productRepository 商品仓储实现（MySQL）
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) product.Repository {
	return &productRepository{db: db}
}

// Create 创建商品
func (r *productRepository) Create(ctx context.Context, p *product.Product) error {
	model := toProductModel(p)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建商品失败")
	}

	p.ID = model.ID
	return nil
}

// FindByID 按ID查询商品
func (r *productRepository) FindByID(ctx context.Context, id uint) (*product.Product, error) {
	var model ProductModel
	db := getDB(ctx, r.db)
	err := db.First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, product.ErrProductNotFound
		}
		return nil, apperrors.Wrap(err, "查询商品失败")
	}

	return toProductEntity(&model), nil
}

// List 商品列表（分页，可按名称模糊搜索）
func (r *productRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]*product.Product, int64, error) {
	var models []ProductModel
	var total int64

	db := getDB(ctx, r.db)
	query := db.Model(&ProductModel{}).Where("status = ?", product.StatusOnSale)

	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询商品列表失败")
	}

	products := make([]*product.Product, len(models))
	for i := range models {
		products[i] = toProductEntity(&models[i])
	}

	return products, total, nil
}

// DecreaseStock 条件扣减库存
// 设计说明：
// 单条语句原子完成校验+扣减：
//
//	UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?
//
// 不做"先SELECT再UPDATE"：两个并发事务可能读到同一库存值，
// 各自扣减后总扣减量超过实际库存（超卖）。条件更新下，
// 并发抢最后一件库存时只有一个UPDATE影响行数为1，其余返回库存不足。
func (r *productRepository) DecreaseStock(ctx context.Context, productID uint, quantity int) error {
	db := getDB(ctx, r.db)

	result := db.Model(&ProductModel{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrInsufficientStock
	}

	return nil
}

// IncreaseStock 回补库存（取消订单时调用）
func (r *productRepository) IncreaseStock(ctx context.Context, productID uint, quantity int) error {
	db := getDB(ctx, r.db)

	result := db.Model(&ProductModel{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "回补库存失败")
	}

	if result.RowsAffected == 0 {
		return product.ErrProductNotFound
	}

	return nil
}

// =========================================
// 辅助函数：模型转换
// =========================================

func toProductModel(p *product.Product) *ProductModel {
	return &ProductModel{
		ID:        p.ID,
		Name:      p.Name,
		Subtitle:  p.Subtitle,
		MainImage: p.MainImage,
		SubImages: p.SubImages,
		Detail:    p.Detail,
		Price:     p.Price,
		Stock:     p.Stock,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductEntity(model *ProductModel) *product.Product {
	return &product.Product{
		ID:        model.ID,
		Name:      model.Name,
		Subtitle:  model.Subtitle,
		MainImage: model.MainImage,
		SubImages: model.SubImages,
		Detail:    model.Detail,
		Price:     model.Price,
		Stock:     model.Stock,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
