package product

import (
	"context"

	"github.com/happymall/mall/internal/domain/product"
)

// CatalogUseCase 商品目录用例（列表、详情、后台上架）
type CatalogUseCase struct {
	productRepo product.Repository
}

// NewCatalogUseCase 创建商品目录用例
func NewCatalogUseCase(productRepo product.Repository) *CatalogUseCase {
	return &CatalogUseCase{productRepo: productRepo}
}

// List 在售商品列表（分页，可按名称模糊搜索）
func (uc *CatalogUseCase) List(ctx context.Context, keyword string, page, pageSize int) ([]*product.Product, int64, error) {
	return uc.productRepo.List(ctx, keyword, page, pageSize)
}

// Detail 商品详情
// 下架商品详情页返回下架错误（购物车/订单里的快照不受影响）
func (uc *CatalogUseCase) Detail(ctx context.Context, id uint) (*product.Product, error) {
	p, err := uc.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsOnSale() {
		return nil, product.ErrProductOffSale
	}
	return p, nil
}

// Create 新建商品（管理后台）
func (uc *CatalogUseCase) Create(ctx context.Context, p *product.Product) error {
	return uc.productRepo.Create(ctx, p)
}
