package order

import (
	"context"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/product"
)

// PreviewItem 结算预览行
type PreviewItem struct {
	ProductID    uint
	ProductName  string
	ProductImage string
	UnitPrice    int64 // 当前单价（分）
	Quantity     int
	TotalPrice   int64
}

// Preview 结算预览（确认订单页）
type Preview struct {
	Items      []PreviewItem
	TotalPrice int64 // 合计（分）
}

// CheckoutPreviewUseCase 结算预览用例
// 展示"即将按什么价格、什么数量下单"，只读不落库。
// 校验口径与下单一致：有行下架或库存不足直接报错，
// 让用户回购物车处理，而不是在下单时才失败
type CheckoutPreviewUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewCheckoutPreviewUseCase 创建结算预览用例
func NewCheckoutPreviewUseCase(cartRepo cart.Repository, productRepo product.Repository) *CheckoutPreviewUseCase {
	return &CheckoutPreviewUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Execute 生成结算预览
func (uc *CheckoutPreviewUseCase) Execute(ctx context.Context, userID uint) (*Preview, error) {
	cartItems, err := uc.cartRepo.ListCheckedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, order.ErrEmptyCart
	}

	preview := &Preview{Items: make([]PreviewItem, 0, len(cartItems))}

	for _, ci := range cartItems {
		// 与下单口径一致：被库存校正清零的行不参与结算
		if ci.Quantity <= 0 {
			continue
		}

		p, err := uc.productRepo.FindByID(ctx, ci.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsOnSale() {
			return nil, product.ErrProductOffSale
		}
		if p.Stock < ci.Quantity {
			return nil, product.ErrInsufficientStock
		}

		total := p.Price * int64(ci.Quantity)
		preview.Items = append(preview.Items, PreviewItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			ProductImage: p.MainImage,
			UnitPrice:    p.Price,
			Quantity:     ci.Quantity,
			TotalPrice:   total,
		})
		preview.TotalPrice += total
	}

	if len(preview.Items) == 0 {
		return nil, order.ErrEmptyCart
	}

	return preview, nil
}
