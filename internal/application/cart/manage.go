package cart

import (
	"context"
	"errors"
	"time"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/product"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// ManageUseCase 购物车写操作用例（加购、改数量、删除、勾选）
type ManageUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewManageUseCase 创建购物车管理用例
func NewManageUseCase(cartRepo cart.Repository, productRepo product.Repository) *ManageUseCase {
	return &ManageUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Add 加购商品
// 同一商品重复加购合并数量；只允许加购在售商品
func (uc *ManageUseCase) Add(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	}

	p, err := uc.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsOnSale() {
		return product.ErrProductOffSale
	}

	existing, err := uc.cartRepo.FindByUserIDProductID(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, cart.ErrCartItemNotFound) {
			now := time.Now()
			return uc.cartRepo.Save(ctx, &cart.Item{
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
				Checked:   cart.Checked, // 新加购默认勾选
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		return err
	}

	existing.Quantity += quantity
	existing.UpdatedAt = time.Now()
	return uc.cartRepo.Save(ctx, existing)
}

// UpdateQuantity 修改商品数量（覆盖式，不是累加）
func (uc *ManageUseCase) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
	}
	return uc.cartRepo.UpdateQuantity(ctx, userID, productID, quantity)
}

// Delete 删除若干商品
func (uc *ManageUseCase) Delete(ctx context.Context, userID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "请指定要删除的商品")
	}
	return uc.cartRepo.DeleteByUserIDProductIDs(ctx, userID, productIDs)
}

// SetChecked 设置单个商品的勾选状态
func (uc *ManageUseCase) SetChecked(ctx context.Context, userID, productID uint, checked bool) error {
	v := cart.Unchecked
	if checked {
		v = cart.Checked
	}
	return uc.cartRepo.UpdateChecked(ctx, userID, productID, v)
}

// SetCheckedAll 全选/全不选
func (uc *ManageUseCase) SetCheckedAll(ctx context.Context, userID uint, checked bool) error {
	v := cart.Unchecked
	if checked {
		v = cart.Checked
	}
	return uc.cartRepo.UpdateCheckedAll(ctx, userID, v)
}

// Count 购物车商品总件数（导航栏角标）
func (uc *ManageUseCase) Count(ctx context.Context, userID uint) (int64, error) {
	return uc.cartRepo.CountByUserID(ctx, userID)
}
