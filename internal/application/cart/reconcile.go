package cart

import (
	"context"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/product"
)

// 库存校正标记（返回给前端，提示数量被调整过）
const (
	LimitQuantitySuccess = "LIMIT_NUM_SUCCESS" // 期望数量可满足
	LimitQuantityFail    = "LIMIT_NUM_FAIL"    // 库存不足，数量已调整为当前库存
)

// ProductLine 购物车行视图（购物车行 + 商品当前信息）
// 购物车不存价格快照，这里的价格、库存都是实时读取的
type ProductLine struct {
	CartItemID  uint
	ProductID   uint
	Name        string
	Subtitle    string
	MainImage   string
	Price       int64 // 当前单价（分）
	Stock       int   // 当前库存
	Quantity    int   // 校正后的数量
	LineTotal   int64 // Price × Quantity（分）
	Checked     bool
	Buyable     bool   // 商品在售才可购买
	LimitStatus string // 库存校正标记
}

// View 购物车整体视图
type View struct {
	Lines      []ProductLine
	TotalPrice int64 // 勾选且可购买行的合计（分）
	AllChecked bool
}

// ReconcileUseCase 购物车读取+库存校正用例
//
// 设计说明：
// 购物车里存的是"期望数量"，商品库存随时在变。每次读取购物车时
// 把数量和当前库存对齐：
// 1. 库存 >= 期望数量：按期望数量展示，标记LIMIT_NUM_SUCCESS
// 2. 库存 < 期望数量：按当前库存展示，把校正结果写回购物车，
//    标记LIMIT_NUM_FAIL（用户刷新后看到的就是可下单的数量）
// 3. 商品下架/删除：行保留展示但标记不可购买，不计入合计
type ReconcileUseCase struct {
	cartRepo    cart.Repository
	productRepo product.Repository
}

// NewReconcileUseCase 创建购物车读取用例
func NewReconcileUseCase(cartRepo cart.Repository, productRepo product.Repository) *ReconcileUseCase {
	return &ReconcileUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Execute 读取购物车（含库存校正）
func (uc *ReconcileUseCase) Execute(ctx context.Context, userID uint) (*View, error) {
	items, err := uc.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: make([]ProductLine, 0, len(items))}

	for _, item := range items {
		p, err := uc.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if err == product.ErrProductNotFound {
				// 商品已物理删除，行保留但不可购买
				view.Lines = append(view.Lines, ProductLine{
					CartItemID: item.ID,
					ProductID:  item.ProductID,
					Quantity:   item.Quantity,
					Checked:    item.IsChecked(),
					Buyable:    false,
				})
				continue
			}
			return nil, err
		}

		line := ProductLine{
			CartItemID: item.ID,
			ProductID:  p.ID,
			Name:       p.Name,
			Subtitle:   p.Subtitle,
			MainImage:  p.MainImage,
			Price:      p.Price,
			Stock:      p.Stock,
			Checked:    item.IsChecked(),
			Buyable:    p.IsOnSale(),
		}

		// 库存校正
		if p.Stock >= item.Quantity {
			line.Quantity = item.Quantity
			line.LimitStatus = LimitQuantitySuccess
		} else {
			line.Quantity = p.Stock
			line.LimitStatus = LimitQuantityFail
			// 校正结果写回购物车，下次读取直接是可下单数量
			if err := uc.cartRepo.UpdateQuantity(ctx, userID, p.ID, p.Stock); err != nil {
				return nil, err
			}
		}

		line.LineTotal = line.Price * int64(line.Quantity)

		// 合计只算勾选且可购买的行
		if line.Checked && line.Buyable {
			view.TotalPrice += line.LineTotal
		}

		view.Lines = append(view.Lines, line)
	}

	// 零条未勾选行即全选，空购物车也不例外
	unchecked, err := uc.cartRepo.CountUncheckedByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view.AllChecked = unchecked == 0

	return view, nil
}
