package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happymall/mall/internal/domain/cart"
	"github.com/happymall/mall/internal/domain/product"
)

func TestManageAdd(t *testing.T) {
	newRepos := func() (*fakeCartRepo, *fakeProductRepo) {
		return &fakeCartRepo{}, &fakeProductRepo{products: map[uint]*product.Product{
			1: {ID: 1, Name: "Go语言实战", Price: 1000, Stock: 10, Status: product.StatusOnSale},
			2: {ID: 2, Name: "下架商品", Price: 500, Stock: 10, Status: product.StatusOffSale},
		}}
	}

	t.Run("新加购默认勾选", func(t *testing.T) {
		cartRepo, productRepo := newRepos()
		uc := NewManageUseCase(cartRepo, productRepo)

		err := uc.Add(context.Background(), 100, 1, 2)
		require.NoError(t, err)

		item, err := cartRepo.FindByUserIDProductID(context.Background(), 100, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, cart.Checked, item.Checked, "新加购的商品应默认勾选")
	})

	t.Run("重复加购合并数量", func(t *testing.T) {
		cartRepo, productRepo := newRepos()
		uc := NewManageUseCase(cartRepo, productRepo)

		require.NoError(t, uc.Add(context.Background(), 100, 1, 2))
		require.NoError(t, uc.Add(context.Background(), 100, 1, 3))

		item, err := cartRepo.FindByUserIDProductID(context.Background(), 100, 1)
		require.NoError(t, err)
		assert.Equal(t, 5, item.Quantity, "同一商品重复加购应合并为2+3=5件")

		count, err := uc.Count(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, int64(5), count)
	})

	t.Run("下架商品不允许加购", func(t *testing.T) {
		cartRepo, productRepo := newRepos()
		uc := NewManageUseCase(cartRepo, productRepo)

		err := uc.Add(context.Background(), 100, 2, 1)
		assert.ErrorIs(t, err, product.ErrProductOffSale)
		assert.Empty(t, cartRepo.items, "加购失败不应留下购物车行")
	})

	t.Run("数量必须大于0", func(t *testing.T) {
		cartRepo, productRepo := newRepos()
		uc := NewManageUseCase(cartRepo, productRepo)

		assert.Error(t, uc.Add(context.Background(), 100, 1, 0))
		assert.Error(t, uc.Add(context.Background(), 100, 1, -3))
	})
}

func TestManageUpdateQuantityOverwrites(t *testing.T) {
	cartRepo := &fakeCartRepo{items: []*cart.Item{
		{ID: 1, UserID: 100, ProductID: 1, Quantity: 2, Checked: cart.Checked},
	}}
	productRepo := &fakeProductRepo{products: map[uint]*product.Product{
		1: {ID: 1, Price: 1000, Stock: 10, Status: product.StatusOnSale},
	}}
	uc := NewManageUseCase(cartRepo, productRepo)

	require.NoError(t, uc.UpdateQuantity(context.Background(), 100, 1, 7))

	item, err := cartRepo.FindByUserIDProductID(context.Background(), 100, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity, "修改数量是覆盖式而非累加")
}

func TestManageCheckedFlow(t *testing.T) {
	cartRepo := &fakeCartRepo{items: []*cart.Item{
		{ID: 1, UserID: 100, ProductID: 1, Quantity: 1, Checked: cart.Checked},
		{ID: 2, UserID: 100, ProductID: 2, Quantity: 1, Checked: cart.Checked},
	}}
	productRepo := &fakeProductRepo{products: map[uint]*product.Product{}}
	uc := NewManageUseCase(cartRepo, productRepo)

	require.NoError(t, uc.SetChecked(context.Background(), 100, 1, false))
	unchecked, err := cartRepo.CountUncheckedByUserID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unchecked)

	require.NoError(t, uc.SetCheckedAll(context.Background(), 100, true))
	unchecked, err = cartRepo.CountUncheckedByUserID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unchecked, "全选后不应有未勾选行")
}
