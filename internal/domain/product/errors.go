package product

import (
	apperrors "github.com/happymall/mall/pkg/errors"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = apperrors.ErrProductNotFound

	// ErrProductOffSale 商品已下架或删除
	ErrProductOffSale = apperrors.ErrProductOffSale

	// ErrInsufficientStock 库存不足（含条件扣减失败）
	ErrInsufficientStock = apperrors.ErrInsufficientStock
)
