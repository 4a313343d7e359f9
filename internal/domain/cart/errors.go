package cart

import (
	apperrors "github.com/happymall/mall/pkg/errors"
)

var (
	// ErrCartItemNotFound 购物车记录不存在
	ErrCartItemNotFound = apperrors.ErrCartItemNotFound
)
