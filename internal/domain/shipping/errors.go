package shipping

import (
	apperrors "github.com/happymall/mall/pkg/errors"
)

var (
	// ErrShippingNotFound 收货地址不存在（或不属于该用户）
	ErrShippingNotFound = apperrors.ErrShippingNotFound
)
