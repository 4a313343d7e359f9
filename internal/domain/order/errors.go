package order

import (
	apperrors "github.com/happymall/mall/pkg/errors"
)

// 领域层错误定义
// 设计说明：领域层只暴露业务语义错误，基础设施层把数据库错误
// 翻译成这里的错误后再向上传递，应用层据此决定回滚与返回码。
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.ErrOrderNotFound

	// ErrIllegalTransition 当前状态不允许该操作
	// 条件状态更新影响0行且订单存在时返回
	ErrIllegalTransition = apperrors.ErrIllegalTransition

	// ErrEmptyCart 购物车中没有选中的商品
	ErrEmptyCart = apperrors.ErrEmptyCart

	// ErrForeignOrder 回调携带的订单号不属于本商店
	ErrForeignOrder = apperrors.ErrForeignOrder
)
