package payment

import (
	"context"
	"fmt"

	"github.com/happymall/mall/internal/domain/order"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// PrecreateClient 预下单接口
// 支付宝实现在infrastructure/alipay，返回收款二维码内容
type PrecreateClient interface {
	// Precreate 向支付平台预下单
	// totalAmount以分为单位；返回二维码内容（URL字符串）
	Precreate(ctx context.Context, orderNo int64, subject string, totalAmount int64) (string, error)
}

// PrecreateResult 预下单结果
type PrecreateResult struct {
	OrderNo int64  `json:"order_no"`
	QRCode  string `json:"qr_code"` // 二维码内容，前端自行渲染成图片
}

// PrecreateUseCase 支付预下单用例
// 买家在订单页点"去支付"，生成该订单的收款二维码
type PrecreateUseCase struct {
	orderRepo order.Repository
	client    PrecreateClient
}

// NewPrecreateUseCase 创建预下单用例
func NewPrecreateUseCase(orderRepo order.Repository, client PrecreateClient) *PrecreateUseCase {
	return &PrecreateUseCase{
		orderRepo: orderRepo,
		client:    client,
	}
}

// Execute 预下单
// 只有未支付的订单可以发起支付
func (uc *PrecreateUseCase) Execute(ctx context.Context, userID uint, orderNo int64) (*PrecreateResult, error) {
	o, err := uc.orderRepo.FindByUserIDOrderNo(ctx, userID, orderNo)
	if err != nil {
		return nil, err
	}

	if o.Status != order.StatusNoPay {
		return nil, apperrors.ErrIllegalTransition
	}

	subject := fmt.Sprintf("快乐商城扫码支付，订单号:%d", orderNo)
	qrCode, err := uc.client.Precreate(ctx, orderNo, subject, o.Payment)
	if err != nil {
		return nil, err
	}

	return &PrecreateResult{
		OrderNo: orderNo,
		QRCode:  qrCode,
	}, nil
}
