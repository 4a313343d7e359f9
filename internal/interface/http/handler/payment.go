package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apppayment "github.com/happymall/mall/internal/application/payment"
	"github.com/happymall/mall/internal/interface/http/dto"
	"github.com/happymall/mall/internal/interface/http/middleware"
	"github.com/happymall/mall/pkg/response"
)

// PaymentHandler 支付HTTP处理器
type PaymentHandler struct {
	precreateUseCase *apppayment.PrecreateUseCase
	callbackUseCase  *apppayment.CallbackUseCase
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(
	precreateUseCase *apppayment.PrecreateUseCase,
	callbackUseCase *apppayment.CallbackUseCase,
) *PaymentHandler {
	return &PaymentHandler{
		precreateUseCase: precreateUseCase,
		callbackUseCase:  callbackUseCase,
	}
}

// Precreate 发起支付（生成收款二维码）
// @Summary      发起支付
// @Tags         支付模块
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response{data=dto.PrecreateResponse} "返回二维码内容，前端渲染成图片"
// @Router       /payments/{order_no}/precreate [post]
func (h *PaymentHandler) Precreate(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)
	result, err := h.precreateUseCase.Execute(c.Request.Context(), userID, orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.PrecreateResponse{
		OrderNo: result.OrderNo,
		QRCode:  result.QRCode,
	})
}

// AlipayCallback 支付宝异步通知
//
// 注意：这个接口不走统一响应结构。支付宝网关约定：
// 响应体为字符串"success"表示处理成功（停止重试），
// 其他任何内容都视为失败，按退避策略重试（最长持续24小时以上）。
//
// 回调以form表单POST过来；验签前要去掉sign_type参数（支付宝规则）。
// @Summary      支付宝回调（仅支付宝网关调用）
// @Tags         支付模块
// @Accept       x-www-form-urlencoded
// @Produce      plain
// @Success      200 {string} string "success或failure"
// @Router       /payments/alipay/callback [post]
func (h *PaymentHandler) AlipayCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusOK, "failure")
		return
	}

	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	// 验签参数集合不包含sign_type
	delete(params, "sign_type")

	log.Printf("收到支付宝回调 out_trade_no=%s trade_status=%s",
		params["out_trade_no"], params["trade_status"])

	if err := h.callbackUseCase.Execute(c.Request.Context(), params); err != nil {
		log.Printf("支付宝回调处理失败 out_trade_no=%s: %v", params["out_trade_no"], err)
		c.String(http.StatusOK, "failure")
		return
	}

	c.String(http.StatusOK, "success")
}
