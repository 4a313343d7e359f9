package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apporder "github.com/happymall/mall/internal/application/order"
	"github.com/happymall/mall/internal/infrastructure/config"
	"github.com/happymall/mall/internal/interface/http/dto"
	"github.com/happymall/mall/internal/interface/http/middleware"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/response"
)

// OrderHandler 订单HTTP处理器（买家侧）
type OrderHandler struct {
	createUseCase  *apporder.CreateOrderUseCase
	cancelUseCase  *apporder.CancelOrderUseCase
	queryUseCase   *apporder.QueryOrderUseCase
	previewUseCase *apporder.CheckoutPreviewUseCase
	imageHost      string
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createUseCase *apporder.CreateOrderUseCase,
	cancelUseCase *apporder.CancelOrderUseCase,
	queryUseCase *apporder.QueryOrderUseCase,
	previewUseCase *apporder.CheckoutPreviewUseCase,
	cfg *config.Config,
) *OrderHandler {
	return &OrderHandler{
		createUseCase:  createUseCase,
		cancelUseCase:  cancelUseCase,
		queryUseCase:   queryUseCase,
		previewUseCase: previewUseCase,
		imageHost:      cfg.Server.ImageHost,
	}
}

// Create 创建订单
// @Summary      创建订单
// @Description  从购物车勾选行生成订单。全有或全无：任何一行下架或库存不足则整单失败，不产生部分订单。并发下单靠条件扣库存（UPDATE ... WHERE stock >= ?）防超卖
// @Tags         订单模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "收货地址"
// @Success      200 {object} response.Response{data=dto.OrderResponse} "下单成功"
// @Failure      200 {object} response.Response "40001库存不足 / 40004商品下架 / 40006购物车无勾选商品"
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)

	result, err := h.createUseCase.Execute(c.Request.Context(), apporder.CreateOrderRequest{
		UserID:     userID,
		ShippingID: req.ShippingID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderResponse(result, h.imageHost, false))
}

// Preview 结算预览（确认订单页）
// @Summary      结算预览
// @Tags         订单模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.PreviewResponse}
// @Router       /orders/preview [get]
func (h *OrderHandler) Preview(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	preview, err := h.previewUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PreviewItemResponse, len(preview.Items))
	for i, item := range preview.Items {
		items[i] = dto.PreviewItemResponse{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			ProductImage:   fullImageURL(h.imageHost, item.ProductImage),
			UnitPrice:      item.UnitPrice,
			UnitPriceYuan:  formatYuan(item.UnitPrice),
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
			TotalPriceYuan: formatYuan(item.TotalPrice),
		}
	}

	response.Success(c, &dto.PreviewResponse{
		Items:          items,
		TotalPrice:     preview.TotalPrice,
		TotalPriceYuan: formatYuan(preview.TotalPrice),
	})
}

// Detail 订单详情
// @Summary      订单详情
// @Tags         订单模块
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Router       /orders/{order_no} [get]
func (h *OrderHandler) Detail(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)
	o, err := h.queryUseCase.Detail(c.Request.Context(), userID, orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderResponse(o, h.imageHost, false))
}

// List 订单列表
// @Summary      订单列表
// @Tags         订单模块
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页大小" default(10)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	userID := middleware.MustGetUserID(c)
	orders, total, err := h.queryUseCase.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.OrderResponse, len(orders))
	for i, o := range orders {
		list[i] = toOrderResponse(o, h.imageHost, false)
	}

	response.SuccessWithPage(c, list, total, page, pageSize)
}

// Cancel 取消订单
// @Summary      取消订单
// @Description  只有未支付的订单可以取消；取消后回补库存
// @Tags         订单模块
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40002订单状态不允许取消"
// @Router       /orders/{order_no}/cancel [put]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.cancelUseCase.Execute(c.Request.Context(), userID, orderNo); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// PayStatus 查询支付状态（前端轮询）
// @Summary      查询支付状态
// @Tags         订单模块
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response{data=dto.PayStatusResponse}
// @Router       /orders/{order_no}/pay-status [get]
func (h *OrderHandler) PayStatus(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	userID := middleware.MustGetUserID(c)
	paid, err := h.queryUseCase.IsPaid(c.Request.Context(), userID, orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.PayStatusResponse{OrderNo: orderNo, Paid: paid})
}

// parseOrderNo 解析路径中的订单号，非法时直接写错误响应
func parseOrderNo(c *gin.Context) (int64, bool) {
	orderNo, err := strconv.ParseInt(c.Param("order_no"), 10, 64)
	if err != nil || orderNo <= 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "非法的订单号")
		return 0, false
	}
	return orderNo, true
}
