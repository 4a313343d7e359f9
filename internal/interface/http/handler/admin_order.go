package handler

import (
	"github.com/gin-gonic/gin"

	apporder "github.com/happymall/mall/internal/application/order"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/infrastructure/config"
	"github.com/happymall/mall/internal/interface/http/dto"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/response"
)

// AdminOrderHandler 管理后台订单处理器
// 所有路由挂RequireAuth + RequireAdmin
type AdminOrderHandler struct {
	queryUseCase *apporder.QueryOrderUseCase
	shipUseCase  *apporder.ShipOrderUseCase
	imageHost    string
}

// NewAdminOrderHandler 创建管理后台订单处理器
func NewAdminOrderHandler(
	queryUseCase *apporder.QueryOrderUseCase,
	shipUseCase *apporder.ShipOrderUseCase,
	cfg *config.Config,
) *AdminOrderHandler {
	return &AdminOrderHandler{
		queryUseCase: queryUseCase,
		shipUseCase:  shipUseCase,
		imageHost:    cfg.Server.ImageHost,
	}
}

// List 订单列表（可按订单号/状态过滤）
// @Summary      订单列表（管理后台）
// @Tags         管理后台
// @Security     BearerAuth
// @Param        order_no query int false "按订单号精确查询"
// @Param        status query int false "按状态过滤"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页大小" default(10)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /admin/orders [get]
func (h *AdminOrderHandler) List(c *gin.Context) {
	var req dto.AdminOrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	query := order.ListQuery{
		OrderNo:  req.OrderNo,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != nil {
		query.Status = order.Status(*req.Status)
		query.HasStat = true
	}

	orders, total, err := h.queryUseCase.AdminList(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.OrderResponse, len(orders))
	for i, o := range orders {
		list[i] = toOrderResponse(o, h.imageHost, true)
	}

	response.SuccessWithPage(c, list, total, req.Page, req.PageSize)
}

// Detail 订单详情（不限用户）
// @Summary      订单详情（管理后台）
// @Tags         管理后台
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response{data=dto.OrderResponse}
// @Router       /admin/orders/{order_no} [get]
func (h *AdminOrderHandler) Detail(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	o, err := h.queryUseCase.AdminDetail(c.Request.Context(), orderNo)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toOrderResponse(o, h.imageHost, true))
}

// Ship 发货
// @Summary      订单发货（管理后台）
// @Description  只有已支付的订单可以发货；未支付订单返回40010
// @Tags         管理后台
// @Security     BearerAuth
// @Param        order_no path int true "订单号"
// @Success      200 {object} response.Response
// @Router       /admin/orders/{order_no}/ship [put]
func (h *AdminOrderHandler) Ship(c *gin.Context) {
	orderNo, ok := parseOrderNo(c)
	if !ok {
		return
	}

	if err := h.shipUseCase.Execute(c.Request.Context(), orderNo); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
