package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/happymall/mall/internal/domain/shipping"
	"github.com/happymall/mall/internal/interface/http/dto"
	"github.com/happymall/mall/internal/interface/http/middleware"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/response"
)

// ShippingHandler 收货地址HTTP处理器
// 地址管理就是简单的CRUD，直接依赖仓储，不另设应用层用例
type ShippingHandler struct {
	shippingRepo shipping.Repository
}

// NewShippingHandler 创建收货地址处理器
func NewShippingHandler(shippingRepo shipping.Repository) *ShippingHandler {
	return &ShippingHandler{shippingRepo: shippingRepo}
}

// Create 新增收货地址
// @Summary      新增收货地址
// @Tags         收货地址模块
// @Security     BearerAuth
// @Param        request body dto.ShippingCreateRequest true "地址信息"
// @Success      200 {object} response.Response{data=dto.ShippingResponse}
// @Router       /shippings [post]
func (h *ShippingHandler) Create(c *gin.Context) {
	var req dto.ShippingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	now := time.Now()
	s := &shipping.Shipping{
		UserID:       userID,
		ReceiverName: req.ReceiverName,
		Phone:        req.Phone,
		Province:     req.Province,
		City:         req.City,
		District:     req.District,
		Address:      req.Address,
		Zip:          req.Zip,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := h.shippingRepo.Create(c.Request.Context(), s); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toShippingResponse(s))
}

// List 收货地址列表
// @Summary      收货地址列表
// @Tags         收货地址模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.ShippingResponse}
// @Router       /shippings [get]
func (h *ShippingHandler) List(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	list, err := h.shippingRepo.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]*dto.ShippingResponse, len(list))
	for i, s := range list {
		resp[i] = toShippingResponse(s)
	}

	response.Success(c, resp)
}

func toShippingResponse(s *shipping.Shipping) *dto.ShippingResponse {
	return &dto.ShippingResponse{
		ID:           s.ID,
		ReceiverName: s.ReceiverName,
		Phone:        s.Phone,
		Province:     s.Province,
		City:         s.City,
		District:     s.District,
		Address:      s.Address,
		Zip:          s.Zip,
	}
}
