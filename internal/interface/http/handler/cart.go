package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/happymall/mall/internal/application/cart"
	"github.com/happymall/mall/internal/infrastructure/config"
	"github.com/happymall/mall/internal/interface/http/dto"
	"github.com/happymall/mall/internal/interface/http/middleware"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	reconcileUseCase *appcart.ReconcileUseCase
	manageUseCase    *appcart.ManageUseCase
	imageHost        string
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(
	reconcileUseCase *appcart.ReconcileUseCase,
	manageUseCase *appcart.ManageUseCase,
	cfg *config.Config,
) *CartHandler {
	return &CartHandler{
		reconcileUseCase: reconcileUseCase,
		manageUseCase:    manageUseCase,
		imageHost:        cfg.Server.ImageHost,
	}
}

// List 读取购物车（含库存校正）
// @Summary      购物车列表
// @Description  读取购物车并做库存校正：期望数量超过当前库存时，数量被调整为库存值并写回，行上带LIMIT_NUM_FAIL标记
// @Tags         购物车模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) List(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	view, err := h.reconcileUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.toCartResponse(view))
}

// Add 加购商品
// @Summary      加入购物车
// @Tags         购物车模块
// @Security     BearerAuth
// @Param        request body dto.CartAddRequest true "商品和数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [post]
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.manageUseCase.Add(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	h.List(c)
}

// Update 修改商品数量
// @Summary      修改购物车数量
// @Tags         购物车模块
// @Security     BearerAuth
// @Param        request body dto.CartUpdateRequest true "商品和数量"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [put]
func (h *CartHandler) Update(c *gin.Context) {
	var req dto.CartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.manageUseCase.UpdateQuantity(c.Request.Context(), userID, req.ProductID, req.Quantity); err != nil {
		response.Error(c, err)
		return
	}

	h.List(c)
}

// Delete 删除商品
// @Summary      删除购物车商品
// @Tags         购物车模块
// @Security     BearerAuth
// @Param        request body dto.CartDeleteRequest true "商品ID列表"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart [delete]
func (h *CartHandler) Delete(c *gin.Context) {
	var req dto.CartDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.manageUseCase.Delete(c.Request.Context(), userID, req.ProductIDs); err != nil {
		response.Error(c, err)
		return
	}

	h.List(c)
}

// Check 勾选/取消勾选单个商品
// @Summary      勾选购物车商品
// @Tags         购物车模块
// @Security     BearerAuth
// @Param        request body dto.CartCheckRequest true "商品和勾选状态"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart/check [put]
func (h *CartHandler) Check(c *gin.Context) {
	var req dto.CartCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	userID := middleware.MustGetUserID(c)
	if err := h.manageUseCase.SetChecked(c.Request.Context(), userID, req.ProductID, req.Checked); err != nil {
		response.Error(c, err)
		return
	}

	h.List(c)
}

// CheckAll 全选/全不选
// @Summary      全选购物车
// @Tags         购物车模块
// @Security     BearerAuth
// @Param        checked query bool true "勾选状态"
// @Success      200 {object} response.Response{data=dto.CartResponse}
// @Router       /cart/check-all [put]
func (h *CartHandler) CheckAll(c *gin.Context) {
	checked := c.DefaultQuery("checked", "true") == "true"

	userID := middleware.MustGetUserID(c)
	if err := h.manageUseCase.SetCheckedAll(c.Request.Context(), userID, checked); err != nil {
		response.Error(c, err)
		return
	}

	h.List(c)
}

// Count 购物车件数（角标）
// @Summary      购物车商品总件数
// @Tags         购物车模块
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.CartCountResponse}
// @Router       /cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	count, err := h.manageUseCase.Count(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CartCountResponse{Count: count})
}

// toCartResponse 购物车视图 → 响应DTO
func (h *CartHandler) toCartResponse(view *appcart.View) *dto.CartResponse {
	lines := make([]dto.CartLineResponse, len(view.Lines))
	for i, line := range view.Lines {
		lines[i] = dto.CartLineResponse{
			CartItemID:  line.CartItemID,
			ProductID:   line.ProductID,
			Name:        line.Name,
			Subtitle:    line.Subtitle,
			MainImage:   fullImageURL(h.imageHost, line.MainImage),
			Price:       line.Price,
			PriceYuan:   formatYuan(line.Price),
			Stock:       line.Stock,
			Quantity:    line.Quantity,
			LineTotal:   line.LineTotal,
			Checked:     line.Checked,
			Buyable:     line.Buyable,
			LimitStatus: line.LimitStatus,
		}
	}

	return &dto.CartResponse{
		Lines:          lines,
		TotalPrice:     view.TotalPrice,
		TotalPriceYuan: formatYuan(view.TotalPrice),
		AllChecked:     view.AllChecked,
	}
}
