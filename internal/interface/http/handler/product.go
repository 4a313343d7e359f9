package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appproduct "github.com/happymall/mall/internal/application/product"
	"github.com/happymall/mall/internal/domain/product"
	"github.com/happymall/mall/internal/infrastructure/config"
	"github.com/happymall/mall/internal/interface/http/dto"
	apperrors "github.com/happymall/mall/pkg/errors"
	"github.com/happymall/mall/pkg/response"
)

// ProductHandler 商品HTTP处理器
// 列表和详情是公开接口；Create挂管理员路由组
type ProductHandler struct {
	catalogUseCase *appproduct.CatalogUseCase
	imageHost      string
}

// NewProductHandler 创建商品处理器
func NewProductHandler(catalogUseCase *appproduct.CatalogUseCase, cfg *config.Config) *ProductHandler {
	return &ProductHandler{
		catalogUseCase: catalogUseCase,
		imageHost:      cfg.Server.ImageHost,
	}
}

// List 商品列表
// @Summary      商品列表
// @Tags         商品模块
// @Param        keyword query string false "按名称模糊搜索"
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页大小" default(10)
// @Success      200 {object} response.Response{data=response.PageData}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	products, total, err := h.catalogUseCase.List(c.Request.Context(), req.Keyword, req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*dto.ProductResponse, len(products))
	for i, p := range products {
		list[i] = h.toProductResponse(p, false)
	}

	response.SuccessWithPage(c, list, total, req.Page, req.PageSize)
}

// Detail 商品详情
// @Summary      商品详情
// @Tags         商品模块
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Router       /products/{id} [get]
func (h *ProductHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "非法的商品ID")
		return
	}

	p, err := h.catalogUseCase.Detail(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.toProductResponse(p, true))
}

// Create 新建商品（管理后台）
// @Summary      新建商品（管理后台）
// @Tags         管理后台
// @Security     BearerAuth
// @Param        request body dto.ProductCreateRequest true "商品信息"
// @Success      200 {object} response.Response{data=dto.ProductResponse}
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	now := time.Now()
	p := &product.Product{
		Name:      req.Name,
		Subtitle:  req.Subtitle,
		MainImage: req.MainImage,
		SubImages: req.SubImages,
		Detail:    req.Detail,
		Price:     req.Price,
		Stock:     req.Stock,
		Status:    req.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.catalogUseCase.Create(c.Request.Context(), p); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, h.toProductResponse(p, true))
}

// toProductResponse 商品实体 → 响应DTO
// withDetail为false时不带详情和子图（列表瘦身）
func (h *ProductHandler) toProductResponse(p *product.Product, withDetail bool) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Subtitle:   p.Subtitle,
		MainImage:  fullImageURL(h.imageHost, p.MainImage),
		Price:      p.Price,
		PriceYuan:  formatYuan(p.Price),
		Stock:      p.Stock,
		Status:     p.Status,
		StatusDesc: p.StatusDesc(),
	}
	if withDetail {
		resp.SubImages = p.SubImages
		resp.Detail = p.Detail
	}
	return resp
}
