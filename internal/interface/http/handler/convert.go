package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/interface/http/dto"
)

// timeLayout 响应中的时间格式
const timeLayout = "2006-01-02 15:04:05"

// formatYuan 分 → 元字符串（2750 → "27.50"）
func formatYuan(fen int64) string {
	return fmt.Sprintf("%d.%02d", fen/100, fen%100)
}

// fullImageURL 拼接图片服务器前缀
// 库里存相对路径，换图片服务器时只改配置
func fullImageURL(host, path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimSuffix(host, "/") + "/" + strings.TrimPrefix(path, "/")
}

// formatTimePtr 可空时间 → 字符串（nil返回空串，JSON侧omitempty）
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

// toOrderResponse 订单实体 → 响应DTO
// withUserID为true时带上买家ID（管理后台）
func toOrderResponse(o *order.Order, imageHost string, withUserID bool) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = dto.OrderItemResponse{
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ProductImage:     fullImageURL(imageHost, item.ProductImage),
			CurrentUnitPrice: item.CurrentUnitPrice,
			UnitPriceYuan:    formatYuan(item.CurrentUnitPrice),
			Quantity:         item.Quantity,
			TotalPrice:       item.TotalPrice,
			TotalPriceYuan:   formatYuan(item.TotalPrice),
		}
	}

	resp := &dto.OrderResponse{
		OrderNo:     o.OrderNo,
		ShippingID:  o.ShippingID,
		Payment:     o.Payment,
		PaymentYuan: formatYuan(o.Payment),
		PaymentType: o.PaymentType,
		Postage:     o.Postage,
		Status:      int(o.Status),
		StatusDesc:  o.Status.String(),
		PaymentTime: formatTimePtr(o.PaymentTime),
		SendTime:    formatTimePtr(o.SendTime),
		CloseTime:   formatTimePtr(o.CloseTime),
		Items:       items,
		CreatedAt:   o.CreatedAt.Format(timeLayout),
	}
	if withUserID {
		resp.UserID = o.UserID
	}
	return resp
}
