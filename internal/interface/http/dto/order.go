package dto

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	ShippingID uint `json:"shipping_id" binding:"required"`
}

// OrderItemResponse 订单明细
type OrderItemResponse struct {
	ProductID        uint   `json:"product_id"`
	ProductName      string `json:"product_name"`
	ProductImage     string `json:"product_image"` // 完整URL
	CurrentUnitPrice int64  `json:"current_unit_price"`
	UnitPriceYuan    string `json:"unit_price_yuan"`
	Quantity         int    `json:"quantity"`
	TotalPrice       int64  `json:"total_price"`
	TotalPriceYuan   string `json:"total_price_yuan"`
}

// OrderResponse 订单（买家侧详情/列表通用）
type OrderResponse struct {
	OrderNo     int64               `json:"order_no"`
	UserID      uint                `json:"user_id,omitempty"` // 仅管理后台返回
	ShippingID  uint                `json:"shipping_id"`
	Payment     int64               `json:"payment"` // 总金额（分）
	PaymentYuan string              `json:"payment_yuan"`
	PaymentType int                 `json:"payment_type"`
	Postage     int64               `json:"postage"`
	Status      int                 `json:"status"`
	StatusDesc  string              `json:"status_desc"`
	PaymentTime string              `json:"payment_time,omitempty"`
	SendTime    string              `json:"send_time,omitempty"`
	CloseTime   string              `json:"close_time,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   string              `json:"created_at"`
}

// PreviewItemResponse 结算预览行
type PreviewItemResponse struct {
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	ProductImage   string `json:"product_image"`
	UnitPrice      int64  `json:"unit_price"`
	UnitPriceYuan  string `json:"unit_price_yuan"`
	Quantity       int    `json:"quantity"`
	TotalPrice     int64  `json:"total_price"`
	TotalPriceYuan string `json:"total_price_yuan"`
}

// PreviewResponse 结算预览
type PreviewResponse struct {
	Items          []PreviewItemResponse `json:"items"`
	TotalPrice     int64                 `json:"total_price"`
	TotalPriceYuan string                `json:"total_price_yuan"`
}

// PayStatusResponse 支付状态查询响应
type PayStatusResponse struct {
	OrderNo int64 `json:"order_no"`
	Paid    bool  `json:"paid"`
}

// PrecreateResponse 支付预下单响应
type PrecreateResponse struct {
	OrderNo int64  `json:"order_no"`
	QRCode  string `json:"qr_code"`
}

// AdminOrderListRequest 管理后台订单列表查询
type AdminOrderListRequest struct {
	OrderNo  int64 `form:"order_no"`
	Status   *int  `form:"status"` // 指针区分"不过滤"和"查已取消(0)"
	Page     int   `form:"page,default=1" binding:"min=1"`
	PageSize int   `form:"page_size,default=10" binding:"min=1,max=100"`
}
