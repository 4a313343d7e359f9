package dto

// CartAddRequest 加购请求
type CartAddRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CartUpdateRequest 修改数量请求
type CartUpdateRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CartDeleteRequest 删除商品请求
type CartDeleteRequest struct {
	ProductIDs []uint `json:"product_ids" binding:"required,min=1"`
}

// CartCheckRequest 勾选请求
type CartCheckRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Checked   bool `json:"checked"`
}

// CartLineResponse 购物车行
type CartLineResponse struct {
	CartItemID  uint   `json:"cart_item_id"`
	ProductID   uint   `json:"product_id"`
	Name        string `json:"name"`
	Subtitle    string `json:"subtitle"`
	MainImage   string `json:"main_image"` // 已拼接图片服务器前缀的完整URL
	Price       int64  `json:"price"`      // 单价（分）
	PriceYuan   string `json:"price_yuan"`
	Stock       int    `json:"stock"`
	Quantity    int    `json:"quantity"` // 库存校正后的数量
	LineTotal   int64  `json:"line_total"`
	Checked     bool   `json:"checked"`
	Buyable     bool   `json:"buyable"`
	LimitStatus string `json:"limit_status"` // LIMIT_NUM_SUCCESS / LIMIT_NUM_FAIL
}

// CartResponse 购物车视图
type CartResponse struct {
	Lines          []CartLineResponse `json:"lines"`
	TotalPrice     int64              `json:"total_price"` // 勾选行合计（分）
	TotalPriceYuan string             `json:"total_price_yuan"`
	AllChecked     bool               `json:"all_checked"`
}

// CartCountResponse 购物车件数
type CartCountResponse struct {
	Count int64 `json:"count"`
}
