package dto

// ProductListRequest 商品列表查询
type ProductListRequest struct {
	Keyword  string `form:"keyword"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=10" binding:"min=1,max=100"`
}

// ProductResponse 商品
type ProductResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Subtitle   string `json:"subtitle"`
	MainImage  string `json:"main_image"` // 完整URL
	SubImages  string `json:"sub_images,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Price      int64  `json:"price"` // 价格（分）
	PriceYuan  string `json:"price_yuan"`
	Stock      int    `json:"stock"`
	Status     int    `json:"status"`
	StatusDesc string `json:"status_desc"`
}

// ProductCreateRequest 创建商品请求（管理后台）
type ProductCreateRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Subtitle  string `json:"subtitle" binding:"max=200"`
	MainImage string `json:"main_image" binding:"max=500"`
	SubImages string `json:"sub_images" binding:"max=1000"`
	Detail    string `json:"detail"`
	Price     int64  `json:"price" binding:"required,min=1"` // 分
	Stock     int    `json:"stock" binding:"min=0"`
	Status    int    `json:"status" binding:"required,oneof=1 2"`
}
