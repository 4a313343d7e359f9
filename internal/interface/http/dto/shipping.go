package dto

// ShippingCreateRequest 新增收货地址请求
type ShippingCreateRequest struct {
	ReceiverName string `json:"receiver_name" binding:"required,max=50"`
	Phone        string `json:"phone" binding:"required,max=20"`
	Province     string `json:"province" binding:"max=50"`
	City         string `json:"city" binding:"max=50"`
	District     string `json:"district" binding:"max=50"`
	Address      string `json:"address" binding:"required,max=200"`
	Zip          string `json:"zip" binding:"max=10"`
}

// ShippingResponse 收货地址
type ShippingResponse struct {
	ID           uint   `json:"id"`
	ReceiverName string `json:"receiver_name"`
	Phone        string `json:"phone"`
	Province     string `json:"province"`
	City         string `json:"city"`
	District     string `json:"district"`
	Address      string `json:"address"`
	Zip          string `json:"zip"`
}
