package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/happymall/mall/internal/domain/order"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// payInfoRepository 支付流水仓储实现（MySQL）
// 只追加不更新的审计表
type payInfoRepository struct {
	db *gorm.DB
}

// NewPayInfoRepository 创建支付流水仓储
func NewPayInfoRepository(db *gorm.DB) order.PayInfoRepository {
	return &payInfoRepository{db: db}
}

// Create 插入一条支付流水
func (r *payInfoRepository) Create(ctx context.Context, info *order.PayInfo) error {
	model := &PayInfoModel{
		UserID:         info.UserID,
		OrderNo:        info.OrderNo,
		PayPlatform:    info.PayPlatform,
		PlatformNumber: info.PlatformNumber,
		PlatformStatus: info.PlatformStatus,
		CreatedAt:      info.CreatedAt,
	}

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存支付流水失败")
	}

	info.ID = model.ID
	return nil
}

// ListByOrderNo 查询订单的全部支付流水
func (r *payInfoRepository) ListByOrderNo(ctx context.Context, orderNo int64) ([]*order.PayInfo, error) {
	var models []PayInfoModel
	db := getDB(ctx, r.db)
	err := db.Where("order_no = ?", orderNo).
		Order("created_at ASC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询支付流水失败")
	}

	infos := make([]*order.PayInfo, len(models))
	for i, m := range models {
		infos[i] = &order.PayInfo{
			ID:             m.ID,
			UserID:         m.UserID,
			OrderNo:        m.OrderNo,
			PayPlatform:    m.PayPlatform,
			PlatformNumber: m.PlatformNumber,
			PlatformStatus: m.PlatformStatus,
			CreatedAt:      m.CreatedAt,
		}
	}

	return infos, nil
}
