package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/happymall/mall/internal/domain/shipping"
	apperrors "github.com/happymall/mall/pkg/errors"
)

// shippingRepository 收货地址仓储实现（MySQL）
type shippingRepository struct {
	db *gorm.DB
}

// NewShippingRepository 创建收货地址仓储
func NewShippingRepository(db *gorm.DB) shipping.Repository {
	return &shippingRepository{db: db}
}

// Create 创建收货地址
func (r *shippingRepository) Create(ctx context.Context, s *shipping.Shipping) error {
	model := toShippingModel(s)

	db := getDB(ctx, r.db)
	if err := db.Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建收货地址失败")
	}

	s.ID = model.ID
	return nil
}

// FindByUserIDAndID 按用户+地址ID查询
// 用户ID作为查询条件完成归属校验，属于他人的地址同样返回不存在
func (r *shippingRepository) FindByUserIDAndID(ctx context.Context, userID, id uint) (*shipping.Shipping, error) {
	var model ShippingModel
	db := getDB(ctx, r.db)
	err := db.Where("user_id = ? AND id = ?", userID, id).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shipping.ErrShippingNotFound
		}
		return nil, apperrors.Wrap(err, "查询收货地址失败")
	}

	return toShippingEntity(&model), nil
}

// ListByUserID 查询用户全部收货地址
func (r *shippingRepository) ListByUserID(ctx context.Context, userID uint) ([]*shipping.Shipping, error) {
	var models []ShippingModel
	db := getDB(ctx, r.db)
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error

	if err != nil {
		return nil, apperrors.Wrap(err, "查询收货地址失败")
	}

	list := make([]*shipping.Shipping, len(models))
	for i := range models {
		list[i] = toShippingEntity(&models[i])
	}

	return list, nil
}

func toShippingModel(s *shipping.Shipping) *ShippingModel {
	return &ShippingModel{
		ID:           s.ID,
		UserID:       s.UserID,
		ReceiverName: s.ReceiverName,
		Phone:        s.Phone,
		Province:     s.Province,
		City:         s.City,
		District:     s.District,
		Address:      s.Address,
		Zip:          s.Zip,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toShippingEntity(model *ShippingModel) *shipping.Shipping {
	return &shipping.Shipping{
		ID:           model.ID,
		UserID:       model.UserID,
		ReceiverName: model.ReceiverName,
		Phone:        model.Phone,
		Province:     model.Province,
		City:         model.City,
		District:     model.District,
		Address:      model.Address,
		Zip:          model.Zip,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
