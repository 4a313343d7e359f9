package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/happymall/mall/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate，生产环境应使用版本化迁移脚本）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只创建表、添加字段，不删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&ProductModel{},
		&CartItemModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PayInfoModel{},
		&ShippingModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. infrastructure层的数据模型带GORM tag，与领域实体分离
// 2. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	Role      int            `gorm:"type:tinyint;default:0;comment:角色(0普通用户1管理员)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

func (UserModel) TableName() string {
	return "users"
}

// ProductModel GORM商品模型
// 设计说明：
// 1. 价格以分为单位的int64存储（避免浮点数精度问题）
// 2. Stock的扣减只通过条件UPDATE完成，不走读改写
type ProductModel struct {
	ID        uint           `gorm:"primaryKey"`
	Name      string         `gorm:"index:idx_search;size:100;not null;comment:商品名称"`
	Subtitle  string         `gorm:"size:200;comment:副标题"`
	MainImage string         `gorm:"size:500;comment:主图(相对路径)"`
	SubImages string         `gorm:"size:1000;comment:子图(逗号分隔)"`
	Detail    string         `gorm:"type:text;comment:商品详情"`
	Price     int64          `gorm:"not null;comment:价格(分)"`
	Stock     int            `gorm:"not null;default:0;comment:库存数量"`
	Status    int            `gorm:"index;type:tinyint;default:1;comment:状态(1在售2下架3删除)"`
	CreatedAt time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (ProductModel) TableName() string {
	return "products"
}

// CartItemModel GORM购物车模型
// (user_id, product_id)唯一索引：同一商品重复加购合并数量
type CartItemModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_product;not null;comment:用户ID"`
	ProductID uint      `gorm:"uniqueIndex:idx_user_product;not null;comment:商品ID"`
	Quantity  int       `gorm:"not null;comment:期望购买数量"`
	Checked   int       `gorm:"type:tinyint;default:1;comment:是否勾选(1勾选0未勾选)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (CartItemModel) TableName() string {
	return "cart_items"
}

// OrderModel GORM订单模型
// 设计说明：
// 1. OrderNo是业务主键（唯一索引），明细通过OrderNo关联
// 2. Status直接存业务状态码（0/10/20/40/50/60）
// 3. 四个时间字段可空，随状态转换逐个写入
type OrderModel struct {
	ID          uint             `gorm:"primaryKey"`
	OrderNo     int64            `gorm:"uniqueIndex;not null;comment:订单号"`
	UserID      uint             `gorm:"index;not null;comment:买家用户ID"`
	ShippingID  uint             `gorm:"not null;comment:收货地址ID"`
	Payment     int64            `gorm:"not null;comment:订单总金额(分)"`
	PaymentType int              `gorm:"type:tinyint;default:1;comment:支付类型(1在线支付)"`
	Postage     int64            `gorm:"default:0;comment:运费(分)"`
	Status      int              `gorm:"index;type:smallint;default:10;comment:订单状态(0取消10未付款20已付款40已发货50完成60关闭)"`
	PaymentTime *time.Time       `gorm:"comment:支付时间"`
	SendTime    *time.Time       `gorm:"comment:发货时间"`
	EndTime     *time.Time       `gorm:"comment:交易完成时间"`
	CloseTime   *time.Time       `gorm:"comment:交易关闭时间"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderNo;references:OrderNo"` // 按订单号关联明细
	CreatedAt   time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 记录下单时刻的商品快照（名称、主图、单价）
type OrderItemModel struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"index;not null;comment:用户ID"`
	OrderNo          int64     `gorm:"index;not null;comment:订单号"`
	ProductID        uint      `gorm:"index;not null;comment:商品ID"`
	ProductName      string    `gorm:"size:100;not null;comment:商品名称快照"`
	ProductImage     string    `gorm:"size:500;comment:商品主图快照"`
	CurrentUnitPrice int64     `gorm:"not null;comment:下单时单价(分)"`
	Quantity         int       `gorm:"not null;comment:购买数量"`
	TotalPrice       int64     `gorm:"not null;comment:商品总价(分)"`
	CreatedAt        time.Time `gorm:"comment:创建时间"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// PayInfoModel GORM支付流水模型（只追加的审计表）
type PayInfoModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index;not null;comment:用户ID"`
	OrderNo        int64     `gorm:"index;not null;comment:订单号"`
	PayPlatform    int       `gorm:"type:tinyint;default:1;comment:支付平台(1支付宝)"`
	PlatformNumber string    `gorm:"size:200;comment:平台交易号"`
	PlatformStatus string    `gorm:"size:20;comment:平台交易状态"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
}

func (PayInfoModel) TableName() string {
	return "pay_infos"
}

// ShippingModel GORM收货地址模型
type ShippingModel struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null;comment:用户ID"`
	ReceiverName string    `gorm:"size:50;not null;comment:收货人姓名"`
	Phone        string    `gorm:"size:20;not null;comment:联系电话"`
	Province     string    `gorm:"size:50;comment:省份"`
	City         string    `gorm:"size:50;comment:城市"`
	District     string    `gorm:"size:50;comment:区县"`
	Address      string    `gorm:"size:200;not null;comment:详细地址"`
	Zip          string    `gorm:"size:10;comment:邮编"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

func (ShippingModel) TableName() string {
	return "shippings"
}
