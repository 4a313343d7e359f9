//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// Wire在编译期生成依赖组装代码（区别于运行时反射注入）：
// 1. 编写本文件，定义Provider和Injector
// 2. 运行 `wire gen ./cmd/api` 生成wire_gen.go
// 3. main.go改为调用InitializeApp()
//
// 当前main.go仍使用手动组装，本文件与其保持同一依赖图，
// 迁移到Wire时直接生成即可。
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appcart "github.com/happymall/mall/internal/application/cart"
	apporder "github.com/happymall/mall/internal/application/order"
	apppayment "github.com/happymall/mall/internal/application/payment"
	appproduct "github.com/happymall/mall/internal/application/product"
	appuser "github.com/happymall/mall/internal/application/user"
	"github.com/happymall/mall/internal/domain/order"
	"github.com/happymall/mall/internal/domain/user"
	"github.com/happymall/mall/internal/infrastructure/alipay"
	"github.com/happymall/mall/internal/infrastructure/config"
	"github.com/happymall/mall/internal/infrastructure/persistence/mysql"
	"github.com/happymall/mall/internal/infrastructure/persistence/redis"
	"github.com/happymall/mall/internal/interface/http/handler"
	"github.com/happymall/mall/internal/interface/http/middleware"
	"github.com/happymall/mall/pkg/jwt"
	"github.com/happymall/mall/pkg/mq"
)

// infrastructureSet 基础设施层：配置、数据库、Redis、支付宝、MQ
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	provideAlipayClient,
	providePublisher,
	provideNoGenerator,
	wire.Bind(new(apppayment.SignatureVerifier), new(*alipay.Client)),
	wire.Bind(new(apppayment.PrecreateClient), new(*alipay.Client)),
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewProductRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewPayInfoRepository,
	mysql.NewShippingRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apppayment.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appproduct.NewCatalogUseCase,
	appcart.NewReconcileUseCase,
	appcart.NewManageUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewShipOrderUseCase,
	apporder.NewQueryOrderUseCase,
	apporder.NewCheckoutPreviewUseCase,
	apppayment.NewPrecreateUseCase,
	apppayment.NewCallbackUseCase,
)

// middlewareSet JWT、会话、认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	providePayStatusCache,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewProductHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewPaymentHandler,
	handler.NewAdminOrderHandler,
	handler.NewShippingHandler,
)

// provideJWTManager Config → JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore Redis客户端 → 会话存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePayStatusCache Redis客户端 → 支付状态缓存
func providePayStatusCache(client *goredis.Client) *redis.PayStatusCache {
	return redis.NewPayStatusCache(client)
}

// provideAlipayClient Config → 支付宝客户端
func provideAlipayClient(cfg *config.Config) (*alipay.Client, error) {
	return alipay.NewClient(cfg.Alipay)
}

// providePublisher Config → MQ发布者（未启用时返回nil，发布为空操作）
func providePublisher(cfg *config.Config) (*mq.Publisher, error) {
	if !cfg.MQ.Enabled {
		return nil, nil
	}
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
}

// provideNoGenerator Config → 订单号生成器
func provideNoGenerator(cfg *config.Config) (*order.NoGenerator, error) {
	return order.NewNoGenerator(cfg.Server.NodeID)
}

// provideGinEngine 创建Gin引擎并注册全部路由
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	adminOrderHandler *handler.AdminOrderHandler,
	shippingHandler *handler.ShippingHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, productHandler, cartHandler, orderHandler,
		paymentHandler, adminOrderHandler, shippingHandler, authMiddleware)

	return r
}

// InitializeApp 组装整个应用，返回配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
