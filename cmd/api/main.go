// @title           Happy Mall API
// @version         1.0
// @description     在线商城后端：商品、购物车、订单、支付回调
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

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
	"github.com/happymall/mall/pkg/metrics"
	"github.com/happymall/mall/pkg/mq"
	"github.com/happymall/mall/pkg/response"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 节点ID: %d\n", cfg.Server.NodeID)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化数据库和Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 消息队列（可选，未启用时publisher为nil，发布为空操作）
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange)
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer publisher.Close()
		fmt.Println("✓ RabbitMQ连接成功")
	}

	// 5. 支付宝客户端
	alipayClient, err := alipay.NewClient(cfg.Alipay)
	if err != nil {
		log.Fatalf("初始化支付宝客户端失败: %v", err)
	}

	// 6. 订单号生成器
	noGen, err := order.NewNoGenerator(cfg.Server.NodeID)
	if err != nil {
		log.Fatalf("初始化订单号生成器失败: %v", err)
	}

	// 7. 依赖注入（手动组装）
	// 依赖链：Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	payInfoRepo := mysql.NewPayInfoRepository(db)
	shippingRepo := mysql.NewShippingRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	payStatusCache := redis.NewPayStatusCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	catalogUseCase := appproduct.NewCatalogUseCase(productRepo)
	reconcileUseCase := appcart.NewReconcileUseCase(cartRepo, productRepo)
	cartManageUseCase := appcart.NewManageUseCase(cartRepo, productRepo)
	createOrderUseCase := apporder.NewCreateOrderUseCase(
		orderRepo, productRepo, cartRepo, shippingRepo, noGen, txManager, publisher)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, productRepo, txManager, publisher)
	shipOrderUseCase := apporder.NewShipOrderUseCase(orderRepo, publisher)
	queryOrderUseCase := apporder.NewQueryOrderUseCase(orderRepo, payInfoRepo, payStatusCache)
	previewUseCase := apporder.NewCheckoutPreviewUseCase(cartRepo, productRepo)
	precreateUseCase := apppayment.NewPrecreateUseCase(orderRepo, alipayClient)
	callbackUseCase := apppayment.NewCallbackUseCase(
		orderRepo, payInfoRepo, alipayClient, payStatusCache, txManager, publisher)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, jwtManager)
	productHandler := handler.NewProductHandler(catalogUseCase, cfg)
	cartHandler := handler.NewCartHandler(reconcileUseCase, cartManageUseCase, cfg)
	orderHandler := handler.NewOrderHandler(
		createOrderUseCase, cancelOrderUseCase, queryOrderUseCase, previewUseCase, cfg)
	paymentHandler := handler.NewPaymentHandler(precreateUseCase, callbackUseCase)
	adminOrderHandler := handler.NewAdminOrderHandler(queryOrderUseCase, shipOrderUseCase, cfg)
	shippingHandler := handler.NewShippingHandler(shippingRepo)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 8. 初始化Gin引擎并注册路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, userHandler, productHandler, cartHandler, orderHandler,
		paymentHandler, adminOrderHandler, shippingHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标端点: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	adminOrderHandler *handler.AdminOrderHandler,
	shippingHandler *handler.ShippingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档（生产环境建议关闭或加访问控制）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.RefreshToken)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 商品模块（公开接口）
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Detail)
		}

		// 购物车模块（需要登录）
		carts := v1.Group("/cart")
		carts.Use(authMiddleware.RequireAuth())
		{
			carts.GET("", cartHandler.List)
			carts.POST("", cartHandler.Add)
			carts.PUT("", cartHandler.Update)
			carts.DELETE("", cartHandler.Delete)
			carts.PUT("/check", cartHandler.Check)
			carts.PUT("/check-all", cartHandler.CheckAll)
			carts.GET("/count", cartHandler.Count)
		}

		// 订单模块（需要登录）
		orders := v1.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/preview", orderHandler.Preview)
			orders.GET("/:order_no", orderHandler.Detail)
			orders.PUT("/:order_no/cancel", orderHandler.Cancel)
			orders.GET("/:order_no/pay-status", orderHandler.PayStatus)
		}

		// 支付模块
		payments := v1.Group("/payments")
		{
			// 回调是支付宝网关调用的，不走登录鉴权（安全由验签保证）
			payments.POST("/alipay/callback", paymentHandler.AlipayCallback)
			payments.POST("/:order_no/precreate", authMiddleware.RequireAuth(), paymentHandler.Precreate)
		}

		// 收货地址模块（需要登录）
		shippings := v1.Group("/shippings")
		shippings.Use(authMiddleware.RequireAuth())
		{
			shippings.POST("", shippingHandler.Create)
			shippings.GET("", shippingHandler.List)
		}

		// 管理后台（需要登录 + 管理员角色）
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.GET("/orders", adminOrderHandler.List)
			admin.GET("/orders/:order_no", adminOrderHandler.Detail)
			admin.PUT("/orders/:order_no/ship", adminOrderHandler.Ship)
			admin.POST("/products", productHandler.Create)
		}
	}
}
