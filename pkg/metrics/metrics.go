// Package metrics 提供基于Prometheus的指标收集
//
// 核心概念：
// - Counter（计数器）：只增不减的累计值，如订单创建总数
// - Gauge（仪表盘）：可增可减的瞬时值，如正在处理的请求数
// - Histogram（直方图）：观测值的分布，自动计算分位数（P50/P90/P99）
//
// 指标通过 /metrics 端点暴露，由Prometheus定时抓取。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 订单业务指标

	// OrdersCreatedTotal 订单创建总数（Counter）
	OrdersCreatedTotal prometheus.Counter

	// OrdersFailedTotal 订单创建失败总数（Counter）
	// 标签：reason（empty_cart/off_sale/insufficient_stock/internal）
	OrdersFailedTotal *prometheus.CounterVec

	// OrderCreationDuration 订单创建耗时（Histogram）
	OrderCreationDuration prometheus.Histogram

	// StockConflictsTotal 条件扣库存失败总数（Counter）
	// 并发下单抢同一件商品最后库存时会出现
	StockConflictsTotal prometheus.Counter

	// 支付回调指标

	// PaymentCallbacksTotal 支付回调处理总数（Counter）
	// 标签：result（paid/duplicate/foreign/bad_signature/ignored/error）
	PaymentCallbacksTotal *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange、routing_key
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
//
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	// HTTP请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// 订单业务指标
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建总数",
		},
	)

	OrdersFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_failed_total",
			Help: "订单创建失败总数",
		},
		[]string{"reason"},
	)

	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_creation_duration_seconds",
			Help:    "订单创建耗时（秒）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
	)

	StockConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stock_conflicts_total",
			Help: "条件扣库存失败总数（并发竞争或库存不足）",
		},
	)

	// 支付回调指标
	PaymentCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "支付回调处理总数",
		},
		[]string{"result"},
	)

	// 消息队列指标
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)
}

// IncCounter 递增Counter（便捷函数，nil安全）
func IncCounter(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

// IncCounterVec 按标签递增CounterVec（nil安全）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter != nil {
		counter.With(labels).Inc()
	}
}

// ObserveHistogram 记录Histogram观测值（nil安全）
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram != nil {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec 按标签记录Histogram观测值（nil安全）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram != nil {
		histogram.With(labels).Observe(value)
	}
}
