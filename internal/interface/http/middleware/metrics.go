package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/happymall/mall/pkg/metrics"
)

// Metrics HTTP请求指标中间件
// 记录请求总数和耗时；path用路由模板（c.FullPath）而不是实际URL，
// 避免订单号等参数把标签基数撑爆
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched" // 404等未命中路由的请求
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})
		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
