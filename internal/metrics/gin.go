package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folioweb",
			Subsystem: "pages",
			Name:      "render_duration_seconds",
			Help:      "页面渲染请求耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	pagesRendered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folioweb",
			Subsystem: "pages",
			Name:      "rendered_total",
			Help:      "页面渲染请求总数。",
		},
		[]string{"method", "route", "status"},
	)

	pagesInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "folioweb",
			Subsystem: "pages",
			Name:      "in_flight",
			Help:      "当前正在处理的页面请求数量。",
		},
	)
)

// GinMiddleware 为 Gin 路由注册页面渲染指标采集逻辑。
// route 维度使用路由模板（如 /admin/skills/:id/edit），避免按具体 ID 炸开基数。
func GinMiddleware() gin.HandlerFunc {
	registerOnce.Do(func() {
		prometheus.MustRegister(pageDuration, pagesRendered, pagesInFlight)
	})

	return func(c *gin.Context) {
		start := time.Now()
		pagesInFlight.Inc()
		defer pagesInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"route":  route,
			"status": strconv.Itoa(c.Writer.Status()),
		}

		pageDuration.With(labels).Observe(time.Since(start).Seconds())
		pagesRendered.With(labels).Inc()
	}
}
