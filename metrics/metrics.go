// Package metrics provides Prometheus metrics for the trading terminal
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RESTRequests 按端点统计的 REST 请求数量
	RESTRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_rest_requests_total",
		Help: "REST 请求数量",
	}, []string{"endpoint"})

	// RESTErrors 按端点统计的传输层失败数量
	RESTErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trader_rest_errors_total",
		Help: "REST 传输失败数量",
	}, []string{"endpoint"})

	// RESTLatency 按端点统计的请求耗时
	RESTLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trader_rest_latency_seconds",
		Help:    "REST 请求耗时",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// OrdersPlaced 本进程被交易所接受的委托数量
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trader_orders_placed_total",
		Help: "已接受委托数量",
	})
)

// ObserveRequest 记录一次 REST 调用的结果与耗时。
func ObserveRequest(endpoint string, d time.Duration, failed bool) {
	RESTRequests.WithLabelValues(endpoint).Inc()
	if failed {
		RESTErrors.WithLabelValues(endpoint).Inc()
	}
	RESTLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
