package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_http_requests_total",
		Help: "Total HTTP requests by route and status class",
	}, []string{"route", "code"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "canvass_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	DataLoadTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_data_load_total",
		Help: "Startup document loads by source and status",
	}, []string{"source", "status"})
	SessionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "canvass_sessions_created_total",
		Help: "Total canvassing sessions started (one per page load)",
	})
	RouteTogglesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_route_toggles_total",
		Help: "Route membership toggles by resulting action",
	}, []string{"action"})
	OutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_outcomes_total",
		Help: "Door outcomes recorded by outcome",
	}, []string{"outcome"})
	SheetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_street_sheets_total",
		Help: "Street sheets rendered by format and row source",
	}, []string{"format", "source"})
	LocateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_locate_total",
		Help: "Location control results",
	}, []string{"status"})
	LayerOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "canvass_layer_ops_total",
		Help: "Map layer operations emitted to the page",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(DataLoadTotal)
	prometheus.MustRegister(SessionsCreatedTotal)
	prometheus.MustRegister(RouteTogglesTotal)
	prometheus.MustRegister(OutcomesTotal)
	prometheus.MustRegister(SheetsTotal)
	prometheus.MustRegister(LocateTotal)
	prometheus.MustRegister(LayerOpsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 API 前缀下的 /metrics，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
