// 程序入口：仅负责读取配置、初始化依赖并启动服务；API 注册在 internal/api 以便扩展
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"canvass-map/internal/api"
	"canvass-map/internal/config"
	"canvass-map/internal/loader"
	"canvass-map/internal/locate"
	"canvass-map/internal/logger"
	"canvass-map/internal/metrics"
	"canvass-map/internal/middleware"
	"canvass-map/internal/session"
	"canvass-map/internal/utils"
	"canvass-map/internal/web"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok")
	cfg := config.FromEnv()
	l.Debug("config_api_base", "base", cfg.APIBase)
	ctx := context.Background()

	zs, ts, closeSources := loader.SourcesFromConfig(ctx, cfg, l)
	defer closeSources()
	l.Debug("config_sources", "zones", cfg.ZonesPath, "zones_url", cfg.ZonesURL, "targets", cfg.TargetsSource)

	ld := loader.New(zs, ts, l)
	go ld.Load(ctx)

	var sessions session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.SessionBackend == config.BackendRedis {
		rc, err := utils.OpenRedisFromEnv(ctx)
		if err != nil {
			l.Error("redis_ping_error", "err", err, "fallback", "memory")
		} else {
			l.Info("redis_ping_ok")
			defer rc.Close()
			sessions = session.NewRedisStore(rc, cfg.SessionTTL)
		}
	}

	centers, err := locate.NewResolver(cfg.GeoIPPath, locate.Center{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng, Zoom: cfg.DefaultZoom})
	if err != nil {
		l.Warn("geoip_open_error", "path", cfg.GeoIPPath, "err", err)
	}
	defer centers.Close()

	mux := http.NewServeMux()
	// 文档注释：构建路由（携带加载器、会话存储与初始中心解析器）
	apiMux := api.BuildRoutes(api.Deps{Loader: ld, Sessions: sessions, Centers: centers, Log: l})
	mux.Handle(cfg.APIBase+"/", http.StripPrefix(cfg.APIBase, apiMux))
	mux.Handle(cfg.APIBase+"/metrics", metrics.Handler())
	mux.Handle("/", web.Handler(cfg.APIBase))

	handler := middleware.Chain(mux,
		handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)),
		middleware.RateLimit(cfg.RateLimitEnabled, cfg.RateLimitQPS),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: web.ContentSecurityPolicy}),
		logger.AccessMiddleware(l),
		handlers.CompressHandler,
	)
	s := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	if cfg.TLSEnable {
		hosts := strings.Split(os.Getenv("TLS_HOSTS"), ",")
		if err := utils.EnsureSelfSignedCert(cfg.TLSCertPath, cfg.TLSKeyPath, "canvass-map.local", hosts...); err != nil {
			l.Error("tls_cert_error", "err", err)
			os.Exit(1)
		}
		// 可选：启动HTTP重定向到HTTPS（不改变HTTPS运行端口）
		if os.Getenv("TLS_REDIRECT_ENABLE") == "true" {
			redirAddr := os.Getenv("TLS_REDIRECT_ADDR")
			if redirAddr == "" {
				redirAddr = ":80"
			}
			go serveRedirect(l, redirAddr, cfg.Addr)
		}
		l.Info("listening_tls", "addr", cfg.Addr, "cert", cfg.TLSCertPath)
		if err := s.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath); err != nil {
			l.Error("server_error", "err", err)
		}
		return
	}
	l.Info("listening", "addr", cfg.Addr)
	if err := s.ListenAndServe(); err != nil {
		l.Error("server_error", "err", err)
	}
}
