package main

import (
	"log/slog"
	"net/http"
	"strings"

	"canvass-map/internal/logger"
)

// serveRedirect：把明文 HTTP 请求重定向到 HTTPS 服务端口
func serveRedirect(l *slog.Logger, redirAddr, tlsAddr string) {
	httpsPort := strings.TrimPrefix(tlsAddr, ":")
	httpRedir := http.NewServeMux()
	httpRedir.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		baseHost := r.Host
		if i := strings.LastIndex(baseHost, ":"); i != -1 {
			baseHost = baseHost[:i]
		}
		targetHost := baseHost
		if httpsPort != "" && httpsPort != "443" {
			targetHost = baseHost + ":" + httpsPort
		}
		target := "https://" + targetHost + r.URL.RequestURI()
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		l.Debug("http_redirect", "from", r.Host, "to", target)
	})
	l.Info("http_redirect_listening", "addr", redirAddr, "to", "https"+tlsAddr)
	if err := http.ListenAndServe(redirAddr, logger.AccessMiddleware(l)(httpRedir)); err != nil {
		l.Error("http_redirect_error", "err", err)
	}
}
