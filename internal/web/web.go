// 包 web：内嵌的地图页面与 Leaflet 胶水脚本；页面只负责把服务端返回的图层操作应用到地图上
package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"canvass-map/internal/logger"
)

//go:embed public_html/*
var content embed.FS

var pageTmpl = template.Must(template.ParseFS(content, "public_html/index.html"))

// ContentSecurityPolicy：地图页只加载同源脚本与 unpkg 上的 Leaflet，瓦片来自 OSM；Leaflet 依赖内联样式
const ContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"img-src 'self' data: https://*.tile.openstreetmap.org https://unpkg.com; " +
	"connect-src 'self'; frame-ancestors 'none'"

// Page：页面模板参数
type Page struct {
	Title   string
	APIBase string
}

// 文档注释：页面与静态资源路由
// 背景：每次打开或刷新页面都会由脚本新建会话，因此路线与计数随刷新归零。
// 约束：只有根路径渲染页面，其余未知路径返回 404；/static/ 下为内嵌静态文件。
func Handler(apiBase string) http.Handler {
	staticFS, err := fs.Sub(content, "public_html")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		var buf bytes.Buffer
		if err := pageTmpl.Execute(&buf, Page{Title: "Solar Canvass Map", APIBase: apiBase}); err != nil {
			logger.L().Error("page_render_error", "err", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
	return mux
}
