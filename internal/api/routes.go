// 包 api：集中注册 HTTP API 路由以解耦主入口；页面上的每次交互都对应这里的一个端点
package api

import (
	"log/slog"
	"net/http"

	"canvass-map/internal/loader"
	"canvass-map/internal/locate"
	"canvass-map/internal/session"

	"github.com/gorilla/mux"
)

// Deps：路由依赖
type Deps struct {
	Loader   *loader.Loader
	Sessions session.Store
	Centers  *locate.Resolver
	Log      *slog.Logger
}

type server struct {
	loader   *loader.Loader
	sessions session.Store
	centers  *locate.Resolver
	log      *slog.Logger
}

// 构建并返回 API 路由：主入口以 StripPrefix 挂载到 API_BASE 下
func BuildRoutes(d Deps) *mux.Router {
	s := &server{loader: d.Loader, sessions: d.Sessions, centers: d.Centers, log: d.Log}
	if s.log == nil {
		s.log = slog.Default()
	}
	r := mux.NewRouter()
	r.Use(instrument)

	r.HandleFunc("/sessions", s.createSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", s.getSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/layers/{layer}", s.setLayer).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{id}/route/toggle", s.toggleRoute).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/route", s.clearRoute).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/outcomes", s.recordOutcome).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/render", s.render).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/locate", s.locate).Methods(http.MethodPost)

	r.HandleFunc("/data/zones", s.zones).Methods(http.MethodGet)
	r.HandleFunc("/data/targets", s.targets).Methods(http.MethodGet)

	r.HandleFunc("/sheet", s.sheetHTML).Methods(http.MethodGet)
	r.HandleFunc("/sheet.xlsx", s.sheetXLSX).Methods(http.MethodGet)

	r.HandleFunc("/center", s.center).Methods(http.MethodGet)

	r.NotFoundHandler = instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	}))
	r.MethodNotAllowedHandler = instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))
	return r
}
