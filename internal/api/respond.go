package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"canvass-map/internal/metrics"
	"canvass-map/internal/render"
	"canvass-map/internal/session"

	"github.com/gorilla/mux"
)

// 请求体上限：所有写接口只携带少量字段
const maxBody = 1 << 16

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeBody：严格解析 JSON 请求体，未知字段视为错误
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// storeError：会话存储错误到状态码
func (s *server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errUnknownTarget):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrConflict):
		writeError(w, http.StatusConflict, "session busy, retry")
	default:
		s.log.Error("session_store_error", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// countOps：按提交后的结果统计图层操作，会话更新重试不会重复计数
func countOps(ops []render.Op) {
	for _, op := range ops {
		metrics.LayerOpsTotal.WithLabelValues(string(op.Kind)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument：按路由模板统计请求数与耗时，避免把会话 ID 写进标签；未匹配的请求记为 unmatched
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(sw.status/100)+"xx").Inc()
	})
}
