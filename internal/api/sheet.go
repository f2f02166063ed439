package api

import (
	"bytes"
	"net/http"

	"canvass-map/internal/metrics"
	"canvass-map/internal/sheet"
	"canvass-map/internal/targets"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 街道表是自包含的打印页：只有内联样式与一段内联打印脚本，不访问任何外部资源
const sheetCSP = "default-src 'none'; style-src 'unsafe-inline'; script-src 'unsafe-inline'"

// buildSheet：session 参数可选；缺省时路线视为空，打印全部目标
func (s *server) buildSheet(w http.ResponseWriter, r *http.Request) (sheet.Sheet, bool) {
	ds := s.loader.Dataset()
	var route []targets.Target
	if id := r.URL.Query().Get("session"); id != "" {
		rec, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			s.storeError(w, r, err)
			return sheet.Sheet{}, false
		}
		route = ds.Targets.Resolve(rec.State.Route)
	}
	return sheet.Build(ds.Targets.All(), route), true
}

// GET /sheet?session=&print=1：可打印街道表，print=1 时页面加载后自动调用浏览器打印
func (s *server) sheetHTML(w http.ResponseWriter, r *http.Request) {
	sh, ok := s.buildSheet(w, r)
	if !ok {
		return
	}
	sh.AutoPrint = r.URL.Query().Get("print") == "1"
	var buf bytes.Buffer
	if err := sh.WriteHTML(&buf); err != nil {
		s.log.Error("sheet_render_error", "format", "html", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.SheetsTotal.WithLabelValues("html", sh.Source).Inc()
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Header().Set("content-security-policy", sheetCSP)
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *server) sheetXLSX(w http.ResponseWriter, r *http.Request) {
	sh, ok := s.buildSheet(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := sh.WriteXLSX(&buf); err != nil {
		s.log.Error("sheet_render_error", "format", "xlsx", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.SheetsTotal.WithLabelValues("xlsx", sh.Source).Inc()
	w.Header().Set("content-type", xlsxType)
	w.Header().Set("content-disposition", `attachment; filename="street_sheet.xlsx"`)
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
