package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"canvass-map/internal/canvass"
	"canvass-map/internal/locate"
	"canvass-map/internal/metrics"
	"canvass-map/internal/render"
	"canvass-map/internal/session"
	"canvass-map/internal/targets"

	"github.com/gorilla/mux"
)

var (
	errBadRequest    = errors.New("bad request")
	errUnknownTarget = errors.New("unknown target")
)

// routeStop：路线列表中的一项，按加入顺序展示
type routeStop struct {
	ID      string       `json:"id"`
	Address string       `json:"address"`
	Score   float64      `json:"score"`
	Tier    targets.Tier `json:"tier"`
}

// 文档注释：会话视图（对外）
// 背景：每次交互都返回完整的开关、路线、计数，以及页面需要依次应用的图层操作。
// 约束：加载未结束时 Ops 为空数组、Loading 为 true，页面轮询 render 端点直到加载结束。
// Ops 是相对上一版本的增量：页面只应用 Version 恰好加一的响应，Reset 为 true 的响应是全量重绘。
type view struct {
	Session string             `json:"session"`
	Version int64              `json:"version"`
	Reset   bool               `json:"reset,omitempty"`
	Layers  canvass.Visibility `json:"layers"`
	Route   []routeStop        `json:"route"`
	Tally   canvass.Tally      `json:"tally"`
	Loading bool               `json:"loading"`
	Zones   int                `json:"zones"`
	Targets int                `json:"targets"`
	Ops     []render.Op        `json:"ops"`
	Notice  string             `json:"notice,omitempty"`
	Added   *bool              `json:"added,omitempty"`
}

func (s *server) view(rec *session.Record, ops []render.Op) view {
	ds := s.loader.Dataset()
	stops := make([]routeStop, 0, len(rec.State.Route))
	for _, t := range ds.Targets.Resolve(rec.State.Route) {
		stops = append(stops, routeStop{ID: t.ID, Address: t.Address, Score: t.Score, Tier: t.Tier()})
	}
	if ops == nil {
		ops = []render.Op{}
	}
	return view{
		Session: rec.ID,
		Version: rec.Version,
		Layers:  rec.State.Layers,
		Route:   stops,
		Tally:   rec.State.Tally,
		Loading: s.loader.Loading(),
		Zones:   ds.Zones.Len(),
		Targets: ds.Targets.Len(),
		Ops:     ops,
	}
}

// project：把会话状态渲染为图层操作并更新已绘制指纹；加载中不渲染
func (s *server) project(rec *session.Record) []render.Op {
	if s.loader.Loading() {
		return []render.Op{}
	}
	ds := s.loader.Dataset()
	rc := &render.Recorder{}
	mv := render.NewMapView(rc, rec.Drawn, ds.ZoneOf)
	mv.Render(ds.Zones, ds.Targets.All(), ds.Targets.Resolve(rec.State.Route), rec.State.Layers)
	rec.Drawn = mv.Drawn()
	return rc.Result()
}

// 文档注释：会话上的一次读-改-写
// 背景：所有交互共享同一流程：修改状态、重新渲染、写回会话；fn 返回错误时不写回。
// 约束：Redis 后端冲突重试时 fn 可能执行多次，因此 fn 内不得有外部副作用。
func (s *server) mutate(w http.ResponseWriter, r *http.Request, fn func(rec *session.Record) error) (*session.Record, []render.Op, bool) {
	id := mux.Vars(r)["id"]
	var ops []render.Op
	rec, err := s.sessions.Update(r.Context(), id, func(rec *session.Record) error {
		if fn != nil {
			if err := fn(rec); err != nil {
				return err
			}
		}
		ops = s.project(rec)
		return nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return nil, nil, false
	}
	countOps(ops)
	return rec, ops, true
}

// POST /sessions：页面加载即开启新会话
func (s *server) createSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sessions.Create(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	metrics.SessionsCreatedTotal.Inc()
	var ops []render.Op
	rec, err = s.sessions.Update(r.Context(), rec.ID, func(rec *session.Record) error {
		ops = s.project(rec)
		return nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	countOps(ops)
	s.log.Debug("session_created", "session", rec.ID, "loading", s.loader.Loading())
	writeJSON(w, http.StatusCreated, s.view(rec, ops))
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sessions.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(rec, nil))
}

type layerRequest struct {
	Visible *bool `json:"visible"`
}

// PUT /sessions/{id}/layers/{layer}
func (s *server) setLayer(w http.ResponseWriter, r *http.Request) {
	layer, err := canvass.ParseLayer(mux.Vars(r)["layer"])
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req layerRequest
	if err := decodeBody(r, &req); err != nil || req.Visible == nil {
		writeError(w, http.StatusBadRequest, "body must be {\"visible\": bool}")
		return
	}
	rec, ops, ok := s.mutate(w, r, func(rec *session.Record) error {
		rec.State.SetLayer(layer, *req.Visible)
		return nil
	})
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.view(rec, ops))
}

type toggleRequest struct {
	TargetID string `json:"target_id"`
}

// POST /sessions/{id}/route/toggle：标记点击一次调用一次
func (s *server) toggleRoute(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil || req.TargetID == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"target_id\": string}")
		return
	}
	var added bool
	rec, ops, ok := s.mutate(w, r, func(rec *session.Record) error {
		t, found := s.loader.Dataset().Targets.Get(req.TargetID)
		if !found {
			return fmt.Errorf("%w: %s", errUnknownTarget, req.TargetID)
		}
		added = rec.State.ToggleRouteMembership(t)
		return nil
	})
	if !ok {
		return
	}
	action := "removed"
	if added {
		action = "added"
	}
	metrics.RouteTogglesTotal.WithLabelValues(action).Inc()
	v := s.view(rec, ops)
	v.Added = &added
	writeJSON(w, http.StatusOK, v)
}

// DELETE /sessions/{id}/route
func (s *server) clearRoute(w http.ResponseWriter, r *http.Request) {
	rec, ops, ok := s.mutate(w, r, func(rec *session.Record) error {
		rec.State.ClearRoute()
		return nil
	})
	if !ok {
		return
	}
	metrics.RouteTogglesTotal.WithLabelValues("cleared").Inc()
	writeJSON(w, http.StatusOK, s.view(rec, ops))
}

type outcomeRequest struct {
	Outcome string `json:"outcome"`
}

// POST /sessions/{id}/outcomes：未知结果在进入状态之前拒绝
func (s *server) recordOutcome(w http.ResponseWriter, r *http.Request) {
	var req outcomeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be {\"outcome\": string}")
		return
	}
	o, err := canvass.ParseOutcome(req.Outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, ops, ok := s.mutate(w, r, func(rec *session.Record) error {
		rec.State.RecordOutcome(o)
		return nil
	})
	if !ok {
		return
	}
	metrics.OutcomesTotal.WithLabelValues(string(o)).Inc()
	writeJSON(w, http.StatusOK, s.view(rec, ops))
}

type renderRequest struct {
	Reset bool `json:"reset"`
}

// POST /sessions/{id}/render：相同状态重复调用不产生操作；body {"reset":true} 时全量重绘
func (s *server) render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "body must be empty or {\"reset\": bool}")
			return
		}
	}
	if !req.Reset {
		rec, ops, ok := s.mutate(w, r, nil)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, s.view(rec, ops))
		return
	}
	var ops []render.Op
	rec, err := s.sessions.Update(r.Context(), mux.Vars(r)["id"], func(rec *session.Record) error {
		ops = s.resync(rec)
		return nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	countOps(ops)
	v := s.view(rec, ops)
	v.Reset = true
	writeJSON(w, http.StatusOK, v)
}

// resync：丢弃已绘制指纹，按当前状态重新生成三个数据图层；加载中只发移除
func (s *server) resync(rec *session.Record) []render.Op {
	ds := s.loader.Dataset()
	rc := &render.Recorder{}
	mv := render.NewMapView(rc, rec.Drawn, ds.ZoneOf)
	if s.loader.Loading() {
		mv.Reset(nil, nil, nil, canvass.Visibility{})
	} else {
		mv.Reset(ds.Zones, ds.Targets.All(), ds.Targets.Resolve(rec.State.Route), rec.State.Layers)
	}
	rec.Drawn = mv.Drawn()
	return rc.Result()
}

// 文档注释：定位结果上报
// 背景：页面获取一次高精度定位后上报坐标或失败原因；成功时返回移动视野与落点操作，失败时只返回一行提示。
// 约束：失败不修改任何图层，也不重试。
func (s *server) locate(w http.ResponseWriter, r *http.Request) {
	var fix locate.Fix
	if err := decodeBody(r, &fix); err != nil {
		writeError(w, http.StatusBadRequest, "body must be {\"lat\",\"lng\",\"accuracy\"} or {\"error\"}")
		return
	}
	var (
		notice string
		found  bool
		ops    []render.Op
	)
	rec, err := s.sessions.Update(r.Context(), mux.Vars(r)["id"], func(rec *session.Record) error {
		rc := &render.Recorder{}
		mv := render.NewMapView(rc, rec.Drawn, nil)
		notice, found = mv.Locate(r.Context(), fix)
		rec.Drawn = mv.Drawn()
		ops = rc.Result()
		return nil
	})
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	countOps(ops)
	status := "ok"
	if !found {
		status = "error"
		s.log.Info("locate_failed", "session", rec.ID, "reason", fix.Error)
	}
	metrics.LocateTotal.WithLabelValues(status).Inc()
	v := s.view(rec, ops)
	v.Notice = notice
	writeJSON(w, http.StatusOK, v)
}

// GET /data/zones：原样回传加载到的资格区（GeoJSON）
func (s *server) zones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Dataset().Zones.FeatureCollection())
}

func (s *server) targets(w http.ResponseWriter, r *http.Request) {
	all := s.loader.Dataset().Targets.All()
	if all == nil {
		all = []targets.Target{}
	}
	writeJSON(w, http.StatusOK, all)
}

// GET /center：初始视野（GeoIP 或默认中心）
func (s *server) center(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.centers.CenterFor(locate.ClientIP(r)))
}
