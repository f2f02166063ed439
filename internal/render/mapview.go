package render

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"hash/fnv"

	"canvass-map/internal/canvass"
	"canvass-map/internal/targets"
	"canvass-map/internal/zones"

	"github.com/paulmach/orb"
)

// 定位成功后的缩放级别（街道级）
const locateZoom = 16

// Renderer：地图适配器契约
type Renderer interface {
	Render(zc *zones.Collection, all []targets.Target, route []targets.Target, flags canvass.Visibility)
}

// Drawn：已绘制图层 → 内容指纹；随会话保存，用于跨请求判断增删
type Drawn map[LayerID]string

// ZoneLookup：目标所在资格区（可选，用于弹窗）
type ZoneLookup func(t targets.Target) (zones.Zone, bool)

// 文档注释：Leaflet 版 Renderer
// 背景：把当前状态投影为图层增删；三个图层各自幂等、互不依赖；相同输入重复渲染不产生任何操作。
// 约束：重建图层时总是先移除旧图层再添加新图层，折线与角标不会累积。
type MapView struct {
	w      Widget
	drawn  Drawn
	zoneOf ZoneLookup
}

func NewMapView(w Widget, drawn Drawn, zoneOf ZoneLookup) *MapView {
	if drawn == nil {
		drawn = Drawn{}
	}
	return &MapView{w: w, drawn: drawn, zoneOf: zoneOf}
}

// Drawn：渲染后的图层指纹，调用方回写到会话
func (m *MapView) Drawn() Drawn { return m.drawn }

func (m *MapView) Render(zc *zones.Collection, all []targets.Target, route []targets.Target, flags canvass.Visibility) {
	m.renderZones(zc, flags.Zones)
	m.renderTargets(all, flags.Targets)
	m.renderRoute(all, route, flags.Route)
}

func (m *MapView) renderZones(zc *zones.Collection, visible bool) {
	if !visible || zc.Len() == 0 {
		m.remove(LayerZones)
		return
	}
	l := Layer{ID: LayerZones, Style: &zoneStyle, Zones: make([]ZoneShape, 0, zc.Len())}
	for _, z := range zc.Zones {
		l.Zones = append(l.Zones, ZoneShape{GEOID: z.GEOID, Label: z.Label(), Polygons: polygons(z.Geometry)})
	}
	if m.put(l) {
		b, _ := zc.Bounds()
		m.w.FitBounds(toBounds(b))
	}
}

func (m *MapView) renderTargets(all []targets.Target, visible bool) {
	if !visible || len(all) == 0 {
		m.remove(LayerTargets)
		return
	}
	l := Layer{ID: LayerTargets, Markers: make([]Marker, 0, len(all))}
	for _, t := range all {
		l.Markers = append(l.Markers, m.marker(t))
	}
	m.put(l)
}

// 文档注释：路线图层
// 背景：路线非空时按已选路线绘制，否则按全部目标绘制；两种情况都按分数降序连线并编号。
// 约束：路径来源不足两个目标时不绘制（包括零目标时打开路线开关）。
func (m *MapView) renderRoute(all []targets.Target, route []targets.Target, visible bool) {
	src := route
	if len(src) == 0 {
		src = all
	}
	if !visible || len(src) < 2 {
		m.remove(LayerRoute)
		return
	}
	ordered := targets.ByScoreDesc(src)
	p := &Path{Points: make([]LatLng, 0, len(ordered)), Badges: make([]Badge, 0, len(ordered))}
	for i, t := range ordered {
		pos := LatLng{t.Lat, t.Lng}
		p.Points = append(p.Points, pos)
		p.Badges = append(p.Badges, Badge{Seq: i + 1, TargetID: t.ID, Position: pos})
	}
	m.put(Layer{ID: LayerRoute, Style: &routeStyle, Path: p})
}

// 文档注释：全量重绘
// 背景：页面发现响应缺口（丢失或乱序）时请求重绘；先无条件移除三个数据图层再按当前状态重新添加。
// 约束：定位标记不受影响；页面端移除不存在的图层为空操作。
func (m *MapView) Reset(zc *zones.Collection, all []targets.Target, route []targets.Target, flags canvass.Visibility) {
	for _, id := range []LayerID{LayerZones, LayerTargets, LayerRoute} {
		m.w.RemoveLayer(id)
		delete(m.drawn, id)
	}
	m.Render(zc, all, route, flags)
}

// Locator：一次性获取设备当前位置
type Locator interface {
	CurrentPosition(ctx context.Context) (LatLng, float64, error)
}

// 文档注释：定位控件
// 背景：用户主动触发；成功则把视野移到当前位置并落下固定标记，失败只返回一行提示。
// 返回：失败时的提示文本与 false；失败不改变任何图层。每次调用都是独立请求，不自动重试。
func (m *MapView) Locate(ctx context.Context, loc Locator) (string, bool) {
	pos, acc, err := loc.CurrentPosition(ctx)
	if err != nil {
		return "Unable to get your location: " + err.Error(), false
	}
	m.w.SetView(pos, locateZoom)
	m.remove(LayerLocation)
	m.put(Layer{ID: LayerLocation, Pin: &Pin{Position: pos, Accuracy: acc}})
	return "", true
}

func (m *MapView) marker(t targets.Target) Marker {
	tier := t.Tier()
	mk := Marker{
		TargetID: t.ID,
		Position: LatLng{t.Lat, t.Lng},
		Label:    t.ScoreLabel(),
		Tier:     tier,
		Color:    tierColors[tier],
		Popup: Popup{
			ID: t.ID, Lat: t.Lat, Lng: t.Lng, Address: t.Address, Score: t.Score, LMI: t.LMI, KWh: t.KWh,
			Owner: t.Owner, SqFt: t.SqFt, Year: t.Year,
		},
	}
	if m.zoneOf != nil {
		if z, ok := m.zoneOf(t); ok {
			mk.Popup.Zone = z.Label()
		}
	}
	return mk
}

// put：内容与已绘制一致时不操作；否则先移除旧图层再添加。返回是否发生了重建
func (m *MapView) put(l Layer) bool {
	fp := fingerprint(l)
	if cur, ok := m.drawn[l.ID]; ok && cur == fp {
		return false
	}
	m.remove(l.ID)
	m.w.AddLayer(l)
	m.drawn[l.ID] = fp
	return true
}

func (m *MapView) remove(id LayerID) {
	if _, ok := m.drawn[id]; !ok {
		return
	}
	m.w.RemoveLayer(id)
	delete(m.drawn, id)
}

func fingerprint(l Layer) string {
	b, _ := json.Marshal(l)
	h := fnv.New64a()
	h.Write(b)
	return hex.EncodeToString(h.Sum(nil))
}

func polygons(g orb.Geometry) [][][]LatLng {
	switch v := g.(type) {
	case orb.Polygon:
		return [][][]LatLng{rings(v)}
	case orb.MultiPolygon:
		out := make([][][]LatLng, 0, len(v))
		for _, p := range v {
			out = append(out, rings(p))
		}
		return out
	}
	return nil
}

func rings(p orb.Polygon) [][]LatLng {
	out := make([][]LatLng, 0, len(p))
	for _, r := range p {
		pts := make([]LatLng, 0, len(r))
		for _, pt := range r {
			pts = append(pts, LatLng{pt.Lat(), pt.Lon()})
		}
		out = append(out, pts)
	}
	return out
}

func toBounds(b orb.Bound) Bounds {
	return Bounds{
		SouthWest: LatLng{b.Min.Lat(), b.Min.Lon()},
		NorthEast: LatLng{b.Max.Lat(), b.Max.Lon()},
	}
}
