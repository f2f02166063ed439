// 包 render：把（资格区、目标、路线、图层开关）单向投影为地图图层操作
//
// 地图组件（Leaflet）被抽象为 Widget；MapView 只记录“画了什么”，不持有业务状态。
package render

import (
	"canvass-map/internal/targets"
)

// LatLng：Leaflet 坐标顺序 [纬度, 经度]
type LatLng [2]float64

type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

type LayerID string

const (
	LayerZones    LayerID = "zones"
	LayerTargets  LayerID = "targets"
	LayerRoute    LayerID = "route"
	LayerLocation LayerID = "location"
)

// 图层样式（颜色属于样式选择，不是契约）
type Style struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillColor   string  `json:"fill_color,omitempty"`
	FillOpacity float64 `json:"fill_opacity,omitempty"`
	DashArray   string  `json:"dash_array,omitempty"`
}

var (
	zoneStyle  = Style{Color: "#1d4ed8", Weight: 1, Opacity: 0.8, FillColor: "#3b82f6", FillOpacity: 0.25}
	routeStyle = Style{Color: "#7c3aed", Weight: 3, Opacity: 0.9, DashArray: "6 4"}
	tierColors = map[targets.Tier]string{
		targets.TierHigh:   "#16a34a",
		targets.TierMedium: "#f59e0b",
		targets.TierLow:    "#dc2626",
	}
)

// ZoneShape：一个资格区的多边形（面 → 环 → 点）与悬停标签
type ZoneShape struct {
	GEOID    string       `json:"geoid"`
	Label    string       `json:"label"`
	Polygons [][][]LatLng `json:"polygons"`
}

// Popup：弹窗只读展示目标的全部属性
type Popup struct {
	ID      string  `json:"id"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Score   float64 `json:"score"`
	LMI     bool    `json:"lmi"`
	KWh     float64 `json:"kwh"`
	Owner   bool    `json:"owner"`
	SqFt    float64 `json:"sqft"`
	Year    int     `json:"year"`
	Zone    string  `json:"zone,omitempty"`
}

type Marker struct {
	TargetID string       `json:"target_id"`
	Position LatLng       `json:"position"`
	Label    string       `json:"label"`
	Tier     targets.Tier `json:"tier"`
	Color    string       `json:"color"`
	Popup    Popup        `json:"popup"`
}

// Badge：路线顺序角标，Seq 从 1 开始
type Badge struct {
	Seq      int    `json:"seq"`
	TargetID string `json:"target_id"`
	Position LatLng `json:"position"`
}

type Path struct {
	Points []LatLng `json:"points"`
	Badges []Badge  `json:"badges"`
}

// Pin：定位按钮落下的固定标记
type Pin struct {
	Position LatLng  `json:"position"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// Layer：一次 add 操作携带的完整图层内容
type Layer struct {
	ID      LayerID     `json:"id"`
	Style   *Style      `json:"style,omitempty"`
	Zones   []ZoneShape `json:"zones,omitempty"`
	Markers []Marker    `json:"markers,omitempty"`
	Path    *Path       `json:"path,omitempty"`
	Pin     *Pin        `json:"pin,omitempty"`
}
