// 包 canvass：一次上门拜访会话的视图状态（图层开关、路线、战果计数）
//
// 所有操作都是当前状态上的全函数，不返回错误；字符串到枚举的转换在 HTTP 边界完成。
package canvass

import (
	"errors"
	"slices"

	"canvass-map/internal/targets"
)

// 图层标识
type Layer string

const (
	LayerZones   Layer = "zones"
	LayerTargets Layer = "targets"
	LayerRoute   Layer = "route"
)

var ErrUnknownLayer = errors.New("unknown layer")

// ParseLayer：校验外部传入的图层名
func ParseLayer(s string) (Layer, error) {
	switch l := Layer(s); l {
	case LayerZones, LayerTargets, LayerRoute:
		return l, nil
	}
	return "", ErrUnknownLayer
}

// 三个互相独立的可见性开关
type Visibility struct {
	Zones   bool `json:"zones"`
	Targets bool `json:"targets"`
	Route   bool `json:"route"`
}

// 上门结果
type Outcome string

const (
	OutcomeDeal          Outcome = "deal"
	OutcomeCallback      Outcome = "callback"
	OutcomeNotInterested Outcome = "not-interested"
	OutcomeNotHome       Outcome = "not-home"
)

var ErrUnknownOutcome = errors.New("unknown outcome")

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomeDeal, OutcomeCallback, OutcomeNotInterested, OutcomeNotHome:
		return o, nil
	}
	return "", ErrUnknownOutcome
}

// 文档注释：会话战果计数
// 约束：只增不减；仅整页刷新（新会话）时归零，不持久化。
type Tally struct {
	Doors     int `json:"doors"`
	Deals     int `json:"deals"`
	Callbacks int `json:"callbacks"`
}

// 文档注释：视图状态
// 背景：Route 保存目标 ID，按加入顺序排列，作为路线列表的展示顺序；同一目标最多出现一次。
type State struct {
	Layers Visibility `json:"layers"`
	Route  []string   `json:"route"`
	Tally  Tally      `json:"tally"`
}

// NewState：初始状态，资格区与目标图层可见，路线图层关闭
func NewState() State {
	return State{Layers: Visibility{Zones: true, Targets: true}, Route: []string{}}
}

// SetLayer：直接设置单个图层开关，不影响其他图层
func (s *State) SetLayer(l Layer, visible bool) {
	switch l {
	case LayerZones:
		s.Layers.Zones = visible
	case LayerTargets:
		s.Layers.Targets = visible
	case LayerRoute:
		s.Layers.Route = visible
	}
}

// 文档注释：切换目标的路线成员关系
// 背景：在地图上点击标记加入路线，再点一次移出；连续两次调用恢复原序列，其余成员相对顺序不变。
// 返回：true 表示本次加入，false 表示本次移出。
func (s *State) ToggleRouteMembership(t targets.Target) bool {
	if i := slices.Index(s.Route, t.ID); i >= 0 {
		s.Route = slices.Delete(s.Route, i, i+1)
		return false
	}
	s.Route = append(s.Route, t.ID)
	return true
}

// ClearRoute：清空路线并强制关闭路线图层
func (s *State) ClearRoute() {
	s.Route = []string{}
	s.Layers.Route = false
}

// RecordOutcome：敲门数无条件 +1，成交/回访再各自 +1；不影响路线
func (s *State) RecordOutcome(o Outcome) {
	s.Tally.Doors++
	switch o {
	case OutcomeDeal:
		s.Tally.Deals++
	case OutcomeCallback:
		s.Tally.Callbacks++
	}
}

func (s *State) InRoute(id string) bool { return slices.Contains(s.Route, id) }
