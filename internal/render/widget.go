package render

// 文档注释：地图组件适配接口
// 背景：每个地图库实现一次；状态持有者与加载器与具体地图库无关。
// 约束：RemoveLayer 对不存在的图层应为空操作。
type Widget interface {
	AddLayer(l Layer)
	RemoveLayer(id LayerID)
	FitBounds(b Bounds)
	SetView(center LatLng, zoom int)
}

type OpKind string

const (
	OpAdd       OpKind = "add"
	OpRemove    OpKind = "remove"
	OpFitBounds OpKind = "fit_bounds"
	OpSetView   OpKind = "set_view"
)

// Op：页面端按顺序应用到 Leaflet 的一条指令
type Op struct {
	Kind    OpKind  `json:"op"`
	Layer   *Layer  `json:"layer,omitempty"`
	LayerID LayerID `json:"layer_id,omitempty"`
	Bounds  *Bounds `json:"bounds,omitempty"`
	Center  *LatLng `json:"center,omitempty"`
	Zoom    int     `json:"zoom,omitempty"`
}

// 文档注释：Leaflet 指令记录器
// 背景：服务端不直接操作浏览器中的地图；把操作按顺序记录下来，由页面脚本（app.js）依次执行。
// 约束：只记录不计数；会话更新可能重试，指标由调用方在提交后统计。
type Recorder struct {
	Ops []Op
}

func (r *Recorder) AddLayer(l Layer) {
	r.Ops = append(r.Ops, Op{Kind: OpAdd, Layer: &l})
}

func (r *Recorder) RemoveLayer(id LayerID) {
	r.Ops = append(r.Ops, Op{Kind: OpRemove, LayerID: id})
}

func (r *Recorder) FitBounds(b Bounds) {
	r.Ops = append(r.Ops, Op{Kind: OpFitBounds, Bounds: &b})
}

func (r *Recorder) SetView(center LatLng, zoom int) {
	r.Ops = append(r.Ops, Op{Kind: OpSetView, Center: &center, Zoom: zoom})
}

// Result：序列化用，nil 切片输出为空数组
func (r *Recorder) Result() []Op {
	if r.Ops == nil {
		return []Op{}
	}
	return r.Ops
}
