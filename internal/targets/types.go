// 包 targets：目标地址（待敲门的潜在客户）的只读数据模型、分级与排序规则
package targets

import (
	"cmp"
	"slices"
	"strconv"
)

// 文档注释：单个目标地址
// 背景：由离线评分管线生成，加载后在整个会话内只读；前端弹窗原样展示全部字段。
// 约束：Score/KWh/SqFt 按浮点承载以兼容整数与小数两种输出；Year 为建造年份。
type Target struct {
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
}

// 分级：高/中/低三档，颜色属于样式选择，不在此处固定
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// TierOf：≥80 高，60–79 中，<60 低
func TierOf(score float64) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 60:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Target) Tier() Tier { return TierOf(t.Score) }

// ScoreLabel：标记与纸质表格上显示的分数文本
func (t Target) ScoreLabel() string { return FormatNumber(t.Score) }

// FormatNumber：整数值不带小数点，其余保留必要位数
func FormatNumber(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// 文档注释：按分数降序排列（稳定排序）
// 背景：路线折线与打印路线均以“最高优先”展示，与点击顺序无关；同分保持原相对顺序。
// 约束：返回副本，不修改入参。
func ByScoreDesc(ts []Target) []Target {
	out := slices.Clone(ts)
	slices.SortStableFunc(out, func(a, b Target) int { return cmp.Compare(b.Score, a.Score) })
	return out
}
