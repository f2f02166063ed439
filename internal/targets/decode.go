package targets

import (
	"encoding/json"
	"fmt"
)

// 原始记录：指针字段用于区分“缺失”与“零值”
type record struct {
	ID      *string  `json:"id"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address *string  `json:"address"`
	Score   *float64 `json:"score"`
	LMI     *bool    `json:"lmi"`
	KWh     *float64 `json:"kwh"`
	Owner   *bool    `json:"owner"`
	SqFt    *float64 `json:"sqft"`
	Year    *int     `json:"year"`
}

// 文档注释：解析 ranked_targets.json（扁平数组）
// 背景：文档由离线管线生成；任一记录缺字段即视为整个文档不可用，由加载层降级为空集合。
// 返回：按文件顺序的目标列表；格式错误或缺字段时返回 error。
func Decode(b []byte) ([]Target, error) {
	var raw []record
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode targets: %w", err)
	}
	out := make([]Target, 0, len(raw))
	for i, r := range raw {
		if f := r.missing(); f != "" {
			return nil, fmt.Errorf("target %d: missing field %q", i, f)
		}
		out = append(out, Target{
			ID:      *r.ID,
			Lat:     *r.Lat,
			Lng:     *r.Lng,
			Address: *r.Address,
			Score:   *r.Score,
			LMI:     *r.LMI,
			KWh:     *r.KWh,
			Owner:   *r.Owner,
			SqFt:    *r.SqFt,
			Year:    *r.Year,
		})
	}
	return out, nil
}

func (r record) missing() string {
	switch {
	case r.ID == nil:
		return "id"
	case r.Lat == nil:
		return "lat"
	case r.Lng == nil:
		return "lng"
	case r.Address == nil:
		return "address"
	case r.Score == nil:
		return "score"
	case r.LMI == nil:
		return "lmi"
	case r.KWh == nil:
		return "kwh"
	case r.Owner == nil:
		return "owner"
	case r.SqFt == nil:
		return "sqft"
	case r.Year == nil:
		return "year"
	}
	return ""
}
