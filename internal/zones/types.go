// 包 zones：LMI 资格区（人口普查区多边形）的只读模型、GeoJSON 解析与落点判定
package zones

import (
	"strings"

	"github.com/paulmach/orb"
)

// 文档注释：单个资格区
// 背景：来自人口普查/电力服务区管线产出的 blue_zones.geojson；一次加载，会话内只读。
// 约束：几何仅支持 Polygon/MultiPolygon；Bound 在解析时预计算，用于视野适配与候选过滤。
type Zone struct {
	GEOID    string
	Name     string
	County   string
	Geometry orb.Geometry
	Bound    orb.Bound
}

// Label：悬停标签，名称 / GEOID / 县名（县名缺省时省略）
func (z Zone) Label() string {
	parts := []string{z.Name, z.GEOID}
	if z.County != "" {
		parts = append(parts, z.County)
	}
	return strings.Join(parts, " / ")
}

// 资格区集合：保持文件顺序，附带全部区域包围盒的并集
type Collection struct {
	Zones []Zone
	bound orb.Bound
}

func NewCollection(zs []Zone) *Collection {
	c := &Collection{Zones: zs}
	for i, z := range zs {
		if i == 0 {
			c.bound = z.Bound
			continue
		}
		c.bound = c.bound.Union(z.Bound)
	}
	return c
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Zones)
}

// Bounds：全部区域包围盒的并集；空集合返回 false
func (c *Collection) Bounds() (orb.Bound, bool) {
	if c.Len() == 0 {
		return orb.Bound{}, false
	}
	return c.bound, true
}
