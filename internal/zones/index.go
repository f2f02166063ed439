package zones

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	geohash "github.com/TomiHiltunen/geohash-golang"
)

// 缓存键精度：9 位 geohash 约 5 米见方，小于相邻地址间距
const keyPrecision = 9

// 文档注释：落点索引（包围盒候选 → 多边形精确判定）
// 背景：为目标弹窗标注所在 LMI 区；区域数量为数百级，线性包围盒过滤即可满足。
// 约束：多个区域重叠时返回文件顺序中的第一个；点在所有区域外返回 false。
type Index struct {
	zones []Zone
	cache *lru
}

func NewIndex(c *Collection, cacheSize int) *Index {
	ix := &Index{cache: newLRU(cacheSize)}
	if c != nil {
		ix.zones = c.Zones
	}
	return ix
}

// Locate：返回包含该坐标（WGS84）的区域
func (ix *Index) Locate(lat, lng float64) (Zone, bool) {
	if ix == nil || len(ix.zones) == 0 {
		return Zone{}, false
	}
	key := cellKey(lat, lng)
	if idx, ok := ix.cache.get(key); ok {
		if idx < 0 {
			return Zone{}, false
		}
		return ix.zones[idx], true
	}
	pt := orb.Point{lng, lat}
	for i := range ix.zones {
		z := &ix.zones[i]
		if !z.Bound.Contains(pt) {
			continue
		}
		if contains(z.Geometry, pt) {
			ix.cache.set(key, i)
			return *z, true
		}
	}
	ix.cache.set(key, -1)
	return Zone{}, false
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch v := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(v, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(v, pt)
	}
	return false
}

func cellKey(lat, lng float64) string {
	h := geohash.Encode(lat, lng)
	if len(h) > keyPrecision {
		h = h[:keyPrecision]
	}
	return h
}
