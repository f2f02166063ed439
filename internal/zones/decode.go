package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var errNoFeatures = errors.New("missing features")

// 文档注释：解析资格区 FeatureCollection
// 背景：属性使用人口普查字段名 GEOID/NAME/COUNTY_NAME；GEOID 可能被导出为数字，统一转为文本。
// 约束：缺少 features、缺少 GEOID/NAME 或几何非面状时整体失败，由加载层降级为空集合。
func Decode(b []byte) (*Collection, error) {
	var head struct {
		Features json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	if len(head.Features) == 0 || string(head.Features) == "null" {
		return nil, errNoFeatures
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	zs := make([]Zone, 0, len(fc.Features))
	for i, f := range fc.Features {
		z, err := zoneFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", i, err)
		}
		zs = append(zs, z)
	}
	return NewCollection(zs), nil
}

func zoneFromFeature(f *geojson.Feature) (Zone, error) {
	var z Zone
	geoid, ok := propString(f.Properties, "GEOID")
	if !ok {
		return z, errors.New(`missing property "GEOID"`)
	}
	name, ok := propString(f.Properties, "NAME")
	if !ok {
		return z, errors.New(`missing property "NAME"`)
	}
	county, _ := propString(f.Properties, "COUNTY_NAME")
	switch f.Geometry.(type) {
	case orb.Polygon, orb.MultiPolygon:
	case nil:
		return z, errors.New("missing geometry")
	default:
		return z, fmt.Errorf("unsupported geometry %s", f.Geometry.GeoJSONType())
	}
	z.GEOID = geoid
	z.Name = name
	z.County = county
	z.Geometry = f.Geometry
	z.Bound = f.Geometry.Bound()
	return z, nil
}

func propString(p geojson.Properties, key string) (string, bool) {
	switch v := p[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// FeatureCollection：重新编码为 GeoJSON，供 /data/zones 原样下发
func (c *Collection) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if c == nil {
		return fc
	}
	for _, z := range c.Zones {
		f := geojson.NewFeature(z.Geometry)
		f.Properties["GEOID"] = z.GEOID
		f.Properties["NAME"] = z.Name
		if z.County != "" {
			f.Properties["COUNTY_NAME"] = z.County
		}
		fc.Append(f)
	}
	return fc
}
