// 包 locate：地图初始中心估算（GeoIP）与设备定位结果的适配
package locate

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"
)

// 城市级 GeoIP 命中后的缩放级别
const cityZoom = 11

// Center：初始视野
type Center struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Zoom   int     `json:"zoom"`
	Source string  `json:"source"`
}

// 文档注释：初始中心解析器
// 背景：资格区加载完成前（或为空时）地图需要一个合理的起始视野；有 GeoLite2-City 库时按访问者 IP 估算，否则使用配置的默认中心。
// 约束：内网/未知 IP 返回默认中心；库文件缺失不影响启动。
type Resolver struct {
	db  *geoip2.Reader
	def Center
}

func NewResolver(path string, def Center) (*Resolver, error) {
	def.Source = "default"
	r := &Resolver{def: def}
	if path == "" {
		return r, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return r, err
	}
	if md := db.Metadata(); !hasLocations(md) {
		_ = db.Close()
		return r, fmt.Errorf("geoip database %q has no city locations", md.DatabaseType)
	}
	r.db = db
	return r, nil
}

// hasLocations：只有 City 库带经纬度；Country/ASN 库打开成功也无法估算中心
func hasLocations(md maxminddb.Metadata) bool {
	return strings.Contains(md.DatabaseType, "City")
}

func (r *Resolver) CenterFor(ip string) Center {
	if r == nil {
		return Center{}
	}
	if r.db == nil {
		return r.def
	}
	p := net.ParseIP(ip)
	if p == nil || p.IsPrivate() || p.IsLoopback() {
		return r.def
	}
	rec, err := r.db.City(p)
	if err != nil || (rec.Location.Latitude == 0 && rec.Location.Longitude == 0) {
		return r.def
	}
	return Center{Lat: rec.Location.Latitude, Lng: rec.Location.Longitude, Zoom: cityZoom, Source: "geoip"}
}

func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
