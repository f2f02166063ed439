package locate

import (
	"context"
	"errors"

	"canvass-map/internal/render"
)

// 文档注释：页面上报的一次定位结果
// 背景：浏览器调用 navigator.geolocation 获取一次高精度定位后，把坐标或失败原因交给服务端；服务端把它当作 Locator 使用。
// 约束：Error 非空即视为失败（拒绝授权、超时、不支持）；坐标越界同样视为失败。
type Fix struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy float64  `json:"accuracy"`
	Error    string   `json:"error"`
}

var errNoFix = errors.New("position unavailable")

func (f Fix) CurrentPosition(ctx context.Context) (render.LatLng, float64, error) {
	if f.Error != "" {
		return render.LatLng{}, 0, errors.New(f.Error)
	}
	if f.Lat == nil || f.Lng == nil {
		return render.LatLng{}, 0, errNoFix
	}
	if *f.Lat < -90 || *f.Lat > 90 || *f.Lng < -180 || *f.Lng > 180 {
		return render.LatLng{}, 0, errNoFix
	}
	return render.LatLng{*f.Lat, *f.Lng}, f.Accuracy, nil
}
