package render

import (
	"context"
	"errors"
	"testing"

	"canvass-map/internal/canvass"
	"canvass-map/internal/targets"
	"canvass-map/internal/zones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tract = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"GEOID":"51710004100","NAME":"Census Tract 41","COUNTY_NAME":"Norfolk"},
  "geometry":{"type":"Polygon","coordinates":[[[-76.30,36.84],[-76.28,36.84],[-76.28,36.86],[-76.30,36.86],[-76.30,36.84]]]}}]}`

func sample() []targets.Target {
	return []targets.Target{
		{ID: "a", Lat: 36.851, Lng: -76.29, Score: 90, Address: "1 A St"},
		{ID: "b", Lat: 36.852, Lng: -76.29, Score: 40, Address: "2 B St"},
		{ID: "c", Lat: 36.853, Lng: -76.29, Score: 70, Address: "3 C St"},
	}
}

func mustZones(t *testing.T) *zones.Collection {
	t.Helper()
	c, err := zones.Decode([]byte(tract))
	require.NoError(t, err)
	return c
}

func kinds(ops []Op) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		id := op.LayerID
		if op.Layer != nil {
			id = op.Layer.ID
		}
		out = append(out, string(op.Kind)+":"+string(id))
	}
	return out
}

func TestRenderDrawsVisibleLayersAndFitsZones(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	mv.Render(mustZones(t), sample(), nil, canvass.Visibility{Zones: true, Targets: true})

	assert.Equal(t, []string{"add:zones", "fit_bounds:", "add:targets"}, kinds(rec.Ops))
	fit := rec.Ops[1].Bounds
	require.NotNil(t, fit)
	assert.Equal(t, LatLng{36.84, -76.30}, fit.SouthWest)
	assert.Equal(t, LatLng{36.86, -76.28}, fit.NorthEast)

	zl := rec.Ops[0].Layer
	require.Len(t, zl.Zones, 1)
	assert.Equal(t, "Census Tract 41 / 51710004100 / Norfolk", zl.Zones[0].Label)
	assert.Equal(t, LatLng{36.84, -76.30}, zl.Zones[0].Polygons[0][0][0])
}

func TestRenderIsIdempotent(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	flags := canvass.Visibility{Zones: true, Targets: true, Route: true}
	mv.Render(mustZones(t), sample(), nil, flags)
	require.NotEmpty(t, rec.Ops)

	rec.Ops = nil
	mv.Render(mustZones(t), sample(), nil, flags)
	assert.Empty(t, rec.Ops)

	// 跨请求：用保存的指纹重建 MapView 后仍然不产生操作
	rec2 := &Recorder{}
	NewMapView(rec2, mv.Drawn(), nil).Render(mustZones(t), sample(), nil, flags)
	assert.Empty(t, rec2.Ops)
}

func TestTurningLayerOffRemovesIt(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	mv.Render(mustZones(t), sample(), nil, canvass.Visibility{Zones: true, Targets: true})
	rec.Ops = nil

	mv.Render(mustZones(t), sample(), nil, canvass.Visibility{Targets: true})
	assert.Equal(t, []string{"remove:zones"}, kinds(rec.Ops))

	rec.Ops = nil
	mv.Render(mustZones(t), sample(), nil, canvass.Visibility{Targets: true})
	assert.Empty(t, rec.Ops, "removing an absent layer is a no-op")
}

func TestMarkersCarryTierLabelAndPopup(t *testing.T) {
	rec := &Recorder{}
	zc := mustZones(t)
	ix := zones.NewIndex(zc, 8)
	lookup := func(tg targets.Target) (zones.Zone, bool) { return ix.Locate(tg.Lat, tg.Lng) }
	mv := NewMapView(rec, nil, lookup)
	ts := []targets.Target{
		{ID: "h", Lat: 36.85, Lng: -76.29, Score: 80, Address: "h", LMI: true, KWh: 1300, Owner: true, SqFt: 2100, Year: 1970},
		{ID: "m", Lat: 37.0, Lng: -77.0, Score: 79, Address: "m"},
		{ID: "l", Lat: 37.0, Lng: -77.0, Score: 59.5, Address: "l"},
	}
	mv.Render(nil, ts, nil, canvass.Visibility{Targets: true})
	require.Len(t, rec.Ops, 1)
	ms := rec.Ops[0].Layer.Markers
	require.Len(t, ms, 3)

	assert.Equal(t, targets.TierHigh, ms[0].Tier)
	assert.Equal(t, "80", ms[0].Label)
	assert.Equal(t, "Census Tract 41 / 51710004100 / Norfolk", ms[0].Popup.Zone)
	assert.Equal(t, Popup{ID: "h", Lat: 36.85, Lng: -76.29, Address: "h", Score: 80, LMI: true, KWh: 1300, Owner: true, SqFt: 2100, Year: 1970, Zone: ms[0].Popup.Zone}, ms[0].Popup)
	assert.Equal(t, targets.TierMedium, ms[1].Tier)
	assert.Empty(t, ms[1].Popup.Zone)
	assert.Equal(t, targets.TierLow, ms[2].Tier)
	assert.Equal(t, "59.5", ms[2].Label)
	assert.NotEqual(t, ms[0].Color, ms[2].Color)
}

func routeLayer(t *testing.T, ops []Op) *Layer {
	t.Helper()
	for _, op := range ops {
		if op.Kind == OpAdd && op.Layer.ID == LayerRoute {
			return op.Layer
		}
	}
	t.Fatalf("no route layer in %v", kinds(ops))
	return nil
}

func TestRouteOrdersByDescendingScore(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	mv.Render(nil, sample(), nil, canvass.Visibility{Route: true})

	l := routeLayer(t, rec.Ops)
	var ids []string
	for _, b := range l.Path.Badges {
		ids = append(ids, b.TargetID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
	assert.Equal(t, 1, l.Path.Badges[0].Seq)
	assert.Equal(t, 3, l.Path.Badges[2].Seq)
	assert.Len(t, l.Path.Points, 3)
}

func TestRoutePrefersCuratedRoute(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	all := sample()
	route := []targets.Target{all[1], all[0]}
	mv.Render(nil, all, route, canvass.Visibility{Route: true})

	l := routeLayer(t, rec.Ops)
	require.Len(t, l.Path.Badges, 2)
	assert.Equal(t, "a", l.Path.Badges[0].TargetID)
	assert.Equal(t, "b", l.Path.Badges[1].TargetID)
}

func TestRouteRebuildRemovesPreviousFirst(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	all := sample()
	flags := canvass.Visibility{Route: true}
	mv.Render(nil, all, []targets.Target{all[0], all[1]}, flags)
	rec.Ops = nil

	mv.Render(nil, all, []targets.Target{all[0], all[1], all[2]}, flags)
	assert.Equal(t, []string{"remove:route", "add:route"}, kinds(rec.Ops))
}

func TestRouteNeverDrawnWithoutTargets(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	require.NotPanics(t, func() {
		mv.Render(nil, nil, nil, canvass.Visibility{Zones: true, Targets: true, Route: true})
	})
	assert.Empty(t, rec.Ops)

	one := sample()[:1]
	mv.Render(nil, one, one, canvass.Visibility{Route: true})
	assert.Empty(t, rec.Ops, "a single target cannot form a line")
}

type fixedLocator struct {
	pos LatLng
	err error
}

func (f fixedLocator) CurrentPosition(context.Context) (LatLng, float64, error) {
	return f.pos, 12, f.err
}

func TestLocateRecentersAndDropsPin(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	notice, ok := mv.Locate(context.Background(), fixedLocator{pos: LatLng{37.54, -77.43}})
	require.True(t, ok)
	assert.Empty(t, notice)
	assert.Equal(t, []string{"set_view:", "add:location"}, kinds(rec.Ops))
	assert.Equal(t, locateZoom, rec.Ops[0].Zoom)

	rec.Ops = nil
	_, ok = mv.Locate(context.Background(), fixedLocator{pos: LatLng{37.55, -77.44}})
	require.True(t, ok)
	assert.Equal(t, []string{"set_view:", "remove:location", "add:location"}, kinds(rec.Ops))
}

func TestLocateFailureLeavesMapUntouched(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	mv.Render(nil, sample(), nil, canvass.Visibility{Targets: true})
	before := len(mv.Drawn())
	rec.Ops = nil

	notice, ok := mv.Locate(context.Background(), fixedLocator{err: errors.New("permission denied")})
	assert.False(t, ok)
	assert.Equal(t, "Unable to get your location: permission denied", notice)
	assert.Empty(t, rec.Ops)
	assert.Equal(t, before, len(mv.Drawn()))
}

func TestRecorderResultNeverNil(t *testing.T) {
	assert.NotNil(t, (&Recorder{}).Result())
}

func TestResetRemovesThenRedrawsCurrentState(t *testing.T) {
	rec := &Recorder{}
	mv := NewMapView(rec, nil, nil)
	flags := canvass.Visibility{Zones: true, Targets: true}
	mv.Render(mustZones(t), sample(), nil, flags)
	mv.put(Layer{ID: LayerLocation, Pin: &Pin{Position: LatLng{36.85, -76.29}}})
	rec.Ops = nil

	mv.Reset(mustZones(t), sample(), nil, flags)
	assert.Equal(t, []string{"remove:zones", "remove:targets", "remove:route", "add:zones", "fit_bounds:", "add:targets"}, kinds(rec.Ops))
	_, pinned := mv.Drawn()[LayerLocation]
	assert.True(t, pinned)

	rec.Ops = nil
	mv.Render(mustZones(t), sample(), nil, flags)
	assert.Empty(t, rec.Ops)
}
