package zones

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTracts = `{
 "type": "FeatureCollection",
 "features": [
  {"type":"Feature","properties":{"GEOID":"51710004100","NAME":"Census Tract 41","COUNTY_NAME":"Norfolk"},
   "geometry":{"type":"Polygon","coordinates":[[[-76.30,36.84],[-76.28,36.84],[-76.28,36.86],[-76.30,36.86],[-76.30,36.84]]]}},
  {"type":"Feature","properties":{"GEOID":51760020100,"NAME":"Census Tract 201"},
   "geometry":{"type":"MultiPolygon","coordinates":[[[[-77.45,37.53],[-77.42,37.53],[-77.42,37.55],[-77.45,37.55],[-77.45,37.53]]]]}}
 ]
}`

func TestDecodeReadsCensusProperties(t *testing.T) {
	c, err := Decode([]byte(twoTracts))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "Census Tract 41 / 51710004100 / Norfolk", c.Zones[0].Label())
	assert.Equal(t, "51760020100", c.Zones[1].GEOID)
	assert.Equal(t, "Census Tract 201 / 51760020100", c.Zones[1].Label())

	b, ok := c.Bounds()
	require.True(t, ok)
	assert.InDelta(t, -77.45, b.Min.Lon(), 1e-9)
	assert.InDelta(t, 36.84, b.Min.Lat(), 1e-9)
	assert.InDelta(t, -76.28, b.Max.Lon(), 1e-9)
	assert.InDelta(t, 37.55, b.Max.Lat(), 1e-9)
}

func TestDecodeFailures(t *testing.T) {
	docs := map[string]string{
		"empty":        ``,
		"not json":     `<html>`,
		"no features":  `{"type":"FeatureCollection"}`,
		"null":         `{"type":"FeatureCollection","features":null}`,
		"missing name": `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"GEOID":"1"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}]}`,
		"point":        `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"GEOID":"1","NAME":"x"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`,
	}
	for name, doc := range docs {
		_, err := Decode([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestEmptyCollectionHasNoBounds(t *testing.T) {
	var c *Collection
	_, ok := c.Bounds()
	assert.False(t, ok)
	_, ok = NewCollection(nil).Bounds()
	assert.False(t, ok)
}

func TestIndexLocate(t *testing.T) {
	c, err := Decode([]byte(twoTracts))
	require.NoError(t, err)
	ix := NewIndex(c, 16)

	z, ok := ix.Locate(36.8529, -76.2859)
	require.True(t, ok)
	assert.Equal(t, "51710004100", z.GEOID)

	z, ok = ix.Locate(37.5407, -77.4360)
	require.True(t, ok)
	assert.Equal(t, "51760020100", z.GEOID)

	_, ok = ix.Locate(37.4138, -79.1422)
	assert.False(t, ok)

	// 第二次查询命中缓存，结果一致
	z, ok = ix.Locate(36.8529, -76.2859)
	require.True(t, ok)
	assert.Equal(t, "51710004100", z.GEOID)
	assert.Equal(t, 3, ix.cache.len())
}

func TestLRUEvictsOldest(t *testing.T) {
	c := newLRU(2)
	c.set("a", 1)
	c.set("b", 2)
	_, _ = c.get("a")
	c.set("c", 3)
	_, ok := c.get("b")
	assert.False(t, ok)
	v, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestFeatureCollectionRoundTripKeepsProperties(t *testing.T) {
	c, err := Decode([]byte(twoTracts))
	require.NoError(t, err)
	b, err := json.Marshal(c.FeatureCollection())
	require.NoError(t, err)
	again, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, c.Zones[0].Label(), again.Zones[0].Label())
	assert.Equal(t, c.Zones[1].Label(), again.Zones[1].Label())
}
