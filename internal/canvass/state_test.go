package canvass

import (
	"testing"

	"canvass-map/internal/targets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func target(id string, score float64) targets.Target { return targets.Target{ID: id, Score: score} }

func TestToggleAddsOnceAndRestoresPriorSequence(t *testing.T) {
	s := NewState()
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, s.ToggleRouteMembership(target(id, 50)))
	}
	before := append([]string(nil), s.Route...)

	assert.True(t, s.ToggleRouteMembership(target("d", 70)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Route)
	assert.False(t, s.ToggleRouteMembership(target("d", 70)))
	assert.Equal(t, before, s.Route)
}

func TestToggleRemovesFromMiddleKeepingOrder(t *testing.T) {
	s := NewState()
	for _, id := range []string{"a", "b", "c"} {
		s.ToggleRouteMembership(target(id, 50))
	}
	s.ToggleRouteMembership(target("b", 50))
	assert.Equal(t, []string{"a", "c"}, s.Route)
	assert.False(t, s.InRoute("b"))
	s.ToggleRouteMembership(target("b", 50))
	assert.Equal(t, []string{"a", "c", "b"}, s.Route, "re-adding appends at the end")
}

func TestClearRouteAlwaysEmptiesAndHidesRoute(t *testing.T) {
	s := NewState()
	s.ClearRoute()
	assert.Empty(t, s.Route)
	assert.False(t, s.Layers.Route)

	s.ToggleRouteMembership(target("a", 90))
	s.SetLayer(LayerRoute, true)
	s.ClearRoute()
	assert.Empty(t, s.Route)
	assert.False(t, s.Layers.Route)
	assert.True(t, s.Layers.Zones, "other layers untouched")
}

func TestRecordOutcome(t *testing.T) {
	s := NewState()
	s.ToggleRouteMembership(target("a", 90))

	s.RecordOutcome(OutcomeDeal)
	assert.Equal(t, Tally{Doors: 1, Deals: 1}, s.Tally)

	s.RecordOutcome(OutcomeNotHome)
	assert.Equal(t, Tally{Doors: 2, Deals: 1}, s.Tally)

	s.RecordOutcome(OutcomeCallback)
	s.RecordOutcome(OutcomeNotInterested)
	assert.Equal(t, Tally{Doors: 4, Deals: 1, Callbacks: 1}, s.Tally)
	assert.Equal(t, []string{"a"}, s.Route)
}

func TestLayersAreIndependent(t *testing.T) {
	s := NewState()
	s.SetLayer(LayerTargets, false)
	assert.Equal(t, Visibility{Zones: true}, s.Layers)
	s.SetLayer(LayerRoute, true)
	assert.Equal(t, Visibility{Zones: true, Route: true}, s.Layers)
	s.SetLayer(LayerZones, false)
	assert.Equal(t, Visibility{Route: true}, s.Layers)
}

func TestParse(t *testing.T) {
	o, err := ParseOutcome("not-home")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotHome, o)
	_, err = ParseOutcome("maybe")
	assert.ErrorIs(t, err, ErrUnknownOutcome)

	l, err := ParseLayer("route")
	require.NoError(t, err)
	assert.Equal(t, LayerRoute, l)
	_, err = ParseLayer("heatmap")
	assert.ErrorIs(t, err, ErrUnknownLayer)
}
