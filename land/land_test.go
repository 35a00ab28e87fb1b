package land

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/nav-planner/latlon"
)

func TestIsOcean(t *testing.T) {
	l := Default()

	assert.True(t, l.IsOcean(35, -40), "mid Atlantic")
	assert.False(t, l.IsOcean(10, 20), "Sahara")
	assert.True(t, l.IsOcean(35, 18), "Mediterranean carves Africa")
	assert.True(t, l.IsOcean(26.3, 50.9), "Arabian Gulf carves Arabia")
	assert.True(t, l.IsLand(48, 2), "France")
}

func TestBoxEdgesAreInclusive(t *testing.T) {
	l := Default()

	// on the Mediterranean's southern edge: still sea, but zero clearance
	assert.True(t, l.IsOcean(30, 18))
	assert.Equal(t, 0.0, l.CoastDistanceKm(30, 18))
	assert.False(t, l.BufferOK(30, 18))
}

func TestCoastDistanceKm(t *testing.T) {
	l := Default()

	// South America box ends at -34°, 4° of longitude at the equator
	assert.InDelta(t, 444.0, l.CoastDistanceKm(0, -30), 1e-6)

	// inside the Mediterranean the sea edge is the coast
	assert.InDelta(t, 5*111.0, l.CoastDistanceKm(35, 18), 1e-6)
}

func TestBufferOK(t *testing.T) {
	l := Default()

	assert.True(t, l.BufferOK(0, -30))
	assert.False(t, l.BufferOK(0, -33.9), "11 km from coast in open ocean")
	assert.False(t, l.BufferOK(10, 20), "land")

	// enclosed seas only need 8 km: 0.1° of latitude is 11.1 km
	assert.True(t, l.BufferOK(30.1, 18))
}

func TestCoastPenalty(t *testing.T) {
	l := Default()

	assert.Equal(t, 0.0, l.CoastPenalty(0, -30))
	assert.InDelta(t, 2.5, l.CoastPenalty(0, -34+30.0/111), 1e-9)
	assert.InDelta(t, 10.0, l.CoastPenalty(0, -34), 1e-9)
}

func TestSegmentOK(t *testing.T) {
	l := Default()

	assert.True(t, l.SegmentOK(latlon.LatLon{Lat: 30, Lon: -45}, latlon.LatLon{Lat: 35, Lon: -40}))
	assert.False(t, l.SegmentOK(latlon.LatLon{Lat: 10, Lon: -25}, latlon.LatLon{Lat: 10, Lon: 60}), "crosses Africa")
}

func TestInitLand(t *testing.T) {
	l, err := InitLand("")
	require.NoError(t, err)
	assert.NotEmpty(t, l.Lands)

	file := filepath.Join(t.TempDir(), "mask.yaml")
	content := `
lands:
  - {minLat: 10, maxLat: 0, minLon: 5, maxLon: 0}
seas:
  - {name: Lagoon, minLat: 4, maxLat: 6, minLon: 2, maxLon: 3}
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	l, err = InitLand(file)
	require.NoError(t, err)
	require.Len(t, l.Lands, 1)
	assert.Equal(t, 0.0, l.Lands[0].MinLat)
	assert.Equal(t, 10.0, l.Lands[0].MaxLat)
	assert.True(t, l.IsLand(1, 1))
	assert.True(t, l.IsOcean(5, 2.5))
	assert.True(t, l.IsOcean(20, 20))

	_, err = InitLand(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
