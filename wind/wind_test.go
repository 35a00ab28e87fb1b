package wind

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a-bouts/nav-planner/latlon"
)

func calm(nLat, nLon int) [][]float64 {
	g := make([][]float64, nLat)
	for j := range g {
		g[j] = make([]float64, nLon)
	}
	return g
}

func testWind(date time.Time) *Wind {
	w := &Wind{
		Date: date,
		Lat0: 10, Lon0: 0,
		ΔLat: 0.5, ΔLon: 0.5,
		NLat: 4, NLon: 4,
		U: calm(4, 4), V: calm(4, 4),
	}
	w.U[1][1] = 20
	w.U[2][3] = 18
	w.V[2][3] = 24
	return w
}

func TestPosition(t *testing.T) {
	w := Wind{Lat0: 90, Lon0: 359.5, ΔLat: 0.25, ΔLon: 0.25}
	assert.Equal(t, latlon.LatLon{Lat: 90, Lon: -0.5}, w.Position(0, 0))
	assert.Equal(t, latlon.LatLon{Lat: 89.5, Lon: 0}, w.Position(2, 2))
}

func TestGaleRisk(t *testing.T) {
	assert.Equal(t, 0.5, GaleRisk(GaleThreshold, GaleThreshold))
	assert.Equal(t, 0.5, GaleRisk(5, GaleThreshold))
	assert.Equal(t, 1.0, GaleRisk(HurricaneSpeed, GaleThreshold))
	assert.Equal(t, 1.0, GaleRisk(60, GaleThreshold))
	assert.Equal(t, 1.0, GaleRisk(20, 40))
}

func TestGales(t *testing.T) {
	gales := testWind(time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)).Gales(GaleThreshold, BlockDeg)
	require.Len(t, gales, 1)

	g := gales[0]
	assert.Equal(t, "gale", g.Type)
	assert.Equal(t, 9.0, g.Lat)
	assert.Equal(t, 1.0, g.Lon)
	assert.InDelta(t, math.Hypot(222, 2*latlon.KmPerDegreeLon(9))/2, g.Radius, 1e-9)
	// the strongest cell is 30 m/s
	assert.InDelta(t, GaleRisk(30, GaleThreshold), g.Risk, 1e-9)
	assert.NoError(t, g.Validate())
}

func TestGalesBelowThreshold(t *testing.T) {
	w := testWind(time.Now())
	assert.Empty(t, w.Gales(40, BlockDeg))
	assert.Len(t, w.Gales(10, 0.5), 2)
}

func TestParseName(t *testing.T) {
	d, err := ParseName("2020051706.f003")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 5, 17, 9, 0, 0, 0, time.UTC), d)

	for _, name := range []string{"2020051706", "2020051706.003", "2020051706.fxx", "20200517.f003"} {
		_, err := ParseName(name)
		assert.Error(t, err, name)
	}
}

func TestWindsFind(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ws := NewWinds(t.TempDir())
	_, ok := ws.Find(base)
	assert.False(t, ok)

	for _, h := range []int{0, 3, 6} {
		ws.Put(testWind(base.Add(time.Duration(h) * time.Hour)))
	}
	assert.Equal(t, 3, ws.Len())

	w, ok := ws.Find(base.Add(4 * time.Hour))
	require.True(t, ok)
	assert.Equal(t, base.Add(3*time.Hour), w.Date)

	w, _ = ws.Find(base.Add(90 * time.Minute))
	assert.Equal(t, base, w.Date, "ties go to the earlier forecast")

	assert.Len(t, ws.Gales(base, GaleThreshold), 1)
}

func TestMergeSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024010200.f000"), []byte{}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2024010200.f003.tmp"), []byte(""), 0644))

	ws := NewWinds(dir)
	ws.now = func() time.Time { return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) }
	assert.NoError(t, ws.Merge())
	assert.Equal(t, 0, ws.Len())
}

func TestAt(t *testing.T) {
	w := testWind(time.Now())

	_, speed, ok := w.At(9.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 20, speed, 1e-9)

	// halfway between a 20 m/s westerly cell and calm
	dir, speed, ok := w.At(9.5, 0.75)
	require.True(t, ok)
	assert.InDelta(t, 10, speed, 1e-9)
	assert.InDelta(t, 270, dir, 1e-9)

	_, _, ok = w.At(20, 0.5)
	assert.False(t, ok)
	_, _, ok = w.At(9.5, 5)
	assert.False(t, ok)
}
