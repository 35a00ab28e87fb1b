package route

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/a-bouts/nav-planner/latlon"
)

func ll(lat, lon float64) latlon.LatLon {
	return latlon.LatLon{Lat: lat, Lon: lon}
}

func TestSimplifyCollinear(t *testing.T) {
	path := []latlon.LatLon{ll(0, 0), ll(0, 1), ll(0, 2), ll(0, 3)}
	assert.Equal(t, []latlon.LatLon{ll(0, 0), ll(0, 3)}, Simplify(path))
}

func TestSimplifyKeepsCorners(t *testing.T) {
	path := []latlon.LatLon{ll(0, 0), ll(0, 1), ll(0, 2), ll(1, 3), ll(2, 4), ll(2, 5)}
	assert.Equal(t, []latlon.LatLon{ll(0, 0), ll(0, 2), ll(2, 4), ll(2, 5)}, Simplify(path))
}

func TestSimplifyShortPaths(t *testing.T) {
	assert.Empty(t, Simplify(nil))
	assert.Equal(t, []latlon.LatLon{ll(1, 1)}, Simplify([]latlon.LatLon{ll(1, 1)}))
	two := []latlon.LatLon{ll(1, 1), ll(2, 2)}
	assert.Equal(t, two, Simplify(two))
}

func TestSimplifyIsIdempotent(t *testing.T) {
	// a slow drift is dropped vertex by vertex on the first pass
	path := []latlon.LatLon{ll(0, 0), ll(0.001, 1), ll(0.003, 2), ll(0.006, 3), ll(0.5, 4), ll(1, 4)}
	once := Simplify(path)
	assert.Equal(t, once, Simplify(once))
	assert.Equal(t, path[0], once[0])
	assert.Equal(t, path[len(path)-1], once[len(once)-1])
}
