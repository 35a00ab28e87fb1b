package route

import (
	"github.com/a-bouts/nav-planner/latlon"
)

// StraightTolerance is the largest heading change, in radians, at which an
// interior vertex is considered collinear and dropped.
const StraightTolerance = 0.02

type vertex struct {
	p   latlon.LatLon
	idx int
}

// Simplify removes near-collinear interior vertices. Endpoints are always
// kept and the result is stable under a second call.
func Simplify(path []latlon.LatLon) []latlon.LatLon {
	idx := simplifyIndexes(path)
	res := make([]latlon.LatLon, len(idx))
	for i, j := range idx {
		res[i] = path[j]
	}
	return res
}

func simplifyIndexes(path []latlon.LatLon) []int {
	vs := make([]vertex, len(path))
	for i, p := range path {
		vs[i] = vertex{p: p, idx: i}
	}
	for {
		next := simplifyPass(vs)
		if len(next) == len(vs) {
			break
		}
		vs = next
	}
	res := make([]int, len(vs))
	for i, v := range vs {
		res[i] = v.idx
	}
	return res
}

func simplifyPass(vs []vertex) []vertex {
	if len(vs) <= 2 {
		return vs
	}
	kept := []vertex{vs[0]}
	for i := 1; i < len(vs)-1; i++ {
		a := kept[len(kept)-1].p
		b := vs[i].p
		c := vs[i+1].p
		if latlon.Angle(b.Lat-a.Lat, b.Lon-a.Lon, c.Lat-b.Lat, c.Lon-b.Lon) > StraightTolerance {
			kept = append(kept, vs[i])
		}
	}
	return append(kept, vs[len(vs)-1])
}
