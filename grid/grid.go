package grid

import (
	"fmt"
	"math"

	"github.com/a-bouts/nav-planner/latlon"
)

// DefaultStep is the lattice spacing in degrees.
const DefaultStep = 0.28

// Mask decides whether a lattice point is navigable.
type Mask interface {
	BufferOK(lat, lon float64) bool
}

// Bounds is the region covered by a grid. Min <= Max on each axis.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

func (b Bounds) Validate() error {
	if b.MinLat > b.MaxLat || b.MinLon > b.MaxLon {
		return fmt.Errorf("invalid bounds %+v", b)
	}
	return nil
}

func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// Pad grows the box by pad degrees on every side.
func (b Bounds) Pad(pad float64) Bounds {
	return Bounds{
		MinLat: b.MinLat - pad,
		MaxLat: b.MaxLat + pad,
		MinLon: b.MinLon - pad,
		MaxLon: b.MaxLon + pad,
	}
}

// Around returns the bounding box of points padded by pad degrees.
func Around(points []latlon.LatLon, pad float64) Bounds {
	b := Bounds{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
	}
	for _, p := range points {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLon = math.Min(b.MinLon, p.Lon)
		b.MaxLon = math.Max(b.MaxLon, p.Lon)
	}
	return b.Pad(pad)
}

// Key identifies a lattice cell.
type Key struct {
	Row int
	Col int
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d", k.Row, k.Col)
}

type Node struct {
	Key
	latlon.LatLon
}

// Grid is a sparse lattice: only navigable cells are present in Nodes.
type Grid struct {
	Lats  []float64
	Lons  []float64
	Step  float64
	Nodes []Node
	index map[Key]int
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func samples(min, max, step float64) []float64 {
	var res []float64
	for k := 0; ; k++ {
		v := min + float64(k)*step
		if v > max+1e-9 {
			break
		}
		res = append(res, round3(v))
	}
	return res
}

// Build samples the bounds every step degrees and keeps the cells the mask
// accepts. A non-positive step falls back to DefaultStep.
func Build(mask Mask, b Bounds, step float64) *Grid {
	if step <= 0 {
		step = DefaultStep
	}
	g := &Grid{
		Lats:  samples(b.MinLat, b.MaxLat, step),
		Lons:  samples(b.MinLon, b.MaxLon, step),
		Step:  step,
		index: make(map[Key]int),
	}
	for i, lat := range g.Lats {
		for j, lon := range g.Lons {
			if !mask.BufferOK(lat, lon) {
				continue
			}
			k := Key{Row: i, Col: j}
			g.index[k] = len(g.Nodes)
			g.Nodes = append(g.Nodes, Node{Key: k, LatLon: latlon.LatLon{Lat: lat, Lon: lon}})
		}
	}
	return g
}

func (g *Grid) Len() int {
	return len(g.Nodes)
}

// Has reports whether the cell is a retained node.
func (g *Grid) Has(k Key) bool {
	_, ok := g.index[k]
	return ok
}

// InRange reports whether the key lies on the lattice, retained or not.
func (g *Grid) InRange(k Key) bool {
	return k.Row >= 0 && k.Row < len(g.Lats) && k.Col >= 0 && k.Col < len(g.Lons)
}

// Position returns the coordinates of any lattice cell.
func (g *Grid) Position(k Key) latlon.LatLon {
	return latlon.LatLon{Lat: g.Lats[k.Row], Lon: g.Lons[k.Col]}
}

// Nearest snaps p to the closest retained node by great-circle distance.
// Ties keep the first node in row-major order.
func (g *Grid) Nearest(p latlon.LatLon) (Node, bool) {
	best := -1
	bd := math.Inf(1)
	for i, n := range g.Nodes {
		if d := latlon.DistanceTo(p, n.LatLon); d < bd {
			bd = d
			best = i
		}
	}
	if best < 0 {
		return Node{}, false
	}
	return g.Nodes[best], true
}
