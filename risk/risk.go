package risk

import (
	"math"

	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
)

const (
	// Saturation is the contribution of a hazard inside its core.
	Saturation = 50.0
	// CoreFactor is the fraction of the radius treated as core.
	CoreFactor = 0.7
	// Scale brings the gaussian falloff to the order of distance costs.
	Scale = 10.0
	// MinSigma is the smallest gaussian spread, in km.
	MinSigma = 20.0
)

// Contribution is the risk a single hazard adds at p.
func Contribution(p latlon.LatLon, h hazard.Hazard) float64 {
	d := latlon.DistanceTo(p, h.Center())
	r := h.R()
	if d <= CoreFactor*r {
		return Saturation
	}
	σ := math.Max(MinSigma, 0.8*r)
	return h.BaseRisk() * math.Exp(-(d*d)/(2*σ*σ)) * Scale
}

// At sums every hazard's contribution at p.
func At(p latlon.LatLon, hazards []hazard.Hazard) float64 {
	sum := 0.0
	for _, h := range hazards {
		sum += Contribution(p, h)
	}
	return sum
}

// Field holds the precomputed risk of every grid node. Missing keys read as
// zero.
type Field map[grid.Key]float64

// Build computes the field once for a grid.
func Build(g *grid.Grid, hazards []hazard.Hazard) Field {
	f := make(Field, g.Len())
	for _, n := range g.Nodes {
		f[n.Key] = At(n.LatLon, hazards)
	}
	return f
}

func (f Field) Value(k grid.Key) float64 {
	return f[k]
}
