package route

import (
	"fmt"
	"math"

	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/risk"
)

const (
	// ExposureSampleKm is the spacing of the samples used by Exposure.
	ExposureSampleKm = 5.0
	// AlertEdgeKm and AlertPercent trigger a hazard alert.
	AlertEdgeKm  = 25.0
	AlertPercent = 50
	// CruiseKnots is the speed used for ETA estimates.
	CruiseKnots = 16.0
	knotKmh     = 1.852
	// segmentSamples is the resolution of the point to segment distance.
	segmentSamples = 16
)

// MeanRisk averages the field over the given nodes.
func MeanRisk(keys []grid.Key, field risk.Field) float64 {
	if len(keys) == 0 {
		return 0
	}
	sum := 0.0
	for _, k := range keys {
		sum += field.Value(k)
	}
	return sum / float64(len(keys))
}

// Exposure averages the risk at points spaced about ExposureSampleKm along
// the path, endpoints included.
func Exposure(path []latlon.LatLon, hazards []hazard.Hazard) float64 {
	if len(path) == 0 {
		return 0
	}
	sum := 0.0
	n := 0
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		steps := int(math.Ceil(latlon.DistanceTo(a, b) / ExposureSampleKm))
		if steps < 1 {
			steps = 1
		}
		for s := 0; s < steps; s++ {
			sum += risk.At(latlon.Lerp(a, b, float64(s)/float64(steps)), hazards)
			n++
		}
	}
	sum += risk.At(path[len(path)-1], hazards)
	n++
	return sum / float64(n)
}

// Analysis describes the hazard passed closest along a path.
type Analysis struct {
	Hazard      *hazard.Hazard `json:"hazard,omitempty"`
	EdgeKm      float64        `json:"edgeKm"`
	RiskPercent int            `json:"riskPercent"`
	Alert       bool           `json:"alert"`
}

func (a Analysis) String() string {
	if a.Hazard == nil {
		return "no hazard"
	}
	return fmt.Sprintf("%s %s: %.0f km from edge, %d%%", a.Hazard.Type, a.Hazard.ID, a.EdgeKm, a.RiskPercent)
}

func distanceToSegmentKm(p, a, b latlon.LatLon) float64 {
	best := math.Inf(1)
	for s := 0; s <= segmentSamples; s++ {
		d := latlon.DistanceTo(p, latlon.Lerp(a, b, float64(s)/segmentSamples))
		if d < best {
			best = d
		}
	}
	return best
}

// Analyze finds the hazard whose edge comes closest to the path.
func Analyze(path []latlon.LatLon, hazards []hazard.Hazard) Analysis {
	var res Analysis
	if len(path) == 0 || len(hazards) == 0 {
		return res
	}
	best := math.Inf(1)
	bestIdx := -1
	segs := len(path) - 1
	if segs == 0 {
		segs = 1
	}
	for i := 0; i < segs; i++ {
		a := path[i]
		b := path[min(i+1, len(path)-1)]
		for j, h := range hazards {
			edge := distanceToSegmentKm(h.Center(), a, b) - h.R()
			if edge < best {
				best = edge
				bestIdx = j
			}
		}
	}
	if bestIdx < 0 {
		return res
	}
	h := hazards[bestIdx]
	proximity := math.Max(0, (h.R()-math.Max(0, best))/h.R())
	pct := math.Min(1, h.BaseRisk()*(0.5+proximity))
	res.Hazard = &h
	res.EdgeKm = best
	res.RiskPercent = int(math.Round(pct * 100))
	res.Alert = best < AlertEdgeKm || res.RiskPercent >= AlertPercent
	return res
}

type ShipSize string

const (
	Small  ShipSize = "small"
	Medium ShipSize = "medium"
	Large  ShipSize = "large"
)

// BurnKgPerKm is the fuel burn per ship size. Unknown sizes burn as Medium.
func (s ShipSize) BurnKgPerKm() float64 {
	switch s {
	case Small:
		return 80
	case Large:
		return 250
	default:
		return 150
	}
}

type Voyage struct {
	DistanceKm float64 `json:"distanceKm"`
	Hours      float64 `json:"hours"`
	ETA        string  `json:"eta"`
	FuelUsedKg float64 `json:"fuelUsedKg"`
	FuelLeftKg float64 `json:"fuelLeftKg"`
}

// ETA formats the sailing time for distKm at the given speed.
func ETA(distKm, knots float64) (float64, string) {
	if knots <= 0 {
		knots = CruiseKnots
	}
	hours := distKm / (knots * knotKmh)
	h := int(math.Floor(hours))
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return hours, fmt.Sprintf("%dh %dm @%d kts", h, m, int(math.Round(knots)))
}

// Estimate computes ETA and fuel for a path. tankTons is the fuel carried.
func Estimate(path []latlon.LatLon, size ShipSize, tankTons float64) Voyage {
	d := latlon.PathLength(path)
	hours, eta := ETA(d, CruiseKnots)
	used := math.Round(d * size.BurnKgPerKm())
	return Voyage{
		DistanceKm: d,
		Hours:      hours,
		ETA:        eta,
		FuelUsedKg: used,
		FuelLeftKg: math.Max(0, tankTons*1000-used),
	}
}
