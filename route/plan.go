package route

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/risk"
)

// DefaultPad is the margin, in degrees, added around the endpoints when a
// request carries no bounds.
const DefaultPad = 2.0

var (
	// ErrNoPath is returned when no ocean-only path links the endpoints.
	ErrNoPath = errors.New("no ocean path found")
	// ErrInvalidEndpoint is returned when the grid is empty or an endpoint
	// cannot be snapped to a navigable node.
	ErrInvalidEndpoint = errors.New("endpoint not on navigable water")
)

// IsNoPath reports whether err means no route could be produced.
func IsNoPath(err error) bool {
	return errors.Is(err, ErrNoPath) || errors.Is(err, ErrInvalidEndpoint)
}

type Request struct {
	Origin      latlon.LatLon   `json:"origin"`
	Destination latlon.LatLon   `json:"destination"`
	Hazards     []hazard.Hazard `json:"hazards"`
	Bounds      grid.Bounds     `json:"boundingBox"`
	Mode        Mode            `json:"mode"`
	RiskWeight  float64         `json:"riskWeight"`
	Step        float64         `json:"gridStepDeg"`
}

// Route is a planned path. Path and Keys are parallel.
type Route struct {
	Path       []latlon.LatLon `json:"path"`
	Keys       []grid.Key      `json:"-"`
	Raw        int             `json:"rawVertices"`
	DistanceKm float64         `json:"distanceKm"`
	MeanRisk   float64         `json:"meanRisk"`
	Cost       float64         `json:"cost"`
	Expanded   int             `json:"expanded"`
	Mode       Mode            `json:"mode"`
	Weights    Weights         `json:"weights"`
}

func (r Request) bounds() (grid.Bounds, error) {
	if r.Bounds.IsZero() {
		return grid.Around([]latlon.LatLon{r.Origin, r.Destination}, DefaultPad), nil
	}
	return r.Bounds, r.Bounds.Validate()
}

// Plan builds the lattice and risk field for the request and searches it.
func Plan(mask Mask, req Request) (*Route, error) {
	b, err := req.bounds()
	if err != nil {
		return nil, err
	}
	g := grid.Build(mask, b, req.Step)
	return PlanOn(mask, g, risk.Build(g, req.Hazards), req)
}

// PlanOn searches an already built lattice and field. Bounds, Step and
// Hazards of the request are ignored.
func PlanOn(mask Mask, g *grid.Grid, field risk.Field, req Request) (*Route, error) {
	start := time.Now()
	if g.Len() == 0 {
		return nil, fmt.Errorf("empty grid: %w", ErrInvalidEndpoint)
	}
	from, ok := g.Nearest(req.Origin)
	if !ok || !mask.BufferOK(from.Lat, from.Lon) {
		return nil, fmt.Errorf("origin %v: %w", req.Origin, ErrInvalidEndpoint)
	}
	to, ok := g.Nearest(req.Destination)
	if !ok || !mask.BufferOK(to.Lat, to.Lon) {
		return nil, fmt.Errorf("destination %v: %w", req.Destination, ErrInvalidEndpoint)
	}

	mode := req.Mode
	if mode == "" {
		mode = Balanced
	}
	w := WeightsFor(mode, req.RiskWeight)
	s := newSearch(mask, g, field, w, to)
	keys, found := s.run(from.Key)
	if !found {
		return nil, ErrNoPath
	}

	raw := make([]latlon.LatLon, len(keys))
	for i, k := range keys {
		raw[i] = g.Position(k)
	}
	if len(keys) == 1 {
		keys = append(keys, keys[0])
		raw = append(raw, raw[0])
	}
	idx := simplifyIndexes(raw)
	r := &Route{
		Path:     make([]latlon.LatLon, len(idx)),
		Keys:     make([]grid.Key, len(idx)),
		Raw:      len(raw),
		Cost:     s.g[to.Key],
		Expanded: s.expanded,
		Mode:     mode,
		Weights:  w,
	}
	for i, j := range idx {
		r.Path[i] = raw[j]
		r.Keys[i] = keys[j]
	}
	r.DistanceKm = latlon.PathLength(r.Path)
	r.MeanRisk = MeanRisk(r.Keys, field)

	log.Debugf("Route %s (rw %.2f): %d nodes, %d expanded, %d -> %d vertices, %.1f km in %s",
		mode, req.RiskWeight, g.Len(), s.expanded, len(raw), len(r.Path), r.DistanceKm, time.Since(start))
	return r, nil
}

// Baseline is the straight line between two points split into steps equal
// intervals.
func Baseline(from, to latlon.LatLon, steps int) []latlon.LatLon {
	if steps < 1 {
		steps = 1
	}
	res := make([]latlon.LatLon, steps+1)
	for i := 0; i <= steps; i++ {
		res[i] = latlon.Lerp(from, to, float64(i)/float64(steps))
	}
	return res
}
