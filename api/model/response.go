package model

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/a-bouts/nav-planner/fleet"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/route"
)

type RouteResult struct {
	ID         string          `json:"id"`
	Path       []latlon.LatLon `json:"path"`
	DistanceKm float64         `json:"totalDistanceKm"`
	MeanRisk   float64         `json:"meanRisk"`
	Exposure   float64         `json:"exposure"`
	Mode       route.Mode      `json:"mode"`
	Weights    route.Weights   `json:"weights"`
	Expanded   int             `json:"expanded"`
	Voyage     route.Voyage    `json:"voyage"`
	Risk       route.Analysis  `json:"risk"`
}

type FleetResult struct {
	ID                       string            `json:"id"`
	Seed                     int64             `json:"seed"`
	WinningRoute             []latlon.LatLon   `json:"winningRoute"`
	DistanceKm               float64           `json:"totalDistanceKm"`
	MeanRisk                 float64           `json:"meanRisk"`
	SuccessfulCandidateCount int               `json:"successfulCandidateCount"`
	TotalCandidateCount      int               `json:"totalCandidateCount"`
	AbandonedCandidateCount  int               `json:"abandonedCandidateCount"`
	SafestModeFraction       float64           `json:"safestModeFraction"`
	Winner                   fleet.Profile     `json:"winner"`
	Candidates               []fleet.Candidate `json:"candidates"`
	Summary                  string            `json:"summary"`
	Rationale                string            `json:"rationale,omitempty"`
	Voyage                   route.Voyage      `json:"voyage"`
	Risk                     route.Analysis    `json:"risk"`
}

type Error struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func lineString(path []latlon.LatLon) orb.LineString {
	ls := make(orb.LineString, len(path))
	for i, p := range path {
		ls[i] = orb.Point{p.Lon, p.Lat}
	}
	return ls
}

func point(name string, p latlon.LatLon) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
	f.Properties["name"] = name
	return f
}

// FeatureCollection renders a path as a LineString feature carrying props,
// followed by its origin and destination points.
func FeatureCollection(path []latlon.LatLon, props map[string]interface{}) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := geojson.NewFeature(lineString(path))
	for k, v := range props {
		line.Properties[k] = v
	}
	fc.Append(line)

	if len(path) > 0 {
		fc.Append(point("origin", path[0]))
		fc.Append(point("destination", path[len(path)-1]))
	}
	return fc
}

func (r RouteResult) GeoJSON() *geojson.FeatureCollection {
	return FeatureCollection(r.Path, map[string]interface{}{
		"id":              r.ID,
		"mode":            string(r.Mode),
		"totalDistanceKm": r.DistanceKm,
		"meanRisk":        r.MeanRisk,
		"eta":             r.Voyage.ETA,
	})
}

func (r FleetResult) GeoJSON() *geojson.FeatureCollection {
	return FeatureCollection(r.WinningRoute, map[string]interface{}{
		"id":                       r.ID,
		"mode":                     string(r.Winner.Mode),
		"totalDistanceKm":          r.DistanceKm,
		"meanRisk":                 r.MeanRisk,
		"successfulCandidateCount": r.SuccessfulCandidateCount,
		"totalCandidateCount":      r.TotalCandidateCount,
		"safestModeFraction":       r.SafestModeFraction,
		"summary":                  r.Summary,
	})
}
