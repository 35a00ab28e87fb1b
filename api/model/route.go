package model

import (
	"fmt"

	"github.com/a-bouts/nav-planner/fleet"
	"github.com/a-bouts/nav-planner/grid"
	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
	"github.com/a-bouts/nav-planner/route"
)

// MaxFleetSize bounds the ensemble a single request may ask for.
const MaxFleetSize = 500

// Vessel is optional voyage information used for ETA and fuel figures.
type Vessel struct {
	ShipSize     route.ShipSize `json:"shipSize"`
	FuelTankTons float64        `json:"fuelTankTons"`
}

// Route asks for a single search. A nil Hazards list means the current
// forecast hazards.
type Route struct {
	Origin      latlon.LatLon   `json:"origin"`
	Destination latlon.LatLon   `json:"destination"`
	Hazards     []hazard.Hazard `json:"hazards"`
	BoundingBox *grid.Bounds    `json:"boundingBox"`
	Mode        string          `json:"mode"`
	RiskWeight  float64         `json:"riskWeight"`
	GridStepDeg float64         `json:"gridStepDeg"`
	Vessel
}

// Fleet asks for an ensemble consensus.
type Fleet struct {
	Origin      latlon.LatLon   `json:"origin"`
	Destination latlon.LatLon   `json:"destination"`
	Hazards     []hazard.Hazard `json:"hazards"`
	FleetSize   int             `json:"fleetSize"`
	Seed        int64           `json:"seed"`
	Vessel
}

func validPoint(name string, p latlon.LatLon) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%s %v out of range", name, p)
	}
	return nil
}

func validHazards(hs []hazard.Hazard) error {
	for _, h := range hs {
		if err := h.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (v Vessel) validate() error {
	if v.FuelTankTons < 0 {
		return fmt.Errorf("negative fuel tank")
	}
	return nil
}

func (r Route) Validate() error {
	if err := validPoint("origin", r.Origin); err != nil {
		return err
	}
	if err := validPoint("destination", r.Destination); err != nil {
		return err
	}
	if r.BoundingBox != nil {
		if err := r.BoundingBox.Validate(); err != nil {
			return err
		}
	}
	if _, err := route.ParseMode(r.Mode); err != nil {
		return err
	}
	if r.RiskWeight < 0 {
		return fmt.Errorf("negative risk weight")
	}
	if r.GridStepDeg < 0 || r.GridStepDeg > 5 {
		return fmt.Errorf("grid step %f not in [0,5]", r.GridStepDeg)
	}
	if err := validHazards(r.Hazards); err != nil {
		return err
	}
	return r.Vessel.validate()
}

// Request converts to a search request with the given hazards.
func (r Route) Request(hs []hazard.Hazard) route.Request {
	mode, _ := route.ParseMode(r.Mode)
	req := route.Request{
		Origin:      r.Origin,
		Destination: r.Destination,
		Hazards:     hs,
		Mode:        mode,
		RiskWeight:  r.RiskWeight,
		Step:        r.GridStepDeg,
	}
	if r.BoundingBox != nil {
		req.Bounds = *r.BoundingBox
	}
	return req
}

func (f Fleet) Validate() error {
	if err := validPoint("origin", f.Origin); err != nil {
		return err
	}
	if err := validPoint("destination", f.Destination); err != nil {
		return err
	}
	if f.FleetSize < 0 || f.FleetSize > MaxFleetSize {
		return fmt.Errorf("fleet size %d not in [0,%d]", f.FleetSize, MaxFleetSize)
	}
	if err := validHazards(f.Hazards); err != nil {
		return err
	}
	return f.Vessel.validate()
}

func (f Fleet) Request(hs []hazard.Hazard, defaultSize int) fleet.Request {
	size := f.FleetSize
	if size == 0 {
		size = defaultSize
	}
	return fleet.Request{
		Origin:      f.Origin,
		Destination: f.Destination,
		Hazards:     hs,
		Size:        size,
		Seed:        f.Seed,
	}
}
