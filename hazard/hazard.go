package hazard

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/a-bouts/nav-planner/latlon"
)

const (
	// DefaultRadius applies when a hazard has no radius, in km.
	DefaultRadius = 100.0
	// DefaultRisk applies when a hazard has no base risk.
	DefaultRisk = 0.6
)

// Hazard is a circular weather danger area. The planner only reads hazards.
type Hazard struct {
	ID     string  `json:"id" yaml:"id"`
	Type   string  `json:"type" yaml:"type"`
	Lat    float64 `json:"lat" yaml:"lat"`
	Lon    float64 `json:"lon" yaml:"lon"`
	Radius float64 `json:"r" yaml:"r"`
	Risk   float64 `json:"risk" yaml:"risk"`
}

func (h Hazard) Center() latlon.LatLon {
	return latlon.LatLon{Lat: h.Lat, Lon: h.Lon}
}

// R returns the influence radius in km, DefaultRadius when unset.
func (h Hazard) R() float64 {
	if h.Radius > 0 {
		return h.Radius
	}
	return DefaultRadius
}

// BaseRisk returns the risk scalar, DefaultRisk when unset.
func (h Hazard) BaseRisk() float64 {
	if h.Risk > 0 {
		return h.Risk
	}
	return DefaultRisk
}

// Validate rejects out of range fields. NaN never compares in range.
func (h Hazard) Validate() error {
	if !(h.Lat >= -90 && h.Lat <= 90) {
		return fmt.Errorf("hazard %s: lat %f out of range", h.ID, h.Lat)
	}
	if !(h.Lon >= -180 && h.Lon <= 180) {
		return fmt.Errorf("hazard %s: lon %f out of range", h.ID, h.Lon)
	}
	if !(h.Radius >= 0) || math.IsInf(h.Radius, 1) {
		return fmt.Errorf("hazard %s: radius %f not a finite distance", h.ID, h.Radius)
	}
	if !(h.Risk >= 0 && h.Risk <= 1) {
		return fmt.Errorf("hazard %s: risk %f not in [0,1]", h.ID, h.Risk)
	}
	return nil
}

// File is the on-disk layout of a hazard list, grouped like the demo data.
type File struct {
	Waves  []Hazard `json:"waves" yaml:"waves"`
	Storms []Hazard `json:"storms" yaml:"storms"`
	Other  []Hazard `json:"hazards" yaml:"hazards"`
}

func (f File) All() []Hazard {
	all := make([]Hazard, 0, len(f.Waves)+len(f.Storms)+len(f.Other))
	all = append(all, f.Waves...)
	all = append(all, f.Storms...)
	all = append(all, f.Other...)
	return all
}

// Load reads a YAML or JSON hazard file and validates every entry.
func Load(file string) ([]Hazard, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	var f File
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		err = json.Unmarshal(b, &f)
	default:
		err = yaml.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode hazards %s: %w", file, err)
	}

	all := f.All()
	for _, h := range all {
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return all, nil
}
