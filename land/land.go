package land

import (
	"fmt"
	"math"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/a-bouts/nav-planner/latlon"
)

const (
	// MinCoastKmOpen is the clearance required in open ocean.
	MinCoastKmOpen = 25.0
	// MinCoastKmSea is the clearance required inside an enclosed sea.
	MinCoastKmSea = 8.0
	// CoastPrefKm is the distance beyond which no coast penalty applies.
	CoastPrefKm = 60.0
	// SegmentSamples is the number of intervals checked along a segment.
	SegmentSamples = 24
)

// Box is an axis-aligned lat/lon rectangle.
type Box struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	MinLat float64 `yaml:"minLat" json:"minLat"`
	MaxLat float64 `yaml:"maxLat" json:"maxLat"`
	MinLon float64 `yaml:"minLon" json:"minLon"`
	MaxLon float64 `yaml:"maxLon" json:"maxLon"`
}

func box(lat1, lat2, lon1, lon2 float64) Box {
	return Box{
		MinLat: math.Min(lat1, lat2),
		MaxLat: math.Max(lat1, lat2),
		MinLon: math.Min(lon1, lon2),
		MaxLon: math.Max(lon1, lon2),
	}
}

func sea(name string, lat1, lat2, lon1, lon2 float64) Box {
	b := box(lat1, lat2, lon1, lon2)
	b.Name = name
	return b
}

func (b Box) normalize() Box {
	n := box(b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	n.Name = b.Name
	return n
}

// Contains is inclusive on every edge.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// distanceKm is the distance from an outside point to the rectangle, zero
// inside.
func (b Box) distanceKm(lat, lon float64) float64 {
	clat := math.Max(b.MinLat, math.Min(b.MaxLat, lat))
	clon := math.Max(b.MinLon, math.Min(b.MaxLon, lon))
	dLat := math.Abs(lat-clat) * 111
	dLon := math.Abs(lon-clon) * latlon.KmPerDegreeLon(lat)
	return math.Hypot(dLat, dLon)
}

// edgeDistanceKm is the distance from an inside point to the nearest edge.
func (b Box) edgeDistanceKm(lat, lon float64) float64 {
	kmLat := math.Min(math.Abs(lat-b.MinLat), math.Abs(b.MaxLat-lat)) * 111
	kmLon := math.Min(math.Abs(lon-b.MinLon), math.Abs(b.MaxLon-lon)) * latlon.KmPerDegreeLon(lat)
	return math.Min(kmLat, kmLon)
}

// Land classifies points as land, enclosed sea or open ocean from two
// rectangle sets. Seas punch holes through land.
type Land struct {
	Lands []Box `yaml:"lands" json:"lands"`
	Seas  []Box `yaml:"seas" json:"seas"`
}

// Default returns the built-in coarse world mask.
func Default() *Land {
	return &Land{
		Lands: []Box{
			box(7, 83, -168, -52), box(-56, 13, -82, -34), box(36, 72, -31, 60), box(-35, 37, -18, 52),
			box(0, 78, 26, 180), box(-45, -10, 112, 155), box(59, 83, -75, -11), box(-90, -60, -180, 180),
			// islands and gulf details
			box(-7, 6, 95, 106), box(-9.5, -5.5, 105, 114), box(-4, 7.5, 108, 118), box(-6, 4, 119, 125.5),
			box(-11, 2, 130, 153), box(5, 21, 120, 126), box(5, 10, 79, 82), box(0, 7, 100, 105),
			box(24, 27, 50.5, 52.7), box(24.4, 26.3, 50.0, 50.9), box(24.3, 26.4, 51.0, 51.7), box(28.4, 29.6, 47.0, 48.8),
		},
		Seas: []Box{
			sea("Mediterranean", 30, 46, -6, 36), sea("Black Sea", 40, 47, 27, 42), sea("Baltic", 53, 66, 9, 31),
			sea("Red Sea", 12, 30, 33, 44), sea("Arabian Gulf", 23, 31, 48, 57),
			sea("Gulf of Mexico", 18, 31, -98, -80), sea("Caribbean", 9, 23, -90, -60), sea("North Sea", 51, 61, -4, 9),
			sea("Java Sea", -10, 0, 105, 120), sea("Makassar Strait", -6, 4, 116, 121), sea("Sulu Sea", 1, 9, 117, 126),
			sea("Flores Sea", -9, -4, 118, 123), sea("Bali Sea", -7, -5, 114, 117), sea("Banda Sea", -8, -3, 122, 132),
			sea("Seram Sea", -4, -1, 129, 134), sea("Arafura Sea", -12, -4, 130, 142), sea("Timor Sea", -13, -8, 123, 130),
			sea("Savu Sea", -11, -9, 120, 125), sea("Palawan Passage", 4, 12, 118, 123), sea("Bohol Sea", 8, 10.5, 123, 126),
			sea("Gulf of Thailand", 6, 14, 99, 106),
		},
	}
}

// InitLand loads a mask file. An empty file name returns the default mask.
func InitLand(file string) (*Land, error) {
	if file == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(file)
	if err != nil {
		log.WithError(err).Errorf("Error reading file '%s'", file)
		return nil, err
	}

	var l Land
	if err := yaml.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("decode land mask %s: %w", file, err)
	}
	if len(l.Lands) == 0 {
		return nil, fmt.Errorf("land mask %s: no land boxes", file)
	}
	for i := range l.Lands {
		l.Lands[i] = l.Lands[i].normalize()
	}
	for i := range l.Seas {
		l.Seas[i] = l.Seas[i].normalize()
	}
	log.Debugf("Loaded land mask %s: %d lands, %d seas", file, len(l.Lands), len(l.Seas))
	return &l, nil
}

// ContainingSea returns the first enclosed sea holding the point.
func (l *Land) ContainingSea(lat, lon float64) (Box, bool) {
	for _, s := range l.Seas {
		if s.Contains(lat, lon) {
			return s, true
		}
	}
	return Box{}, false
}

// IsLand reports whether the point lies in a land box and in no sea box.
func (l *Land) IsLand(lat, lon float64) bool {
	return !l.IsOcean(lat, lon)
}

func (l *Land) IsOcean(lat, lon float64) bool {
	for _, r := range l.Lands {
		if r.Contains(lat, lon) {
			_, inSea := l.ContainingSea(lat, lon)
			return inSea
		}
	}
	return true
}

// CoastDistanceKm measures to the sea's own edge inside an enclosed sea,
// otherwise to the nearest land box.
func (l *Land) CoastDistanceKm(lat, lon float64) float64 {
	if s, ok := l.ContainingSea(lat, lon); ok {
		return s.edgeDistanceKm(lat, lon)
	}
	best := math.Inf(1)
	for _, r := range l.Lands {
		if d := r.distanceKm(lat, lon); d < best {
			best = d
		}
	}
	return best
}

// BufferOK reports whether the point is navigable: ocean with enough
// clearance from the coast for its water-body class.
func (l *Land) BufferOK(lat, lon float64) bool {
	if !l.IsOcean(lat, lon) {
		return false
	}
	clearance := MinCoastKmOpen
	if _, ok := l.ContainingSea(lat, lon); ok {
		clearance = MinCoastKmSea
	}
	return l.CoastDistanceKm(lat, lon) >= clearance
}

// SegmentOK checks SegmentSamples+1 evenly spaced points, endpoints included.
func (l *Land) SegmentOK(a, b latlon.LatLon) bool {
	for s := 0; s <= SegmentSamples; s++ {
		p := latlon.Lerp(a, b, float64(s)/SegmentSamples)
		if !l.BufferOK(p.Lat, p.Lon) {
			return false
		}
	}
	return true
}

// CoastPenalty is 0 beyond CoastPrefKm and grows quadratically to 10 at
// the coast.
func (l *Land) CoastPenalty(lat, lon float64) float64 {
	dist := l.CoastDistanceKm(lat, lon)
	if dist >= CoastPrefKm {
		return 0
	}
	x := math.Max(0, (CoastPrefKm-dist)/CoastPrefKm)
	return x * x * 10
}
