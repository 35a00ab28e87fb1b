package wind

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nilsmagnus/grib/griblib"

	"github.com/a-bouts/nav-planner/hazard"
	"github.com/a-bouts/nav-planner/latlon"
)

const (
	// GaleThreshold is the 10 m wind speed, in m/s, from which a cell is
	// a hazard (Beaufort 8).
	GaleThreshold = 17.2
	// HurricaneSpeed is the speed at which a gale reaches full risk.
	HurricaneSpeed = 32.7
	// BlockDeg is the side of the blocks gale cells are merged into.
	BlockDeg = 2.0
)

// Wind is one forecast of the 10 m wind on a regular lat/lon grid. Rows go
// from Lat0 southwards.
type Wind struct {
	Date time.Time
	File string
	Lat0 float64
	Lon0 float64
	ΔLat float64
	ΔLon float64
	NLat uint32
	NLon uint32
	U    [][]float64
	V    [][]float64
}

func (w Wind) buildGrid(data []float64) [][]float64 {
	grid := make([][]float64, w.NLat)

	p := 0
	for j := uint32(0); j < w.NLat; j++ {
		grid[j] = make([]float64, w.NLon)
		for i := uint32(0); i < w.NLon; i++ {
			if p < len(data) {
				grid[j][i] = data[p]
			}
			p++
		}
	}
	return grid
}

// Init decodes the U and V 10 m wind messages of a GRIB2 file.
func Init(dir string, date time.Time, file string) (Wind, error) {
	w := Wind{Date: date, File: file}
	gribfile, err := os.Open(filepath.Join(dir, file))
	if err != nil {
		return w, err
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return w, err
	}
	for _, message := range messages {
		if message.Section0.Discipline == uint8(0) && message.Section4.ProductDefinitionTemplate.ParameterCategory == uint8(2) && message.Section4.ProductDefinitionTemplate.FirstSurface.Type == 103 && message.Section4.ProductDefinitionTemplate.FirstSurface.Value == 10 {
			grid0, ok := message.Section3.Definition.(*griblib.Grid0)
			if !ok {
				continue
			}
			w.Lat0 = float64(grid0.La1) / 1e6
			w.Lon0 = float64(grid0.Lo1) / 1e6
			w.ΔLat = float64(grid0.Di) / 1e6
			w.ΔLon = float64(grid0.Dj) / 1e6
			w.NLat = grid0.Nj
			w.NLon = grid0.Ni
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				w.U = w.buildGrid(message.Section7.Data)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				w.V = w.buildGrid(message.Section7.Data)
			}
		}
	}
	if w.U == nil || w.V == nil {
		return w, fmt.Errorf("%s: no 10 m wind in grib file", file)
	}
	return w, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinearInterpolate(x float64, y float64, g00 []float64, g10 []float64, g01 []float64, g11 []float64) (float64, float64) {

	rx := (1 - x)
	ry := (1 - y)

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

func vectorToDegrees(u float64, v float64, d float64) float64 {
	if d == 0 {
		return 0
	}
	velocityDir := math.Atan2(u/d, v/d)
	velocityDirToDegrees := velocityDir*180/math.Pi + 180
	return velocityDirToDegrees
}

func (w Wind) global() bool {
	return math.Floor(float64(w.NLon)*w.ΔLon) >= 360
}

// At interpolates the wind at a point. It returns the direction the wind
// blows from in degrees and the speed in m/s, ok false outside the grid.
func (w Wind) At(lat float64, lon float64) (float64, float64, bool) {
	if w.NLat == 0 || w.NLon == 0 || w.ΔLat <= 0 || w.ΔLon <= 0 {
		return 0, 0, false
	}
	i := (w.Lat0 - lat) / w.ΔLat
	j := floorMod(lon-w.Lon0, 360.0) / w.ΔLon
	if i < 0 || i > float64(w.NLat-1) {
		return 0, 0, false
	}
	if !w.global() && j > float64(w.NLon-1) {
		return 0, 0, false
	}

	fi := uint32(i)
	fj := uint32(j)
	fi1 := min(fi+1, w.NLat-1)
	fj1 := (fj + 1) % w.NLon
	if !w.global() {
		fj1 = min(fj+1, w.NLon-1)
	}

	u, v := bilinearInterpolate(j-float64(fj), i-float64(fi),
		[]float64{w.U[fi][fj], w.V[fi][fj]},
		[]float64{w.U[fi][fj1], w.V[fi][fj1]},
		[]float64{w.U[fi1][fj], w.V[fi1][fj]},
		[]float64{w.U[fi1][fj1], w.V[fi1][fj1]})

	d := math.Sqrt(u*u + v*v)
	return vectorToDegrees(u, v, d), d, true
}

// Position returns the coordinates of grid cell (j, i), longitude in
// [-180,180).
func (w Wind) Position(j, i uint32) latlon.LatLon {
	lon := floorMod(w.Lon0+float64(i)*w.ΔLon+180, 360) - 180
	return latlon.LatLon{Lat: w.Lat0 - float64(j)*w.ΔLat, Lon: lon}
}

// Speed returns the wind speed in m/s at grid cell (j, i).
func (w Wind) Speed(j, i uint32) float64 {
	return math.Hypot(w.U[j][i], w.V[j][i])
}

type block struct {
	lat int
	lon int
}

// GaleRisk maps a wind speed to a hazard risk between 0.5 at threshold and
// 1 at HurricaneSpeed.
func GaleRisk(speed, threshold float64) float64 {
	if threshold >= HurricaneSpeed {
		return 1
	}
	x := (speed - threshold) / (HurricaneSpeed - threshold)
	return 0.5 + 0.5*math.Max(0, math.Min(1, x))
}

// Gales merges every cell at or above threshold into blockDeg blocks and
// returns one hazard per block, centred on the block, sized by its half
// diagonal and weighted by the strongest wind inside.
func (w Wind) Gales(threshold, blockDeg float64) []hazard.Hazard {
	if threshold <= 0 {
		threshold = GaleThreshold
	}
	if blockDeg <= 0 {
		blockDeg = BlockDeg
	}

	strongest := make(map[block]float64)
	for j := uint32(0); j < w.NLat && int(j) < len(w.U) && int(j) < len(w.V); j++ {
		for i := uint32(0); i < w.NLon && int(i) < len(w.U[j]) && int(i) < len(w.V[j]); i++ {
			s := w.Speed(j, i)
			if s < threshold {
				continue
			}
			p := w.Position(j, i)
			b := block{lat: int(math.Floor(p.Lat / blockDeg)), lon: int(math.Floor(p.Lon / blockDeg))}
			if s > strongest[b] {
				strongest[b] = s
			}
		}
	}

	blocks := make([]block, 0, len(strongest))
	for b := range strongest {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].lat != blocks[j].lat {
			return blocks[i].lat < blocks[j].lat
		}
		return blocks[i].lon < blocks[j].lon
	})

	res := make([]hazard.Hazard, 0, len(blocks))
	for _, b := range blocks {
		lat := (float64(b.lat) + 0.5) * blockDeg
		lon := (float64(b.lon) + 0.5) * blockDeg
		dLat := blockDeg * 111
		dLon := blockDeg * latlon.KmPerDegreeLon(lat)
		res = append(res, hazard.Hazard{
			ID:     fmt.Sprintf("gale-%s-%+.0f%+.0f", w.Date.Format("2006010215"), lat, lon),
			Type:   "gale",
			Lat:    lat,
			Lon:    lon,
			Radius: math.Hypot(dLat, dLon) / 2,
			Risk:   GaleRisk(strongest[b], threshold),
		})
	}
	return res
}
