package latlon

import "math"

const π = math.Pi

// R is the mean Earth radius in kilometres.
const R = 6371.0

type LatLon struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

// Lerp interpolates linearly in lat/lon space, t in [0,1].
func Lerp(from, to LatLon, t float64) LatLon {
	return LatLon{
		Lat: from.Lat + t*(to.Lat-from.Lat),
		Lon: from.Lon + t*(to.Lon-from.Lon),
	}
}

// Midpoint is the lat/lon midpoint, not the great-circle one.
func Midpoint(a, b LatLon) LatLon {
	return LatLon{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
}

// KmPerDegreeLon returns the length of one degree of longitude at lat,
// zero at the poles.
func KmPerDegreeLon(lat float64) float64 {
	k := 111 * math.Cos(toRadians(lat))
	if k < 0 || math.IsNaN(k) {
		return 0
	}
	return k
}

// Angle returns the angle in radians between two planar vectors. Zero-length
// vectors are treated as unit length.
func Angle(ax, ay, bx, by float64) float64 {
	dot := ax*bx + ay*by
	la := math.Hypot(ax, ay)
	if la == 0 {
		la = 1
	}
	lb := math.Hypot(bx, by)
	if lb == 0 {
		lb = 1
	}
	cos := math.Max(-1, math.Min(1, dot/(la*lb)))
	return math.Acos(cos)
}
