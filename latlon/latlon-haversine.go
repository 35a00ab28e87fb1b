package latlon

import "math"

// DistanceTo returns the great-circle distance in kilometres.
func DistanceTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1

	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Asin(math.Min(1, math.Sqrt(a)))

	return R * δ
}

// BearingTo returns the initial bearing in degrees, [0,360).
func BearingTo(from, to LatLon) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)

	Δλ := toRadians(to.Lon - from.Lon)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)
	y := math.Sin(Δλ) * math.Cos(φ2)
	θ := math.Atan2(y, x)

	return wrap360(toDegrees(θ))
}

// PathLength sums the great-circle legs of a polyline.
func PathLength(path []LatLon) float64 {
	d := 0.0
	for i := 0; i+1 < len(path); i++ {
		d += DistanceTo(path[i], path[i+1])
	}
	return d
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	return d1 - float64(int(d1/360.0)*360)
}
