package latlon

import (
	"math"
	"testing"
)

func TestDistanceTo(t *testing.T) {
	p1 := LatLon{Lat: 0, Lon: 0}
	p2 := LatLon{Lat: 0, Lon: 1}
	d := DistanceTo(p1, p2)
	if math.Round(d) != 111.0 {
		t.Errorf("{%f,%f}.distanceTo({%f,%f}) = %f; want 111", p1.Lat, p1.Lon, p2.Lat, p2.Lon, d)
	}

	p1 = LatLon{Lat: 26.3, Lon: 50.9}
	p2 = LatLon{Lat: 25.0, Lon: 51.6}
	d = DistanceTo(p1, p2)
	if d < 155 || d > 165 {
		t.Errorf("{%f,%f}.distanceTo({%f,%f}) = %f; want ~160", p1.Lat, p1.Lon, p2.Lat, p2.Lon, d)
	}

	d = DistanceTo(p1, p1)
	if d != 0 {
		t.Errorf("{%f,%f}.distanceTo(self) = %f; want 0", p1.Lat, p1.Lon, d)
	}
}

func TestBearingTo(t *testing.T) {
	p1 := LatLon{Lat: 0, Lon: 0}
	p2 := LatLon{Lat: 1, Lon: 0}
	b := BearingTo(p1, p2)
	if math.Round(b) != 0.0 {
		t.Errorf("{%f,%f}.bearingTo({%f,%f}) = %f; want 0", p1.Lat, p1.Lon, p2.Lat, p2.Lon, b)
	}

	p2 = LatLon{Lat: 0, Lon: -1}
	b = BearingTo(p1, p2)
	if math.Round(b) != 270.0 {
		t.Errorf("{%f,%f}.bearingTo({%f,%f}) = %f; want 270", p1.Lat, p1.Lon, p2.Lat, p2.Lon, b)
	}
}

func TestKmPerDegreeLon(t *testing.T) {
	if k := KmPerDegreeLon(0); k != 111 {
		t.Errorf("KmPerDegreeLon(0) = %f; want 111", k)
	}
	if k := KmPerDegreeLon(90); k > 1e-9 {
		t.Errorf("KmPerDegreeLon(90) = %f; want 0", k)
	}
}

func TestAngle(t *testing.T) {
	if a := Angle(1, 0, 1, 0); a != 0 {
		t.Errorf("Angle(straight) = %f; want 0", a)
	}
	if a := Angle(1, 0, 0, 1); math.Abs(a-π/2) > 1e-12 {
		t.Errorf("Angle(right) = %f; want π/2", a)
	}
	if a := Angle(0, 0, 1, 0); math.Abs(a-π/2) > 1e-12 {
		t.Errorf("Angle(zero, x) = %f; want π/2", a)
	}
}

func TestPathLength(t *testing.T) {
	path := []LatLon{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 0, Lon: 2}}
	d := PathLength(path)
	want := DistanceTo(path[0], path[2])
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("PathLength = %f; want %f", d, want)
	}
	if PathLength(path[:1]) != 0 {
		t.Errorf("PathLength(single) != 0")
	}
}
