// Package geo provides great-circle distance and geofence checks for
// dispatch tracking.
package geo

import "math"

const earthRadiusKM = 6371.0

// Site is a named geofence center.
type Site struct {
	Name string
	Lat  float64
	Lon  float64
}

// HaversineKM returns the great-circle distance between two points in km.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

// FenceResult reports the nearest site and whether the point is inside its
// radius.
type FenceResult struct {
	Inside      bool
	NearestSite string
	DistanceKM  float64
}

// CheckFence evaluates a point against every site and returns the nearest.
// A point is inside when its distance to any site is within radiusKM.
func CheckFence(lat, lon float64, sites []Site, radiusKM float64) FenceResult {
	res := FenceResult{DistanceKM: math.MaxFloat64}
	for _, s := range sites {
		d := HaversineKM(lat, lon, s.Lat, s.Lon)
		if d < res.DistanceKM {
			res.DistanceKM = d
			res.NearestSite = s.Name
		}
	}
	if len(sites) == 0 {
		res.DistanceKM = 0
		res.Inside = true
		return res
	}
	res.Inside = res.DistanceKM <= radiusKM
	return res
}
