package airsearch

import (
	"sort"

	"github.com/umahmood/haversine"
)

// kmToMiles is the fixed conversion ratio used for display distances.
const kmToMiles = 0.621371

// Distance is a great-circle distance in both units the system reports.
type Distance struct {
	Km    float64 `json:"km"`
	Miles float64 `json:"miles"`
}

// AirportDistance computes the haversine great-circle distance between
// two records. It is pure: resolving codes to records is the caller's
// job, this function never performs lookup.
func AirportDistance(a, b AirportRecord) Distance {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Latitude, Lon: a.Longitude},
		haversine.Coord{Lat: b.Latitude, Lon: b.Longitude},
	)
	return Distance{Km: km, Miles: km * kmToMiles}
}

// NearbyAirport pairs a record with its distance from a reference.
type NearbyAirport struct {
	Record     AirportRecord
	DistanceKm float64
}

// Nearby returns every candidate in pool within radiusKm of ref,
// excluding ref itself, sorted ascending by distance with ties broken
// by record ID. The inclusion boundary is <=, so a candidate exactly at
// the radius is kept.
//
// This is a brute-force scan over the pool. The dataset is small and
// static, so the O(n) pass per query beats maintaining a spatial
// structure; the catalog's cell index exists only for coordinate-based
// nearest lookups.
func Nearby(ref AirportRecord, radiusKm float64, pool []AirportRecord) []NearbyAirport {
	var out []NearbyAirport
	for _, r := range pool {
		if r.ID == ref.ID {
			continue
		}
		d := AirportDistance(ref, r)
		if d.Km <= radiusKm {
			out = append(out, NearbyAirport{Record: r, DistanceKm: d.Km})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Record.ID < out[j].Record.ID
	})
	return out
}
