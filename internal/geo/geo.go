package geo

import (
	"math"
	"sort"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

const (
	// EarthRadiusMeters is the spherical Earth radius used by the
	// haversine formula.
	EarthRadiusMeters = 6371000.0

	// NearbyRadiusMeters bounds the "nearby" subset around the user.
	NearbyRadiusMeters = 1000.0

	// AllPointsCap limits the dataset handed to the map in "show all" mode.
	AllPointsCap = 1500

	// degPerKm approximates how many kilometres one degree of latitude spans.
	degPerKm = 111.0

	// minCosLat clamps the longitude-tolerance divisor so the bounding box
	// does not blow up near the poles.
	minCosLat = 0.2
)

// DistanceMeters returns the great-circle distance between two WGS84
// coordinates using the haversine formula. Symmetric, zero for identical
// points, no side effects.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Nearby returns the fountains within radiusMeters of (lat, lng), sorted by
// ascending distance. Ties keep dataset order (stable sort). A cheap
// bounding-box pass cuts the candidate set before exact distances are
// computed; the box is sized generously so it never drops an in-radius
// point.
func Nearby(lat, lng float64, points []domain.Fountain, radiusMeters float64) []domain.Fountain {
	latTol := radiusMeters / 1000 / degPerKm
	div := math.Cos(lat * math.Pi / 180)
	if div < minCosLat {
		div = minCosLat
	}
	lngTol := latTol / div

	type candidate struct {
		f domain.Fountain
		d float64
	}
	var within []candidate
	for _, f := range points {
		if math.Abs(f.Lat-lat) > latTol || math.Abs(f.Lng-lng) > lngTol {
			continue
		}
		d := DistanceMeters(lat, lng, f.Lat, f.Lng)
		if d <= radiusMeters {
			within = append(within, candidate{f: f, d: d})
		}
	}
	sort.SliceStable(within, func(i, j int) bool { return within[i].d < within[j].d })

	out := make([]domain.Fountain, len(within))
	for i, c := range within {
		out[i] = c.f
	}
	return out
}

// Cap truncates the dataset for the "show all" map mode.
func Cap(points []domain.Fountain, limit int) []domain.Fountain {
	if limit <= 0 || len(points) <= limit {
		return points
	}
	return points[:limit]
}
