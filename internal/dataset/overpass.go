package dataset

import (
	"fmt"
	"strings"

	"github.com/AlexSkos/drinkmap/internal/domain"
	"github.com/AlexSkos/drinkmap/internal/geo"
)

// Element is a raw POI from the Overpass API. Ways and relations carry
// their coordinate in Center instead of Lat/Lon.
type Element struct {
	ID     int64    `json:"id"`
	Type   string   `json:"type"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// FromOverpass converts live Overpass elements into fountains.
func FromOverpass(elements []Element) []domain.Fountain {
	out := make([]domain.Fountain, 0, len(elements))
	for _, el := range elements {
		lat, lng, ok := elementCoords(el)
		if !ok {
			continue
		}
		t := el.Tags
		out = append(out, domain.Fountain{
			ID:    fmt.Sprintf("%s/%d", el.Type, el.ID),
			Lat:   lat,
			Lng:   lng,
			Title: elementTitle(t),
			Note:  elementNote(t),
		})
	}
	return out
}

func elementCoords(el Element) (lat, lng float64, ok bool) {
	if el.Lat != nil && el.Lon != nil {
		return *el.Lat, *el.Lon, true
	}
	if el.Center != nil {
		return el.Center.Lat, el.Center.Lon, true
	}
	return 0, 0, false
}

func elementTitle(t map[string]string) string {
	if v := t["name"]; v != "" {
		return v
	}
	if v := t["ref"]; v != "" {
		return v
	}
	if v := t["water_source"]; v != "" {
		return "Drinking water (" + v + ")"
	}
	return "Drinking fountain"
}

func elementNote(t map[string]string) string {
	var bits []string
	for _, k := range []string{"access", "seasonal", "bottle", "drinking_water"} {
		if v := t[k]; v != "" {
			bits = append(bits, k+": "+v)
		}
	}
	return strings.Join(bits, " • ")
}

// duplicateRadiusMeters: fountains closer than this are considered the
// same physical fountain when merging datasets.
const duplicateRadiusMeters = 10.0

// Merge appends osm points to seed, dropping any osm point within 10 m of
// an already known fountain.
func Merge(seed, osm []domain.Fountain) []domain.Fountain {
	out := append([]domain.Fountain(nil), seed...)
	for _, o := range osm {
		dup := false
		for _, s := range out {
			if geo.DistanceMeters(s.Lat, s.Lng, o.Lat, o.Lng) < duplicateRadiusMeters {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, o)
		}
	}
	return out
}
