package dataset

import (
	"fmt"
	"math"
	"strings"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

// FeatureCollection mirrors the OSM GeoJSON export bundled with the app.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
}

// FromGeoJSON converts exported OSM features into fountains. Features
// without a point geometry or with non-finite coordinates are skipped.
func FromGeoJSON(features []Feature) []domain.Fountain {
	out := make([]domain.Fountain, 0, len(features))
	for _, f := range features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		lng, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		if !finite(lat) || !finite(lng) {
			continue
		}
		p := f.Properties
		out = append(out, domain.Fountain{
			ID:       featureID(p, f.ID, lat, lng),
			Lat:      lat,
			Lng:      lng,
			Title:    featureTitle(p),
			Note:     featureNote(p),
			PhotoURL: str(p, "imageUrl"),
		})
	}
	return out
}

func featureID(p map[string]any, fallback string, lat, lng float64) string {
	if id := str(p, "@id"); id != "" {
		return id
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("%.6f,%.6f", lat, lng)
}

func featureTitle(p map[string]any) string {
	if v := str(p, "name"); v != "" {
		return v
	}
	if v := str(p, "description"); v != "" {
		return v
	}
	if v := str(p, "ref"); v != "" {
		return "Drinking fountain #" + v
	}
	return "Drinking fountain"
}

func featureNote(p map[string]any) string {
	var bits []string
	if v := str(p, "operator"); v != "" {
		bits = append(bits, v)
	}
	for _, k := range []string{"access", "seasonal", "bottle"} {
		if v := str(p, k); v != "" {
			bits = append(bits, k+": "+v)
		}
	}
	return strings.Join(bits, " • ")
}

func str(p map[string]any, key string) string {
	if p == nil {
		return ""
	}
	if v, ok := p[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
