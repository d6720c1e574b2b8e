package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

// Load reads a bundled dataset file. Three formats are accepted: a flat
// fountain array written by the ingestor, a GeoJSON FeatureCollection, or
// a bare feature array (the shape of the original OSM export).
func Load(path string) ([]domain.Fountain, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) ([]domain.Fountain, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(raw, &fc); err == nil && fc.Type == "FeatureCollection" {
		return FromGeoJSON(fc.Features), nil
	}

	var features []Feature
	if err := json.Unmarshal(raw, &features); err == nil && looksLikeFeatures(features) {
		return FromGeoJSON(features), nil
	}

	var flat []flatFountain
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	out := make([]domain.Fountain, 0, len(flat))
	for _, f := range flat {
		if !finite(f.Lat) || !finite(f.Lng) {
			continue
		}
		if f.Title == "" {
			f.Title = "Drinking fountain"
		}
		if f.ID == "" {
			f.ID = fmt.Sprintf("%.6f,%.6f", f.Lat, f.Lng)
		}
		out = append(out, domain.Fountain{
			ID: f.ID, Lat: f.Lat, Lng: f.Lng,
			Title: f.Title, Note: f.Note,
			PhotoURL: f.PhotoURL, PhotoKey: f.PhotoKey,
		})
	}
	return out, nil
}

func looksLikeFeatures(fs []Feature) bool {
	for _, f := range fs {
		if f.Geometry.Type != "" {
			return true
		}
	}
	return false
}

type flatFountain struct {
	ID       string  `json:"id"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Title    string  `json:"title"`
	Note     string  `json:"note,omitempty"`
	PhotoURL string  `json:"photoUrl,omitempty"`
	PhotoKey string  `json:"photoKey,omitempty"`
}

// Static serves an in-memory snapshot, for deployments that run off the
// bundled file instead of a database.
type Static struct{ fountains []domain.Fountain }

func NewStatic(fs []domain.Fountain) *Static { return &Static{fountains: fs} }

func (s *Static) ListFountains(_ context.Context) ([]domain.Fountain, error) {
	return s.fountains, nil
}

// Write exports fountains in the flat format Load understands.
func Write(path string, fs []domain.Fountain) error {
	flat := make([]flatFountain, len(fs))
	for i, f := range fs {
		flat[i] = flatFountain{
			ID: f.ID, Lat: f.Lat, Lng: f.Lng,
			Title: f.Title, Note: f.Note,
			PhotoURL: f.PhotoURL, PhotoKey: f.PhotoKey,
		}
	}
	b, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
