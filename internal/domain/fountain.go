package domain

// Fountain is a single mappable drinking fountain. Records are immutable
// after the dataset is loaded.
type Fountain struct {
	ID       string  // "<kind>/<osm-id>" or a coordinate-derived fallback
	Lat, Lng float64 // WGS84 degrees
	Title    string
	Note     string
	PhotoURL string // external photo reference, may be empty
	PhotoKey string // local asset key from the overrides mapping, may be empty
}

// UserPosition is the coordinate shown on the map screen. It is resolved
// once per page load, not continuously tracked.
type UserPosition struct {
	Lat, Lng       float64
	AccuracyMeters *float64
}
