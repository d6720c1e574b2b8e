package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/AlexSkos/drinkmap/internal/domain"
	"github.com/AlexSkos/drinkmap/internal/geo"
)

// Overrides associates fountain ids with local photo asset keys. The
// mapping is produced offline and consumed read-only at startup.
type Overrides map[string]string

// LoadOverrides reads an id -> asset-key JSON file. A missing file is not
// an error: photos are optional.
func LoadOverrides(path string) (Overrides, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var o Overrides
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	return o, nil
}

func (o Overrides) Save(path string) error {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Apply fills each fountain's PhotoKey from the mapping.
func (o Overrides) Apply(fs []domain.Fountain) {
	if len(o) == 0 {
		return
	}
	for i := range fs {
		if key, ok := o[fs[i].ID]; ok {
			fs[i].PhotoKey = key
		}
	}
}

var (
	// node_647921208.jpg -> node/647921208
	osmNamePat = regexp.MustCompile(`^(node|way|relation)[_-]?(\d+)\.(?:jpe?g|png)$`)
	// 39.469900_-0.376300.jpg -> coordinate-tagged photo
	coordNamePat = regexp.MustCompile(`^(-?\d+\.\d+)[_,](-?\d+\.\d+)\.(?:jpe?g|png)$`)
)

// photoMatchRadiusMeters: a coordinate-tagged photo is attached to the
// nearest fountain only when it lies within this radius.
const photoMatchRadiusMeters = 80.0

// MatchPhoto resolves one photo filename to a fountain id. Names of the
// form node_<id>.jpg map directly to an OSM id; coordinate-tagged names
// are matched to the nearest fountain within 80 m. Returns "" when the
// file cannot be attributed.
func MatchPhoto(name string, fountains []domain.Fountain) string {
	base := strings.ToLower(filepath.Base(name))
	if m := osmNamePat.FindStringSubmatch(base); m != nil {
		return m[1] + "/" + m[2]
	}
	m := coordNamePat.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return ""
	}
	bestID, bestDist := "", photoMatchRadiusMeters
	for _, f := range fountains {
		if d := geo.DistanceMeters(lat, lng, f.Lat, f.Lng); d < bestDist {
			bestID, bestDist = f.ID, d
		}
	}
	return bestID
}

// BuildOverrides scans photo filenames and builds the id -> key mapping.
// The asset key is the filename itself; the first match per fountain wins.
func BuildOverrides(names []string, fountains []domain.Fountain) Overrides {
	o := Overrides{}
	for _, name := range names {
		id := MatchPhoto(name, fountains)
		if id == "" {
			continue
		}
		if _, taken := o[id]; !taken {
			o[id] = filepath.Base(name)
		}
	}
	return o
}

// PhotoSrc resolves the photo reference shown in a marker popup: the
// external URL when present, else the local override asset under prefix,
// else "" (the render surface then falls back to its default image).
func PhotoSrc(f domain.Fountain, prefix string) string {
	if f.PhotoURL != "" {
		return f.PhotoURL
	}
	if f.PhotoKey != "" {
		return strings.TrimRight(prefix, "/") + "/" + f.PhotoKey
	}
	return ""
}
