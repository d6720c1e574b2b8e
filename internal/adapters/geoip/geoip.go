// Package geoip resolves a rough user position from the client IP using
// a local MaxMind City database. It is a best-effort fallback for
// visitors who do not send coordinates.
package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

type Locator struct {
	reader *geoip2.Reader
}

var _ domain.Locator = (*Locator)(nil)

// Open loads the database at path. A missing or empty path is not an
// error; the locator simply never resolves, so callers fall through to
// their next position source.
func Open(path string) (*Locator, error) {
	if path == "" {
		return &Locator{}, nil
	}
	r, err := geoip2.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("geoip database unavailable, lookups disabled")
		return &Locator{}, nil
	}
	return &Locator{reader: r}, nil
}

// Locate returns the approximate position for ip. ok is false when the
// database is absent, the IP is private, or the record has no coordinates.
func (l *Locator) Locate(ip net.IP) (domain.UserPosition, bool) {
	if l == nil || l.reader == nil || ip == nil {
		return domain.UserPosition{}, false
	}
	rec, err := l.reader.City(ip)
	if err != nil {
		return domain.UserPosition{}, false
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return domain.UserPosition{}, false
	}
	pos := domain.UserPosition{
		Lat: rec.Location.Latitude,
		Lng: rec.Location.Longitude,
	}
	if rec.Location.AccuracyRadius > 0 {
		acc := float64(rec.Location.AccuracyRadius) * 1000 // km to meters
		pos.AccuracyMeters = &acc
	}
	return pos, true
}

func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
