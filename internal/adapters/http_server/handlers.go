package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/dataset"
	"github.com/AlexSkos/drinkmap/internal/domain"
	"github.com/AlexSkos/drinkmap/internal/geo"
	"github.com/AlexSkos/drinkmap/internal/i18n"
	"github.com/AlexSkos/drinkmap/internal/surface"
)

// FountainSource yields the current point dataset, whether it comes from
// the bundled file or a database.
type FountainSource interface {
	ListFountains(ctx context.Context) ([]domain.Fountain, error)
}

type Handlers struct {
	Source       FountainSource
	Locator      domain.Locator
	Cache        domain.LocationCache
	Default      domain.UserPosition
	PhotoPrefix  string // URL prefix bundled photo keys resolve under
	DefaultPhoto string // URL of the fallback photo, may be ""
	TileFilter   string
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(15 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(200)
			_, _ = w.Write([]byte("ok"))
		})
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/menu", http.StatusFound)
		})
		r.Get("/menu", h.menu)
		r.Get("/history", h.history)
		r.Get("/contact", h.contact)
		r.Get("/support", h.support)
		r.Get("/map", h.mapPage)
	})
}

func pickLang(r *http.Request) i18n.Lang {
	return i18n.Pick(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
}

func (h *Handlers) mapPage(w http.ResponseWriter, r *http.Request) {
	lang := pickLang(r)
	pos := h.resolvePosition(r)

	fountains, err := h.Source.ListFountains(r.Context())
	if err != nil {
		// The map still renders, just without markers.
		log.Error().Err(err).Msg("dataset unavailable, rendering empty map")
		fountains = nil
	}

	nearby := geo.Nearby(pos.Lat, pos.Lng, fountains, geo.NearbyRadiusMeters)
	all := geo.Cap(fountains, geo.AllPointsCap)

	page := surface.Page(surface.Config{
		CenterLat: pos.Lat,
		CenterLng: pos.Lng,
		Nearby:    h.points(nearby),
		All:       h.points(all),
		Labels: surface.Labels{
			Menu: i18n.T(lang, "menu"),
			All:  i18n.T(lang, "all"),
			Fav:  i18n.T(lang, "favorites"),
		},
		SocketPath:   "/ws",
		TileFilter:   h.TileFilter,
		DefaultPhoto: h.DefaultPhoto,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(page)); err != nil {
		log.Error().Err(err).Msg("failed to write map page")
	}
}

func (h *Handlers) points(fs []domain.Fountain) []surface.Point {
	out := make([]surface.Point, len(fs))
	for i, f := range fs {
		out[i] = surface.Point{
			ID:    f.ID,
			Lat:   f.Lat,
			Lng:   f.Lng,
			Title: f.Title,
			Note:  f.Note,
			Photo: dataset.PhotoSrc(f, h.PhotoPrefix),
		}
	}
	return out
}

// resolvePosition picks the map center: explicit coordinates win, then a
// GeoIP lookup of the client address, then the last position cached for
// that address, then the city default. A fresh resolution refreshes the
// cache so the next coordinate-less visit reuses it.
func (h *Handlers) resolvePosition(r *http.Request) domain.UserPosition {
	key := remoteIP(r)

	if pos, ok := queryPosition(r); ok {
		h.storePosition(r.Context(), key, pos)
		return pos
	}
	if h.Locator != nil {
		if pos, ok := h.Locator.Locate(net.ParseIP(key)); ok {
			h.storePosition(r.Context(), key, pos)
			return pos
		}
	}
	if h.Cache != nil {
		if pos, ok := h.Cache.LastPosition(r.Context(), key); ok {
			return pos
		}
	}
	return h.Default
}

func (h *Handlers) storePosition(ctx context.Context, key string, pos domain.UserPosition) {
	if h.Cache != nil {
		h.Cache.StorePosition(ctx, key, pos)
	}
}

func queryPosition(r *http.Request) (domain.UserPosition, bool) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lng, err2 := strconv.ParseFloat(q.Get("lng"), 64)
	if err1 != nil || err2 != nil {
		return domain.UserPosition{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.UserPosition{}, false
	}
	return domain.UserPosition{Lat: lat, Lng: lng}, true
}
